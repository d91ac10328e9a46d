package event

import (
	"testing"
)

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"drag.started", "drag.started", true},
		{"drag.started", "drag.finished", false},
		{"drag.started", "*", true},
		{"drag.started", "drag.*", true},
		{"resize.started", "drag.*", false},
		{"drag.started", "drag", false},
	}
	for _, tc := range tests {
		if got := tc.topic.Match(tc.pattern); got != tc.want {
			t.Errorf("%s match %s = %v, want %v", tc.topic, tc.pattern, got, tc.want)
		}
	}
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	e := NewEmitter()
	var got []DragStarted
	e.Subscribe(TopicDragStarted, func(ev any) {
		got = append(got, ev.(DragStarted))
	})

	e.Publish(DragStarted{Count: 3})
	if len(got) != 1 || got[0].Count != 3 {
		t.Errorf("unexpected delivery: %+v", got)
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	e := NewEmitter()
	called := false
	e.Subscribe(TopicResizeStarted, func(any) { called = true })

	e.Publish(DragStarted{Count: 1})
	if called {
		t.Error("resize subscriber saw a drag event")
	}
}

func TestWildcardSubscription(t *testing.T) {
	e := NewEmitter()
	count := 0
	e.Subscribe("*", func(any) { count++ })

	e.Publish(DragStarted{})
	e.Publish(ResizeStarted{})
	e.Publish(ToolChanged{Old: "select", New: "pencil"})
	if count != 3 {
		t.Errorf("wildcard should see all events, got %d", count)
	}
}

func TestPrefixSubscription(t *testing.T) {
	e := NewEmitter()
	count := 0
	e.Subscribe("drag.*", func(any) { count++ })

	e.Publish(DragStarted{})
	e.Publish(DragFinished{})
	e.Publish(ResizeStarted{})
	if count != 2 {
		t.Errorf("prefix should see both drag events, got %d", count)
	}
}

func TestUnsubscribe(t *testing.T) {
	e := NewEmitter()
	count := 0
	sub := e.Subscribe(TopicNotesAdded, func(any) { count++ })

	e.Publish(NotesAdded{})
	sub.Unsubscribe()
	e.Publish(NotesAdded{})
	if count != 1 {
		t.Errorf("expected 1 delivery after unsubscribe, got %d", count)
	}
}

func TestPanicInHandlerIsContained(t *testing.T) {
	e := NewEmitter()
	e.Subscribe(TopicNotesAdded, func(any) { panic("boom") })
	delivered := false
	e.Subscribe(TopicNotesAdded, func(any) { delivered = true })

	e.Publish(NotesAdded{}) // must not panic the caller
	if !delivered {
		t.Error("panic in one handler should not starve the next")
	}
	if e.Stats().Panics != 1 {
		t.Errorf("expected 1 recorded panic, got %d", e.Stats().Panics)
	}
}

func TestStatsCounts(t *testing.T) {
	e := NewEmitter()
	e.Subscribe("*", func(any) {})
	e.Subscribe(TopicDragStarted, func(any) {})

	e.Publish(DragStarted{})
	e.Publish(ResizeStarted{})

	s := e.Stats()
	if s.Published != 2 {
		t.Errorf("expected 2 published, got %d", s.Published)
	}
	if s.Delivered != 3 {
		t.Errorf("expected 3 delivered, got %d", s.Delivered)
	}
}

func TestPublishNonTopicPayloadIsIgnored(t *testing.T) {
	e := NewEmitter()
	called := false
	e.Subscribe("*", func(any) { called = true })

	e.Publish("not an event")
	if called {
		t.Error("payloads without a topic should not be delivered")
	}
}

func TestResizeEdgeString(t *testing.T) {
	if EdgeLeft.String() != "left" || EdgeRight.String() != "right" {
		t.Error("unexpected edge names")
	}
}
