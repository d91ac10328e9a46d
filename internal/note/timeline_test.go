package note

import (
	"errors"
	"testing"
)

func TestNewNoteDefaults(t *testing.T) {
	n := New(1000, 60, 250)
	if n.ID == "" {
		t.Error("id not assigned")
	}
	if n.Velocity != DefaultVelocity {
		t.Errorf("expected default velocity %d, got %d", DefaultVelocity, n.Velocity)
	}
	if n.End() != 1250 {
		t.Errorf("expected end 1250, got %d", n.End())
	}
}

func TestClamp(t *testing.T) {
	n := Note{Time: -10, Pitch: 200, Duration: 5, Velocity: 300, Channel: 99}
	n.Clamp(MinDuration)
	if n.Time != 0 {
		t.Errorf("time not clamped: %d", n.Time)
	}
	if n.Pitch != MaxPitch {
		t.Errorf("pitch not clamped: %d", n.Pitch)
	}
	if n.Duration != MinDuration {
		t.Errorf("duration not clamped: %d", n.Duration)
	}
	if n.Velocity != MaxVelocity {
		t.Errorf("velocity not clamped: %d", n.Velocity)
	}
	if n.Channel != MaxChannel {
		t.Errorf("channel not clamped: %d", n.Channel)
	}
}

func TestInsertKeepsTimeOrder(t *testing.T) {
	tl := NewTimeline()
	times := []int64{3000, 1000, 2000, 1000, 0}
	for _, ms := range times {
		if _, err := tl.Insert(New(ms, 60, 100)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	notes := tl.Notes()
	if len(notes) != len(times) {
		t.Fatalf("expected %d notes, got %d", len(times), len(notes))
	}
	for i := 1; i < len(notes); i++ {
		if notes[i-1].Time > notes[i].Time {
			t.Errorf("out of order at %d: %d > %d", i, notes[i-1].Time, notes[i].Time)
		}
	}
}

func TestInsertRejectsDuplicateAndMissingID(t *testing.T) {
	tl := NewTimeline()
	n := New(0, 60, 100)
	if _, err := tl.Insert(n); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := tl.Insert(n); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := tl.Insert(Note{Time: 0, Pitch: 60, Duration: 100}); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestRemoveByID(t *testing.T) {
	tl := NewTimeline()
	inserted, _ := tl.Insert(New(500, 64, 100))

	removed, err := tl.RemoveByID(inserted.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.Time != 500 || removed.Pitch != 64 {
		t.Errorf("wrong note removed: %+v", removed)
	}
	if tl.Len() != 0 {
		t.Errorf("expected empty timeline, got %d", tl.Len())
	}
	if _, err := tl.RemoveByID(inserted.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestSortByTimeAfterMutation(t *testing.T) {
	tl := NewTimeline()
	a, _ := tl.Insert(New(0, 60, 100))
	tl.Insert(New(1000, 62, 100))

	a.Time = 5000
	tl.SortByTime()

	notes := tl.Notes()
	if notes[0].Time != 1000 || notes[1].Time != 5000 {
		t.Errorf("sort did not restore order: %d, %d", notes[0].Time, notes[1].Time)
	}
}

func TestDirtyFlag(t *testing.T) {
	tl := NewTimeline()
	if tl.IsDirty() {
		t.Error("new timeline should be clean")
	}
	tl.MarkDirty()
	if !tl.IsDirty() {
		t.Error("should be dirty after MarkDirty")
	}
	tl.ClearDirty()
	if tl.IsDirty() {
		t.Error("should be clean after ClearDirty")
	}
}

func TestBounds(t *testing.T) {
	tl := NewTimeline()
	if _, _, _, _, ok := tl.Bounds(); ok {
		t.Error("empty timeline should report no bounds")
	}

	tl.Insert(New(1000, 48, 500))
	tl.Insert(New(200, 72, 2000))
	start, end, lo, hi, ok := tl.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if start != 200 || end != 2200 || lo != 48 || hi != 72 {
		t.Errorf("wrong bounds: %d %d %d %d", start, end, lo, hi)
	}
}

func TestTakeSnapshotCopiesValues(t *testing.T) {
	tl := NewTimeline()
	n, _ := tl.Insert(New(100, 60, 250))

	snap := TakeSnapshot(tl.Notes())
	n.Time = 9999
	if snap[n.ID].Time != 100 {
		t.Errorf("snapshot should be immune to later mutation, got %d", snap[n.ID].Time)
	}
}
