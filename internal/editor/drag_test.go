package editor

import (
	"testing"

	"github.com/dshills/pianoroll/internal/event"
)

func TestDragStartRequiresSelection(t *testing.T) {
	f := newFixture(t)
	f.addNote(t, 1000, 60, 500)

	if f.editor.drag.Start(0, 0) {
		t.Error("drag should not start with nothing selected")
	}
}

func TestDragStartRejectsNested(t *testing.T) {
	f := newFixture(t)
	n := f.addNote(t, 1000, 60, 500)
	f.sel.Select(n.ID, false)

	if !f.editor.drag.Start(100, 100) {
		t.Fatal("first start should succeed")
	}
	if f.editor.drag.Start(200, 200) {
		t.Error("second start while active should fail")
	}
}

func TestDragMovesNoteWithSnap(t *testing.T) {
	f := newFixture(t)
	n := f.addNote(t, 1000, 60, 500)
	f.sel.Select(n.ID, false)

	x, y := f.center(n)
	h := f.editor.drag
	h.Start(x, y)
	// +33px is +330ms raw; the 100ms grid snaps it to +300ms.
	// One full row up is -12px, one semitone.
	h.Update(x+33, y-12)

	ghosts := h.Ghosts()
	if len(ghosts) != 1 {
		t.Fatalf("expected 1 ghost, got %d", len(ghosts))
	}
	if ghosts[0].Time != 1300 || ghosts[0].Pitch != 61 {
		t.Errorf("ghost at %d/%d, want 1300/61", ghosts[0].Time, ghosts[0].Pitch)
	}
	if n.Time != 1000 || n.Pitch != 60 {
		t.Error("real note must not move before finish")
	}

	h.Finish(x+33, y-12)
	if n.Time != 1300 || n.Pitch != 61 {
		t.Errorf("note at %d/%d after finish, want 1300/61", n.Time, n.Pitch)
	}
	if !f.log.CanUndo() {
		t.Error("finished drag should be undoable")
	}
}

func TestDragWithoutSnap(t *testing.T) {
	f := newFixture(t)
	f.cfg.Set("snap.enabled", false)
	n := f.addNote(t, 1000, 60, 500)
	f.sel.Select(n.ID, false)

	x, y := f.center(n)
	h := f.editor.drag
	h.Start(x, y)
	h.Finish(x+33, y)
	if n.Time != 1330 {
		t.Errorf("expected raw 1330 with snap off, got %d", n.Time)
	}
}

func TestDragPairClampPreservesSpacing(t *testing.T) {
	f := newFixture(t)
	a := f.addNote(t, 1000, 20, 500)
	b := f.addNote(t, 1000, 30, 500)
	f.sel.Select(a.ID, true)
	f.sel.Select(b.ID, true)

	// 25 semitones down would take a to -5; the clamp reduces the
	// whole move to -20, keeping the 10-semitone spread.
	x, y := f.center(a)
	h := f.editor.drag
	h.Start(x, y)
	h.Finish(x, y+25*f.coords.NoteHeight())

	if a.Pitch != 0 {
		t.Errorf("expected a at pitch 0, got %d", a.Pitch)
	}
	if b.Pitch != 10 {
		t.Errorf("expected b at pitch 10, got %d", b.Pitch)
	}
}

func TestDragClampAtUpperPitch(t *testing.T) {
	f := newFixture(t)
	a := f.addNote(t, 1000, 120, 500)
	b := f.addNote(t, 1000, 100, 500)
	f.sel.Select(a.ID, true)
	f.sel.Select(b.ID, true)

	x, y := f.center(a)
	h := f.editor.drag
	h.Start(x, y)
	h.Finish(x, y-20*f.coords.NoteHeight())

	if a.Pitch != 127 || b.Pitch != 107 {
		t.Errorf("expected 127/107, got %d/%d", a.Pitch, b.Pitch)
	}
}

func TestDragClampAtTimeZero(t *testing.T) {
	f := newFixture(t)
	a := f.addNote(t, 200, 60, 100)
	b := f.addNote(t, 900, 62, 100)
	f.sel.Select(a.ID, true)
	f.sel.Select(b.ID, true)

	x, y := f.center(a)
	h := f.editor.drag
	h.Start(x, y)
	h.Finish(x-100, y) // -1000ms, clamped to -200

	if a.Time != 0 {
		t.Errorf("expected a at 0, got %d", a.Time)
	}
	if b.Time != 700 {
		t.Errorf("expected b at 700, got %d", b.Time)
	}
}

func TestDragCancelRestoresExactly(t *testing.T) {
	f := newFixture(t)
	a := f.addNote(t, 1000, 60, 500)
	b := f.addNote(t, 2000, 64, 250)
	f.sel.Select(a.ID, true)
	f.sel.Select(b.ID, true)
	aBefore, bBefore := *a, *b

	x, y := f.center(a)
	h := f.editor.drag
	h.Start(x, y)
	h.Update(x+500, y-60)
	h.Cancel()

	if *a != aBefore || *b != bBefore {
		t.Error("cancel must restore both notes exactly")
	}
	if f.log.CanUndo() {
		t.Error("cancelled drag should not record history")
	}
	if h.IsActive() {
		t.Error("handler should be idle after cancel")
	}
}

func TestDragNoOpRecordsNothing(t *testing.T) {
	f := newFixture(t)
	n := f.addNote(t, 1000, 60, 500)
	f.sel.Select(n.ID, false)

	x, y := f.center(n)
	h := f.editor.drag
	h.Start(x, y)
	h.Finish(x, y)
	if f.log.CanUndo() {
		t.Error("zero-delta drag should not record history")
	}
}

func TestDragEmitsLifecycleEvents(t *testing.T) {
	f := newFixture(t)
	n := f.addNote(t, 1000, 60, 500)
	f.sel.Select(n.ID, false)

	var started []event.DragStarted
	var finished []event.DragFinished
	f.emitter.Subscribe(event.TopicDragStarted, func(ev any) {
		started = append(started, ev.(event.DragStarted))
	})
	f.emitter.Subscribe(event.TopicDragFinished, func(ev any) {
		finished = append(finished, ev.(event.DragFinished))
	})

	x, y := f.center(n)
	h := f.editor.drag
	h.Start(x, y)
	h.Finish(x+10, y)

	if len(started) != 1 || started[0].Count != 1 {
		t.Errorf("unexpected start events: %+v", started)
	}
	if len(finished) != 1 || finished[0].DeltaTimeMs != 100 {
		t.Errorf("unexpected finish events: %+v", finished)
	}
}

func TestDragReadsConfigLive(t *testing.T) {
	f := newFixture(t)
	n := f.addNote(t, 1000, 60, 500)
	f.sel.Select(n.ID, false)

	x, y := f.center(n)
	h := f.editor.drag
	h.Start(x, y)
	h.Update(x+33, y)
	if h.Ghosts()[0].Time != 1300 {
		t.Fatalf("expected snapped 1300, got %d", h.Ghosts()[0].Time)
	}

	// Turning snap off mid-gesture takes effect at the next update.
	f.cfg.Set("snap.enabled", false)
	h.Update(x+33, y)
	if h.Ghosts()[0].Time != 1330 {
		t.Errorf("expected raw 1330 after live config change, got %d", h.Ghosts()[0].Time)
	}
}

func TestDragUndoRestoresPositions(t *testing.T) {
	f := newFixture(t)
	n := f.addNote(t, 1000, 60, 500)
	f.sel.Select(n.ID, false)

	x, y := f.center(n)
	h := f.editor.drag
	h.Start(x, y)
	h.Finish(x+50, y-24)

	if err := f.log.Undo(f.timeline); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if n.Time != 1000 || n.Pitch != 60 {
		t.Errorf("undo left note at %d/%d", n.Time, n.Pitch)
	}
	if err := f.log.Redo(f.timeline); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if n.Time != 1500 || n.Pitch != 62 {
		t.Errorf("redo left note at %d/%d", n.Time, n.Pitch)
	}
}
