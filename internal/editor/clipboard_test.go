package editor

import (
	"errors"
	"testing"
)

// stubClipboard replaces the system clipboard with an in-memory string
// for the duration of a test.
func stubClipboard(t *testing.T) *string {
	t.Helper()
	var buf string
	origWrite, origRead := clipboardWrite, clipboardRead
	clipboardWrite = func(s string) error { buf = s; return nil }
	clipboardRead = func() (string, error) { return buf, nil }
	t.Cleanup(func() {
		clipboardWrite, clipboardRead = origWrite, origRead
	})
	return &buf
}

func TestCopyPasteRoundTrip(t *testing.T) {
	f := newFixture(t)
	stubClipboard(t)

	a := f.addNote(t, 1000, 60, 500)
	b := f.addNote(t, 1500, 64, 250)
	b.Velocity = 80
	f.sel.Select(a.ID, true)
	f.sel.Select(b.ID, true)

	if err := f.editor.Copy(); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if err := f.editor.Paste(4000); err != nil {
		t.Fatalf("paste: %v", err)
	}

	if f.timeline.Len() != 4 {
		t.Fatalf("expected 4 notes, got %d", f.timeline.Len())
	}

	// Pasted notes keep their relative offsets, shifted to the target.
	notes := f.timeline.Notes()
	p1, p2 := notes[2], notes[3]
	if p1.Time != 4000 || p2.Time != 4500 {
		t.Errorf("pasted at %d/%d, want 4000/4500", p1.Time, p2.Time)
	}
	if p1.Pitch != 60 || p2.Pitch != 64 || p2.Velocity != 80 {
		t.Error("pasted notes should keep pitch and velocity")
	}
	if p1.ID == a.ID || p2.ID == b.ID {
		t.Error("pasted notes must get fresh identities")
	}

	// The paste is selected and undoable as one step.
	if !f.sel.IsSelected(p1.ID) || !f.sel.IsSelected(p2.ID) {
		t.Error("paste should select the new notes")
	}
	if err := f.log.Undo(f.timeline); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if f.timeline.Len() != 2 {
		t.Errorf("undo should remove the pasted pair, got %d", f.timeline.Len())
	}
}

func TestCutRemovesSelection(t *testing.T) {
	f := newFixture(t)
	buf := stubClipboard(t)

	n := f.addNote(t, 1000, 60, 500)
	f.sel.Select(n.ID, false)
	if err := f.editor.Cut(); err != nil {
		t.Fatalf("cut: %v", err)
	}
	if f.timeline.Len() != 0 {
		t.Error("cut should remove the note")
	}
	if *buf == "" {
		t.Error("cut should fill the clipboard")
	}

	if err := f.editor.Paste(0); err != nil {
		t.Fatalf("paste after cut: %v", err)
	}
	if f.timeline.Len() != 1 || f.timeline.Notes()[0].Time != 0 {
		t.Error("paste after cut should restore the note at the target")
	}
}

func TestCopyEmptySelectionIsNoOp(t *testing.T) {
	f := newFixture(t)
	buf := stubClipboard(t)
	if err := f.editor.Copy(); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if *buf != "" {
		t.Error("copying nothing should leave the clipboard alone")
	}
}

func TestPasteForeignContentIsNoOp(t *testing.T) {
	f := newFixture(t)
	buf := stubClipboard(t)
	*buf = "some unrelated text"

	if err := f.editor.Paste(0); err != nil {
		t.Fatalf("paste: %v", err)
	}
	if f.timeline.Len() != 0 {
		t.Error("foreign clipboard content should paste nothing")
	}
	if f.log.CanUndo() {
		t.Error("no-op paste should not record history")
	}
}

func TestPasteNegativeTargetClampsToZero(t *testing.T) {
	f := newFixture(t)
	stubClipboard(t)

	n := f.addNote(t, 1000, 60, 500)
	f.sel.Select(n.ID, false)
	f.editor.Copy()
	f.editor.Paste(-500)

	notes := f.timeline.Notes()
	if notes[0].Time != 0 {
		t.Errorf("expected paste at 0, got %d", notes[0].Time)
	}
}

func TestClipboardErrorsPropagate(t *testing.T) {
	f := newFixture(t)
	origWrite, origRead := clipboardWrite, clipboardRead
	clipboardWrite = func(string) error { return errors.New("no display") }
	clipboardRead = func() (string, error) { return "", errors.New("no display") }
	t.Cleanup(func() {
		clipboardWrite, clipboardRead = origWrite, origRead
	})

	n := f.addNote(t, 1000, 60, 500)
	f.sel.Select(n.ID, false)
	if err := f.editor.Copy(); err == nil {
		t.Error("write failure should surface")
	}
	if err := f.editor.Paste(0); err == nil {
		t.Error("read failure should surface")
	}
}
