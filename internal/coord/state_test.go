package coord

import (
	"math"
	"testing"

	"github.com/dshills/pianoroll/internal/note"
)

func TestSerializeRoundTrip(t *testing.T) {
	s := newTestSystem()
	s.SetZoomXAt(2.5, 300)
	s.SetZoomY(1.5)
	s.Pan(-40, 25)

	data, err := s.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	restored := NewSystem(0, 127)
	if err := restored.Deserialize(data); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if restored.State() != s.State() {
		t.Errorf("state mismatch: %+v vs %+v", restored.State(), s.State())
	}
}

func TestDeserializeRejectsBadState(t *testing.T) {
	s := newTestSystem()
	if err := s.Deserialize([]byte("{not json")); err == nil {
		t.Error("expected error for malformed json")
	}
	if err := s.Deserialize([]byte(`{"pixelsPerSecond":0,"pixelsPerNote":12,"minZoom":0.1,"maxZoom":10}`)); err == nil {
		t.Error("expected error for zero scale")
	}
	if err := s.Deserialize([]byte(`{"pixelsPerSecond":100,"pixelsPerNote":12,"minZoom":5,"maxZoom":1}`)); err == nil {
		t.Error("expected error for inverted zoom limits")
	}
}

func TestRestoreReclampsZoom(t *testing.T) {
	s := newTestSystem()
	state := s.State()
	state.ZoomX = 99 // beyond the captured limits
	s.Restore(state)
	if s.ZoomX() != state.MaxZoom {
		t.Errorf("expected zoom clamped to %v, got %v", state.MaxZoom, s.ZoomX())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := newTestSystem()
	clone := s.Clone()
	clone.Pan(100, 100)
	if s.OffsetX() != 0 || s.OffsetY() != 0 {
		t.Error("panning the clone moved the original")
	}
}

func TestFitToNotes(t *testing.T) {
	s := newTestSystem()
	n1 := note.New(1000, 60, 500)
	n2 := note.New(3000, 72, 1000)
	notes := []*note.Note{&n1, &n2}

	s.FitToNotes(notes, 800, 600, 10)

	// Both notes land fully inside the viewport.
	for _, n := range notes {
		r := s.NoteRect(float64(n.Time), float64(n.Duration), n.Pitch)
		if r.X < 0 || r.X+r.Width > 800 || r.Y < 0 || r.Y+r.Height > 600 {
			t.Errorf("note %d..%d pitch %d outside view: %+v", n.Time, n.End(), n.Pitch, r)
		}
	}

	// The content is horizontally centered.
	left := s.TimeToX(1000)
	right := s.TimeToX(4000)
	if math.Abs((left-0)-(800-right)) > 1.0 {
		t.Errorf("content not centered: left margin %v, right margin %v", left, 800-right)
	}
}

func TestFitToNotesEmptyIsNoOp(t *testing.T) {
	s := newTestSystem()
	before := s.State()
	s.FitToNotes(nil, 800, 600, 10)
	if s.State() != before {
		t.Error("fitting an empty list should not change the view")
	}
}
