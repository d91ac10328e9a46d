package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/pianoroll/internal/coord"
	"github.com/dshills/pianoroll/internal/note"
)

func newTestRenderer(t *testing.T) (*Snapshot, *note.Timeline) {
	t.Helper()
	coords := coord.NewSystem(0, 127)
	coords.SetScale(100, 12)

	opts := DefaultOptions()
	opts.Width = 320
	opts.Height = 240

	snap, err := NewSnapshot(coords, opts)
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}
	return snap, note.NewTimeline()
}

func TestWritePNG(t *testing.T) {
	snap, tl := newTestRenderer(t)
	a, _ := tl.Insert(note.New(100, 120, 500))
	tl.Insert(note.New(800, 125, 250))

	path := filepath.Join(t.TempDir(), "roll.png")
	scene := Scene{
		SelectedIDs: map[string]struct{}{a.ID: {}},
		Ghosts:      []note.Note{{Time: 1500, Pitch: 118, Duration: 300}},
		Band:        &coord.Rect{X: 10, Y: 10, Width: 100, Height: 50},
	}
	if err := snap.WritePNG(tl, scene, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 320 || bounds.Dy() != 240 {
		t.Errorf("unexpected image size %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestWritePNGEmptyTimeline(t *testing.T) {
	snap, tl := newTestRenderer(t)
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := snap.WritePNG(tl, Scene{}, path); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}

func TestNewSnapshotRejectsBadSize(t *testing.T) {
	coords := coord.NewSystem(0, 127)
	opts := DefaultOptions()
	opts.Width = 0
	if _, err := NewSnapshot(coords, opts); err == nil {
		t.Error("zero width should be rejected")
	}
}

func TestNoteNames(t *testing.T) {
	tests := []struct {
		pitch int
		want  string
	}{
		{60, "C4"},
		{69, "A4"},
		{0, "C-1"},
		{127, "G9"},
	}
	for _, tc := range tests {
		if got := noteName(tc.pitch); got != tc.want {
			t.Errorf("noteName(%d) = %s, want %s", tc.pitch, got, tc.want)
		}
	}
}

func TestBlackKeys(t *testing.T) {
	black := map[int]bool{1: true, 3: true, 6: true, 8: true, 10: true}
	for pitch := 0; pitch < 12; pitch++ {
		if isBlackKey(pitch) != black[pitch] {
			t.Errorf("isBlackKey(%d) = %v", pitch, isBlackKey(pitch))
		}
	}
	if !isBlackKey(61) {
		t.Error("C#4 is a black key")
	}
}
