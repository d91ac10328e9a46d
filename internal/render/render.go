// Package render draws the piano roll to a PNG image: the pitch grid,
// the notes, the selection highlight, and any gesture previews. It is
// a snapshot renderer for export and debugging, not a frame loop.
package render

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/dshills/pianoroll/internal/coord"
	"github.com/dshills/pianoroll/internal/note"
)

// Palette holds the snapshot colors. The zero value is unusable; start
// from DefaultPalette.
type Palette struct {
	Background color.Color
	GridLine   color.Color
	BeatLine   color.Color
	RowShade   color.Color
	Note       color.Color
	NoteBorder color.Color
	Selected   color.Color
	Ghost      color.Color
	Label      color.Color
}

// DefaultPalette is a dark theme matching the terminal UI.
func DefaultPalette() Palette {
	return Palette{
		Background: color.RGBA{0x1e, 0x1e, 0x2e, 0xff},
		GridLine:   color.RGBA{0x31, 0x32, 0x44, 0xff},
		BeatLine:   color.RGBA{0x45, 0x47, 0x5a, 0xff},
		RowShade:   color.RGBA{0x24, 0x24, 0x34, 0xff},
		Note:       color.RGBA{0x89, 0xb4, 0xfa, 0xff},
		NoteBorder: color.RGBA{0xb4, 0xbe, 0xfe, 0xff},
		Selected:   color.RGBA{0xf9, 0xe2, 0xaf, 0xff},
		Ghost:      color.RGBA{0x89, 0xb4, 0xfa, 0x60},
		Label:      color.RGBA{0xa6, 0xad, 0xc8, 0xff},
	}
}

// Options configures a snapshot.
type Options struct {
	Width    int
	Height   int
	GridMs   int64
	Palette  Palette
	FontSize float64
}

// DefaultOptions returns a 1280x720 snapshot with a 100ms grid.
func DefaultOptions() Options {
	return Options{
		Width:    1280,
		Height:   720,
		GridMs:   100,
		Palette:  DefaultPalette(),
		FontSize: 11,
	}
}

// Snapshot renders the visible region of the timeline through the
// given coordinate system.
type Snapshot struct {
	coords *coord.System
	opts   Options
	face   font.Face
}

// NewSnapshot creates a renderer. The font loads once; snapshots can
// be taken repeatedly.
func NewSnapshot(coords *coord.System, opts Options) (*Snapshot, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("snapshot size %dx%d out of range", opts.Width, opts.Height)
	}

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing label font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	return &Snapshot{coords: coords, opts: opts, face: face}, nil
}

// Scene is everything a snapshot draws besides the timeline itself.
type Scene struct {
	SelectedIDs map[string]struct{}
	Ghosts      []note.Note
	Band        *coord.Rect
}

// WritePNG renders the timeline and scene to path.
func (s *Snapshot) WritePNG(t *note.Timeline, scene Scene, path string) error {
	dc := gg.NewContext(s.opts.Width, s.opts.Height)
	dc.SetFontFace(s.face)

	s.drawBackground(dc)
	s.drawGrid(dc)
	s.drawNotes(dc, t, scene.SelectedIDs)
	s.drawGhosts(dc, scene.Ghosts)
	s.drawBand(dc, scene.Band)

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

func (s *Snapshot) drawBackground(dc *gg.Context) {
	dc.SetColor(s.opts.Palette.Background)
	dc.Clear()

	// Shade the black-key rows so octaves read at a glance.
	lo, hi := s.coords.VisibleNoteRange(float64(s.opts.Height))
	for pitch := lo; pitch <= hi; pitch++ {
		if !isBlackKey(pitch) {
			continue
		}
		y := s.coords.NoteToY(pitch)
		dc.SetColor(s.opts.Palette.RowShade)
		dc.DrawRectangle(0, y, float64(s.opts.Width), s.coords.NoteHeight())
		dc.Fill()
	}
}

func (s *Snapshot) drawGrid(dc *gg.Context) {
	if s.opts.GridMs <= 0 {
		return
	}
	startMs, endMs := s.coords.VisibleTimeRange(float64(s.opts.Width))
	grid := float64(s.opts.GridMs)

	first := coord.SnapTimeToGrid(startMs, s.opts.GridMs)
	if first < startMs {
		first += grid
	}
	dc.SetLineWidth(1)
	for t := first; t <= endMs; t += grid {
		x := s.coords.TimeToX(t)
		// Every fourth line is a beat line at the default grid.
		if int64(t)%(s.opts.GridMs*4) == 0 {
			dc.SetColor(s.opts.Palette.BeatLine)
		} else {
			dc.SetColor(s.opts.Palette.GridLine)
		}
		dc.DrawLine(x, 0, x, float64(s.opts.Height))
		dc.Stroke()
	}

	// Horizontal pitch separators.
	lo, hi := s.coords.VisibleNoteRange(float64(s.opts.Height))
	dc.SetColor(s.opts.Palette.GridLine)
	for pitch := lo; pitch <= hi; pitch++ {
		y := s.coords.NoteToY(pitch)
		dc.DrawLine(0, y, float64(s.opts.Width), y)
		dc.Stroke()
	}

	// Octave labels on the C rows.
	dc.SetColor(s.opts.Palette.Label)
	for pitch := lo; pitch <= hi; pitch++ {
		if pitch%12 != 0 {
			continue
		}
		y := s.coords.NoteToY(pitch)
		dc.DrawString(noteName(pitch), 4, y+s.coords.NoteHeight()-2)
	}
}

func (s *Snapshot) drawNotes(dc *gg.Context, t *note.Timeline, selected map[string]struct{}) {
	viewW := float64(s.opts.Width)
	viewH := float64(s.opts.Height)
	for _, n := range t.Notes() {
		if !s.coords.IsNoteVisible(float64(n.Time), float64(n.Duration), n.Pitch, viewW, viewH) {
			continue
		}
		r := s.coords.NoteRect(float64(n.Time), float64(n.Duration), n.Pitch)

		fill := s.opts.Palette.Note
		if _, ok := selected[n.ID]; ok {
			fill = s.opts.Palette.Selected
		}
		dc.SetColor(fill)
		dc.DrawRectangle(r.X, r.Y+1, r.Width, r.Height-2)
		dc.Fill()

		dc.SetColor(s.opts.Palette.NoteBorder)
		dc.SetLineWidth(1)
		dc.DrawRectangle(r.X, r.Y+1, r.Width, r.Height-2)
		dc.Stroke()
	}
}

func (s *Snapshot) drawGhosts(dc *gg.Context, ghosts []note.Note) {
	for _, g := range ghosts {
		r := s.coords.NoteRect(float64(g.Time), float64(g.Duration), g.Pitch)
		dc.SetColor(s.opts.Palette.Ghost)
		dc.DrawRectangle(r.X, r.Y+1, r.Width, r.Height-2)
		dc.Fill()
	}
}

func (s *Snapshot) drawBand(dc *gg.Context, band *coord.Rect) {
	if band == nil {
		return
	}
	r := band.Normalize()
	dc.SetColor(s.opts.Palette.Selected)
	dc.SetLineWidth(1)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Stroke()
}

// isBlackKey reports whether the pitch is a black key on a piano.
func isBlackKey(pitch int) bool {
	switch ((pitch % 12) + 12) % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteName returns the scientific pitch name, with MIDI 60 as C4.
func noteName(pitch int) string {
	octave := pitch/12 - 1
	return fmt.Sprintf("%s%d", noteNames[((pitch%12)+12)%12], octave)
}
