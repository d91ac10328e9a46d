package app

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pianoroll/internal/coord"
	"github.com/dshills/pianoroll/internal/render"
)

var (
	styleDefault  = tcell.StyleDefault
	styleGrid     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleRowShade = tcell.StyleDefault.Background(tcell.Color234)
	styleNote     = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleSelected = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	styleGhost    = tcell.StyleDefault.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorGray)
	styleBand     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// draw paints the full frame: shaded rows, grid columns, notes,
// gesture previews, and the status bar on the bottom row.
func (a *App) draw() {
	a.screen.Clear()
	w, h := a.screen.Size()
	rollH := h - 1
	if rollH < 1 {
		return
	}

	a.drawRows(w, rollH)
	a.drawGridColumns(w, rollH)
	a.drawNotes(w, rollH)
	a.drawGhosts(w, rollH)
	a.drawBand(rollH)
	a.drawStatus(w, h-1)
}

func (a *App) drawRows(w, rollH int) {
	lo, hi := a.coords.VisibleNoteRange(float64(rollH))
	for pitch := lo; pitch <= hi; pitch++ {
		if !isBlackKey(pitch) {
			continue
		}
		y := int(math.Round(a.coords.NoteToY(pitch)))
		if y < 0 || y >= rollH {
			continue
		}
		for x := 0; x < w; x++ {
			a.screen.SetContent(x, y, ' ', nil, styleRowShade)
		}
	}
}

func (a *App) drawGridColumns(w, rollH int) {
	grid := a.cfg.GridMs()
	if grid <= 0 {
		return
	}
	startMs, endMs := a.coords.VisibleTimeRange(float64(w))
	first := coord.SnapTimeToGrid(startMs, grid)
	if first < startMs {
		first += float64(grid)
	}
	for t := first; t <= endMs; t += float64(grid) {
		x := int(math.Round(a.coords.TimeToX(t)))
		if x < 0 || x >= w {
			continue
		}
		for y := 0; y < rollH; y++ {
			a.screen.SetContent(x, y, '·', nil, styleGrid)
		}
	}
}

func (a *App) drawNotes(w, rollH int) {
	for _, n := range a.timeline.Notes() {
		if !a.coords.IsNoteVisible(float64(n.Time), float64(n.Duration), n.Pitch, float64(w), float64(rollH)) {
			continue
		}
		style := styleNote
		if a.sel.IsSelected(n.ID) {
			style = styleSelected
		}
		a.fillNoteCells(float64(n.Time), float64(n.Duration), n.Pitch, w, rollH, style)
	}
}

func (a *App) drawGhosts(w, rollH int) {
	for _, g := range a.editor.GhostNotes() {
		a.fillNoteCells(float64(g.Time), float64(g.Duration), g.Pitch, w, rollH, styleGhost)
	}
}

// fillNoteCells paints a note's rectangle, at least one cell wide so
// short notes stay visible when zoomed out.
func (a *App) fillNoteCells(timeMs, durMs float64, pitch, w, rollH int, style tcell.Style) {
	r := a.coords.NoteRect(timeMs, durMs, pitch)
	x0 := int(math.Round(r.X))
	x1 := int(math.Round(r.X + r.Width))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	y := int(math.Round(r.Y))
	if y < 0 || y >= rollH {
		return
	}
	for x := x0; x < x1; x++ {
		if x < 0 || x >= w {
			continue
		}
		a.screen.SetContent(x, y, '▆', nil, style)
	}
}

func (a *App) drawBand(rollH int) {
	r, ok := a.editor.SelectionRect()
	if !ok {
		return
	}
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	x1 := int(math.Round(r.X + r.Width))
	y1 := int(math.Round(r.Y + r.Height))
	for x := x0; x <= x1; x++ {
		a.setBandCell(x, y0, rollH)
		a.setBandCell(x, y1, rollH)
	}
	for y := y0; y <= y1; y++ {
		a.setBandCell(x0, y, rollH)
		a.setBandCell(x1, y, rollH)
	}
}

func (a *App) setBandCell(x, y, rollH int) {
	if x < 0 || y < 0 || y >= rollH {
		return
	}
	a.screen.SetContent(x, y, '+', nil, styleBand)
}

func (a *App) drawStatus(w, row int) {
	dirty := ""
	if a.timeline.IsDirty() {
		dirty = " [+]"
	}
	status := fmt.Sprintf(" %s | notes:%d sel:%d undo:%d%s  %s",
		a.editor.Tool(), a.timeline.Len(), a.sel.Count(), a.log.UndoCount(), dirty, a.message)

	for x := 0; x < w; x++ {
		ch := ' '
		if x < len(status) {
			ch = rune(status[x])
		}
		a.screen.SetContent(x, row, ch, nil, styleStatus)
	}
}

// savePNG writes a high-resolution snapshot of the current view and
// gesture state through the image renderer.
func (a *App) savePNG(path string) error {
	opts := render.DefaultOptions()
	opts.GridMs = a.cfg.GridMs()

	// Render through an independent coordinate system fitted to the
	// content at image resolution, leaving the terminal view alone.
	coords := coord.NewSystem(a.coords.MinNote(), a.coords.MaxNote())
	coords.SetScale(100, 12)
	minZoom, maxZoom := a.cfg.ZoomLimits()
	coords.SetZoomLimits(minZoom, maxZoom)
	coords.FitToNotes(a.timeline.Notes(), float64(opts.Width), float64(opts.Height), 24)

	snap, err := render.NewSnapshot(coords, opts)
	if err != nil {
		return err
	}

	selected := make(map[string]struct{})
	for _, id := range a.sel.IDs() {
		selected[id] = struct{}{}
	}
	scene := render.Scene{
		SelectedIDs: selected,
		Ghosts:      a.editor.GhostNotes(),
	}
	return snap.WritePNG(a.timeline, scene, path)
}

func isBlackKey(pitch int) bool {
	switch ((pitch % 12) + 12) % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}
