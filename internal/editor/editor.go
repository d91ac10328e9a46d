// Package editor is the interaction engine of the piano roll: it owns
// the active tool, routes pointer and keyboard input to the drag,
// resize, freehand-draw, and rectangle-selection gestures, and records
// every committed mutation as a reversible history action.
//
// Everything here runs synchronously on the thread delivering input.
// Precondition failures (no note under the pointer, nothing selected,
// no active gesture) are silent no-ops; that is the correct behavior
// for direct manipulation, where "nothing happened" beats an error.
package editor

import (
	"math"
	"time"

	"github.com/dshills/pianoroll/internal/config"
	"github.com/dshills/pianoroll/internal/coord"
	"github.com/dshills/pianoroll/internal/event"
	"github.com/dshills/pianoroll/internal/history"
	"github.com/dshills/pianoroll/internal/note"
	"github.com/dshills/pianoroll/internal/selection"
)

// Tool is the active editing tool.
type Tool int

const (
	// ToolSelect selects, moves, and resizes notes.
	ToolSelect Tool = iota
	// ToolPencil draws new notes freehand.
	ToolPencil
	// ToolEraser deletes the note under the pointer.
	ToolEraser
)

// String returns the tool name.
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPencil:
		return "pencil"
	case ToolEraser:
		return "eraser"
	default:
		return "unknown"
	}
}

func (t Tool) valid() bool {
	return t == ToolSelect || t == ToolPencil || t == ToolEraser
}

// Modifier is a bitmask of keyboard modifiers held during input.
type Modifier uint8

// Modifier bits.
const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// HasShift returns true if Shift is held.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }

// HasCtrl returns true if Ctrl is held.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// HasAlt returns true if Alt is held.
func (m Modifier) HasAlt() bool { return m&ModAlt != 0 }

// Cursor is the pointer shape hint for the hosting surface.
type Cursor int

const (
	// CursorDefault is the plain arrow.
	CursorDefault Cursor = iota
	// CursorPointer indicates a movable note under the pointer.
	CursorPointer
	// CursorResizeEW indicates a resize handle under the pointer.
	CursorResizeEW
	// CursorCrosshair indicates the pencil or eraser tool.
	CursorCrosshair
)

// gesture is the single active interaction. Exactly one gesture may be
// active at a time; the tag makes two simultaneous "is active" states
// unrepresentable.
type gesture int

const (
	gestureNone gesture = iota
	gestureDrag
	gestureResize
	gestureDraw
	gestureRect
)

// Double-click detection thresholds, in screen pixels and wall time.
const (
	doubleClickTime     = 400 * time.Millisecond
	doubleClickDistance = 4.0
)

// clickTracker detects double clicks from successive press positions.
type clickTracker struct {
	lastX, lastY float64
	lastTime     time.Time
	lastCount    int
}

func (t *clickTracker) record(x, y float64, now time.Time) int {
	elapsed := now.Sub(t.lastTime)
	near := math.Abs(x-t.lastX)+math.Abs(y-t.lastY) <= doubleClickDistance
	if t.lastCount > 0 && elapsed >= 0 && elapsed <= doubleClickTime && near {
		t.lastCount++
		if t.lastCount > 2 {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}
	t.lastX, t.lastY = x, y
	t.lastTime = now
	return t.lastCount
}

// Editor dispatches input to the per-tool interaction handlers.
type Editor struct {
	coords   *coord.System
	timeline *note.Timeline
	sel      *selection.Set
	log      *history.Log
	cfg      *config.Store
	emitter  *event.Emitter

	tool    Tool
	active  gesture
	drag    *DragHandler
	resize  *ResizeHandler
	drawing *drawState
	rect    *rectState

	clicks clickTracker
	cursor Cursor
	now    func() time.Time
}

// New creates an editor in select mode over the given collaborators.
func New(coords *coord.System, timeline *note.Timeline, sel *selection.Set, log *history.Log, cfg *config.Store, emitter *event.Emitter) *Editor {
	return &Editor{
		coords:   coords,
		timeline: timeline,
		sel:      sel,
		log:      log,
		cfg:      cfg,
		emitter:  emitter,
		tool:     ToolSelect,
		drag:     NewDragHandler(coords, timeline, sel, log, cfg, emitter),
		resize:   NewResizeHandler(coords, timeline, sel, log, cfg, emitter),
		now:      time.Now,
	}
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool {
	return e.tool
}

// SetTool switches the active tool. Unknown tools are rejected as a
// no-op. Switching mid-gesture cancels the gesture first so a handler
// can never outlive its tool.
func (e *Editor) SetTool(t Tool) {
	if !t.valid() || t == e.tool {
		return
	}
	e.cancelActiveGesture()

	old := e.tool
	e.tool = t
	e.emitter.Publish(event.ToolChanged{Old: old.String(), New: t.String()})
	e.requestRedraw()
}

// Cursor returns the pointer shape for the last hovered position.
func (e *Editor) Cursor() Cursor {
	return e.cursor
}

// GhostNotes returns the projected previews of the active gesture:
// drag ghosts while moving, or the in-progress drawing note. Nil when
// no gesture shows a preview.
func (e *Editor) GhostNotes() []note.Note {
	switch e.active {
	case gestureDrag:
		return e.drag.Ghosts()
	case gestureDraw:
		if e.drawing != nil {
			g := e.drawing.projected()
			return []note.Note{g}
		}
	}
	return nil
}

// SelectionRect returns the in-progress rectangle-selection rectangle.
func (e *Editor) SelectionRect() (coord.Rect, bool) {
	if e.active != gestureRect || e.rect == nil {
		return coord.Rect{}, false
	}
	return e.rect.rect(), true
}

// PointerDown routes a press to the tool's gesture, in priority order:
// pencil draws, eraser deletes, select resizes/moves/rubber-bands.
// Starting a gesture forbids starting another until it ends.
func (e *Editor) PointerDown(x, y float64, mods Modifier) {
	if e.active != gestureNone {
		return
	}

	clickCount := e.clicks.record(x, y, e.now())

	switch e.tool {
	case ToolPencil:
		e.startDraw(x, y)

	case ToolEraser:
		e.eraseAt(x, y)

	case ToolSelect:
		e.pointerDownSelect(x, y, mods, clickCount)
	}
	e.requestRedraw()
}

func (e *Editor) pointerDownSelect(x, y float64, mods Modifier, clickCount int) {
	// Resize handles of already-selected notes win over note bodies.
	if e.resize.Start(x, y) {
		e.active = gestureResize
		return
	}

	if n := e.sel.NoteAt(x, y); n != nil {
		if mods.HasCtrl() {
			e.sel.Toggle(n.ID)
			e.publishSelection()
			return
		}
		if !e.sel.IsSelected(n.ID) {
			e.sel.Select(n.ID, false)
			e.publishSelection()
		}
		if e.drag.Start(x, y) {
			e.active = gestureDrag
		}
		return
	}

	// Empty space: double-click creates a note, a single press starts
	// a rectangle selection.
	if clickCount == 2 {
		e.createNoteAt(x, y)
		return
	}
	e.startRect(x, y, mods)
}

// PointerMove routes movement to the one active gesture, or updates
// the hover cursor when idle.
func (e *Editor) PointerMove(x, y float64) {
	switch e.active {
	case gestureDrag:
		e.drag.Update(x, y)
	case gestureResize:
		e.resize.Update(x)
	case gestureDraw:
		e.updateDraw(x)
	case gestureRect:
		e.updateRect(x, y)
	case gestureNone:
		e.updateHover(x, y)
		return
	}
	e.requestRedraw()
}

// PointerUp finalizes the active gesture. Each finisher records its
// own history entry.
func (e *Editor) PointerUp(x, y float64) {
	switch e.active {
	case gestureDrag:
		e.drag.Finish(x, y)
	case gestureResize:
		e.resize.Finish()
	case gestureDraw:
		e.finishDraw(x)
	case gestureRect:
		e.finishRect(x, y)
	case gestureNone:
		return
	}
	e.active = gestureNone
	e.requestRedraw()
}

// eraseAt deletes the note under the pointer, if any, as one recorded
// action.
func (e *Editor) eraseAt(x, y float64) {
	n := e.sel.NoteAt(x, y)
	if n == nil {
		return
	}

	removed, err := e.timeline.RemoveByID(n.ID)
	if err != nil {
		return
	}
	e.sel.Prune()
	e.log.Record(&history.DeleteNotesAction{Notes: []note.Note{removed}})
	e.timeline.MarkDirty()
	e.emitter.Publish(event.NotesRemoved{Notes: []note.Note{removed}})
}

// createNoteAt inserts a note with the configured default duration at
// the snapped pointer position and selects it.
func (e *Editor) createNoteAt(x, y float64) {
	t := e.coords.XToTime(x)
	if e.cfg.SnapEnabled() {
		t = coord.SnapTimeToGrid(t, e.cfg.GridMs())
	}
	timeMs := int64(math.Round(t))
	if timeMs < 0 {
		timeMs = 0
	}
	pitch := e.clampPitch(e.coords.YToNote(y))

	n := note.New(timeMs, pitch, e.cfg.DefaultDurationMs())
	n.Velocity = e.cfg.DefaultVelocity()
	inserted, err := e.timeline.Insert(n)
	if err != nil {
		return
	}

	e.log.Record(&history.AddNotesAction{Notes: []note.Note{*inserted}})
	e.timeline.MarkDirty()
	e.sel.Select(inserted.ID, false)
	e.emitter.Publish(event.NotesAdded{Notes: []note.Note{*inserted}})
	e.publishSelection()
}

func (e *Editor) updateHover(x, y float64) {
	prev := e.cursor
	switch e.tool {
	case ToolPencil, ToolEraser:
		e.cursor = CursorCrosshair
	case ToolSelect:
		if _, _, ok := e.resize.FindHandle(x, y); ok {
			e.cursor = CursorResizeEW
		} else if e.sel.NoteAt(x, y) != nil {
			e.cursor = CursorPointer
		} else {
			e.cursor = CursorDefault
		}
	}
	if e.cursor != prev {
		e.requestRedraw()
	}
}

// cancelActiveGesture cancels whichever gesture is running. Priority
// is irrelevant here since only one can be active.
func (e *Editor) cancelActiveGesture() {
	switch e.active {
	case gestureDrag:
		e.drag.Cancel()
	case gestureResize:
		e.resize.Cancel()
	case gestureDraw:
		e.drawing = nil
	case gestureRect:
		e.rect = nil
	}
	e.active = gestureNone
}

func (e *Editor) clampPitch(p int) int {
	if p < e.coords.MinNote() {
		return e.coords.MinNote()
	}
	if p > e.coords.MaxNote() {
		return e.coords.MaxNote()
	}
	return p
}

func (e *Editor) publishSelection() {
	e.emitter.Publish(event.SelectionChanged{IDs: e.sel.IDs()})
}

func (e *Editor) requestRedraw() {
	e.emitter.Publish(event.RedrawRequested{})
}
