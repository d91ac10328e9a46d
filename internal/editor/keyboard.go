package editor

import (
	"github.com/dshills/pianoroll/internal/event"
	"github.com/dshills/pianoroll/internal/history"
	"github.com/dshills/pianoroll/internal/note"
)

// Key is a keyboard command routed to the editor. The hosting surface
// translates its own key events into these.
type Key int

const (
	// KeyDelete removes the selected notes.
	KeyDelete Key = iota
	// KeyEscape cancels the active gesture, or clears the selection.
	KeyEscape
	// KeyLeft nudges the selection one grid unit earlier.
	KeyLeft
	// KeyRight nudges the selection one grid unit later.
	KeyRight
	// KeyUp nudges the selection one semitone up.
	KeyUp
	// KeyDown nudges the selection one semitone down.
	KeyDown
)

// Shift multiplies arrow nudges by this factor.
const nudgeShiftFactor = 10

// HandleKey handles a keyboard command. Unknown keys are ignored.
func (e *Editor) HandleKey(key Key, mods Modifier) {
	switch key {
	case KeyDelete:
		e.deleteSelection()
	case KeyEscape:
		e.escape()
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		e.nudge(key, mods)
	}
}

// deleteSelection removes every selected note as one reversible action.
func (e *Editor) deleteSelection() {
	notes := e.sel.SelectedNotes()
	if len(notes) == 0 {
		return
	}

	removed := make([]note.Note, 0, len(notes))
	for _, n := range notes {
		r, err := e.timeline.RemoveByID(n.ID)
		if err != nil {
			continue
		}
		removed = append(removed, r)
	}
	if len(removed) == 0 {
		return
	}

	e.sel.Prune()
	e.log.Record(&history.DeleteNotesAction{Notes: removed})
	e.timeline.MarkDirty()
	e.emitter.Publish(event.NotesRemoved{Notes: removed})
	e.publishSelection()
	e.requestRedraw()
}

// escape cancels the active gesture if there is one; an idle Escape
// clears the selection instead. One press, one effect.
func (e *Editor) escape() {
	if e.active != gestureNone {
		e.cancelActiveGesture()
		e.requestRedraw()
		return
	}
	if e.sel.Count() > 0 {
		e.sel.Clear()
		e.publishSelection()
		e.requestRedraw()
	}
}

// nudge moves the selection one grid unit horizontally or one semitone
// vertically, ten with Shift held. Nudges reuse the drag clamp: the
// whole selection stops at the boundary together, preserving relative
// offsets, and each nudge is one undoable step.
func (e *Editor) nudge(key Key, mods Modifier) {
	notes := e.sel.SelectedNotes()
	if len(notes) == 0 {
		return
	}

	step := 1
	if mods.HasShift() {
		step = nudgeShiftFactor
	}

	var deltaTime int64
	var deltaPitch int
	switch key {
	case KeyLeft:
		deltaTime = -e.cfg.GridMs() * int64(step)
	case KeyRight:
		deltaTime = e.cfg.GridMs() * int64(step)
	case KeyUp:
		deltaPitch = step
	case KeyDown:
		deltaPitch = -step
	}

	before := note.TakeSnapshot(notes)
	deltaTime, deltaPitch = clampDeltas(before, deltaTime, deltaPitch, e.coords.MinNote(), e.coords.MaxNote())
	if deltaTime == 0 && deltaPitch == 0 {
		return
	}

	after := make(note.Snapshot, len(before))
	for _, n := range notes {
		n.Time += deltaTime
		n.Pitch += deltaPitch
		after[n.ID] = *n
	}
	e.timeline.SortByTime()

	action := history.NewMoveNotesAction(before, after)
	if !action.IsEmpty() {
		e.log.Record(action)
		e.timeline.MarkDirty()
	}
	e.requestRedraw()
}

// clampDeltas applies the shared move constraint: the pair is reduced
// uniformly so the most-violating note lands exactly on the boundary.
func clampDeltas(snapshot note.Snapshot, deltaTime int64, deltaPitch int, minNote, maxNote int) (int64, int) {
	first := true
	var minTime int64
	var minPitch, maxPitch int
	for _, n := range snapshot {
		if first {
			minTime = n.Time
			minPitch = n.Pitch
			maxPitch = n.Pitch
			first = false
			continue
		}
		minTime = min(minTime, n.Time)
		if n.Pitch < minPitch {
			minPitch = n.Pitch
		}
		if n.Pitch > maxPitch {
			maxPitch = n.Pitch
		}
	}
	if first {
		return 0, 0
	}

	if deltaTime < -minTime {
		deltaTime = -minTime
	}
	if lo := minNote - minPitch; deltaPitch < lo {
		deltaPitch = lo
	}
	if hi := maxNote - maxPitch; deltaPitch > hi {
		deltaPitch = hi
	}
	return deltaTime, deltaPitch
}
