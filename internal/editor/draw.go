package editor

import (
	"math"

	"github.com/dshills/pianoroll/internal/coord"
	"github.com/dshills/pianoroll/internal/event"
	"github.com/dshills/pianoroll/internal/history"
	"github.com/dshills/pianoroll/internal/note"
)

// drawState is the in-progress pencil stroke. The start time and pitch
// are fixed at press; dragging right extends the note's duration. The
// note only exists as a ghost until release.
type drawState struct {
	timeMs     int64
	pitch      int
	durationMs int64
	velocity   int
}

func (d *drawState) projected() note.Note {
	return note.Note{
		Time:     d.timeMs,
		Pitch:    d.pitch,
		Duration: d.durationMs,
		Velocity: d.velocity,
	}
}

// startDraw anchors a pencil stroke at the snapped press position with
// the configured minimum duration.
func (e *Editor) startDraw(x, y float64) {
	t := e.coords.XToTime(x)
	if e.cfg.SnapEnabled() {
		t = coord.SnapTimeToGrid(t, e.cfg.GridMs())
	}
	timeMs := int64(math.Round(t))
	if timeMs < 0 {
		timeMs = 0
	}

	e.drawing = &drawState{
		timeMs:     timeMs,
		pitch:      e.clampPitch(e.coords.YToNote(y)),
		durationMs: e.cfg.MinDurationMs(),
		velocity:   e.cfg.DefaultVelocity(),
	}
	e.active = gestureDraw
}

// updateDraw stretches the stroke to the pointer. The end time snaps to
// the grid independently of the start; dragging left of the anchor
// leaves the minimum-duration note.
func (e *Editor) updateDraw(x float64) {
	if e.drawing == nil {
		return
	}

	end := e.coords.XToTime(x)
	if e.cfg.SnapEnabled() {
		end = coord.SnapTimeToGrid(end, e.cfg.GridMs())
	}
	dur := int64(math.Round(end)) - e.drawing.timeMs
	if min := e.cfg.MinDurationMs(); dur < min {
		dur = min
	}
	e.drawing.durationMs = dur
}

// finishDraw inserts the stroked note and records its creation.
func (e *Editor) finishDraw(x float64) {
	if e.drawing == nil {
		return
	}
	e.updateDraw(x)

	n := note.New(e.drawing.timeMs, e.drawing.pitch, e.drawing.durationMs)
	n.Velocity = e.drawing.velocity
	e.drawing = nil

	inserted, err := e.timeline.Insert(n)
	if err != nil {
		return
	}
	e.log.Record(&history.AddNotesAction{Notes: []note.Note{*inserted}})
	e.timeline.MarkDirty()
	e.emitter.Publish(event.NotesAdded{Notes: []note.Note{*inserted}})
}
