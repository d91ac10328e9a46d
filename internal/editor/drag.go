package editor

import (
	"math"

	"github.com/dshills/pianoroll/internal/config"
	"github.com/dshills/pianoroll/internal/coord"
	"github.com/dshills/pianoroll/internal/event"
	"github.com/dshills/pianoroll/internal/history"
	"github.com/dshills/pianoroll/internal/note"
	"github.com/dshills/pianoroll/internal/selection"
)

// DragHandler runs the move-notes interaction: Idle → Dragging →
// Committed or Cancelled → Idle. It captures a snapshot of every
// selected note at gesture start, previews the constrained move as
// ghost notes, and commits one reversible action on release.
type DragHandler struct {
	coords   *coord.System
	timeline *note.Timeline
	sel      *selection.Set
	log      *history.Log
	cfg      *config.Store
	emitter  *event.Emitter

	active   bool
	startX   float64
	startY   float64
	snapshot note.Snapshot
	order    []string

	ghosts     []note.Note
	deltaTime  int64
	deltaPitch int
}

// NewDragHandler creates an idle drag handler.
func NewDragHandler(coords *coord.System, timeline *note.Timeline, sel *selection.Set, log *history.Log, cfg *config.Store, emitter *event.Emitter) *DragHandler {
	return &DragHandler{
		coords:   coords,
		timeline: timeline,
		sel:      sel,
		log:      log,
		cfg:      cfg,
		emitter:  emitter,
	}
}

// IsActive reports whether a drag session is in progress.
func (h *DragHandler) IsActive() bool {
	return h.active
}

// Ghosts returns the projected note previews for the current session.
// Empty outside a session.
func (h *DragHandler) Ghosts() []note.Note {
	return h.ghosts
}

// Start begins a drag session at the given pointer position. It
// snapshots every selected note, not just the one under the pointer.
// Returns false if a session is already active or nothing is selected;
// starting while dragging never nests sessions.
func (h *DragHandler) Start(x, y float64) bool {
	if h.active {
		return false
	}

	notes := h.sel.SelectedNotes()
	if len(notes) == 0 {
		return false
	}

	h.active = true
	h.startX = x
	h.startY = y
	h.snapshot = note.TakeSnapshot(notes)
	h.order = h.order[:0]
	h.ghosts = h.ghosts[:0]
	for _, n := range notes {
		h.order = append(h.order, n.ID)
		h.ghosts = append(h.ghosts, *n)
	}
	h.deltaTime = 0
	h.deltaPitch = 0

	h.emitter.Publish(event.DragStarted{Count: len(notes)})
	return true
}

// Update recomputes the constrained deltas for the current pointer
// position and refreshes the ghost projection. The real notes are not
// touched until Finish. Out-of-range pointer positions are absorbed by
// the clamp; there is nothing to fail.
func (h *DragHandler) Update(x, y float64) {
	if !h.active {
		return
	}

	h.deltaTime, h.deltaPitch = h.computeDeltas(x, y)

	h.ghosts = h.ghosts[:0]
	for _, id := range h.order {
		g := h.snapshot[id]
		g.Time += h.deltaTime
		g.Pitch += h.deltaPitch
		h.ghosts = append(h.ghosts, g)
	}
}

// Finish commits the drag: the final deltas are recomputed exactly as
// Update computes them, written onto the real notes, the timeline is
// re-sorted, and one reversible action is recorded.
func (h *DragHandler) Finish(x, y float64) {
	if !h.active {
		return
	}

	deltaTime, deltaPitch := h.computeDeltas(x, y)

	after := make(note.Snapshot, len(h.snapshot))
	for id, before := range h.snapshot {
		n := h.timeline.FindByID(id)
		if n == nil {
			continue
		}
		n.Time = before.Time + deltaTime
		n.Pitch = before.Pitch + deltaPitch
		after[id] = *n
	}
	h.timeline.SortByTime()

	action := history.NewMoveNotesAction(h.snapshot, after)
	if !action.IsEmpty() {
		h.log.Record(action)
		h.timeline.MarkDirty()
	}

	count := len(h.order)
	h.reset()
	h.emitter.Publish(event.DragFinished{
		Count:       count,
		DeltaTimeMs: deltaTime,
		DeltaPitch:  deltaPitch,
	})
}

// Cancel restores every captured note to its pre-drag snapshot and
// discards the session without touching the history log.
func (h *DragHandler) Cancel() {
	if !h.active {
		return
	}

	for id, before := range h.snapshot {
		if n := h.timeline.FindByID(id); n != nil {
			*n = before
		}
	}
	h.timeline.SortByTime()
	h.reset()
}

// computeDeltas derives the raw pointer deltas, applies snapping, and
// clamps the pair so no captured note leaves the legal time/pitch
// range. The clamp amount comes from the most-violating note and is
// applied uniformly, preserving relative offsets within the selection.
func (h *DragHandler) computeDeltas(x, y float64) (deltaTime int64, deltaPitch int) {
	rawTime := h.coords.WidthToDuration(x - h.startX)
	if h.cfg.SnapEnabled() {
		rawTime = coord.SnapTimeToGrid(rawTime, h.cfg.GridMs())
	}
	deltaTime = int64(math.Round(rawTime))
	deltaPitch = int(math.Round(-(y - h.startY) / h.coords.NoteHeight()))

	return clampDeltas(h.snapshot, deltaTime, deltaPitch, h.coords.MinNote(), h.coords.MaxNote())
}

func (h *DragHandler) reset() {
	h.active = false
	h.snapshot = nil
	h.order = nil
	h.ghosts = nil
	h.deltaTime = 0
	h.deltaPitch = 0
}
