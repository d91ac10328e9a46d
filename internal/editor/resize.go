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

// ResizeHandler runs the change-duration interaction from a note's
// left or right edge handle. Unlike a drag, the note is mutated live
// during Update for immediate feedback; Cancel restores the captured
// timing and Finish records the already-applied change.
type ResizeHandler struct {
	coords   *coord.System
	timeline *note.Timeline
	sel      *selection.Set
	log      *history.Log
	cfg      *config.Store
	emitter  *event.Emitter

	active         bool
	noteID         string
	edge           event.ResizeEdge
	startX         float64
	beforeTime     int64
	beforeDuration int64
}

// NewResizeHandler creates an idle resize handler.
func NewResizeHandler(coords *coord.System, timeline *note.Timeline, sel *selection.Set, log *history.Log, cfg *config.Store, emitter *event.Emitter) *ResizeHandler {
	return &ResizeHandler{
		coords:   coords,
		timeline: timeline,
		sel:      sel,
		log:      log,
		cfg:      cfg,
		emitter:  emitter,
	}
}

// IsActive reports whether a resize session is in progress.
func (h *ResizeHandler) IsActive() bool {
	return h.active
}

// FindHandle hit-tests the selected notes' edge zones and returns the
// note and edge nearest the pointer. The hit zone is a fixed width in
// screen pixels; it does not scale with zoom.
func (h *ResizeHandler) FindHandle(x, y float64) (id string, edge event.ResizeEdge, ok bool) {
	threshold := h.cfg.ResizeHandlePixels()
	best := math.Inf(1)

	for _, n := range h.sel.SelectedNotes() {
		r := h.coords.NoteRect(float64(n.Time), float64(n.Duration), n.Pitch)
		if y < r.Y || y >= r.Y+r.Height {
			continue
		}
		if d := math.Abs(x - r.X); d <= threshold && d < best {
			best = d
			id = n.ID
			edge = event.EdgeLeft
			ok = true
		}
		if d := math.Abs(x - (r.X + r.Width)); d <= threshold && d < best {
			best = d
			id = n.ID
			edge = event.EdgeRight
			ok = true
		}
	}
	return id, edge, ok
}

// Start begins a resize session if the pointer is over an edge handle
// of a selected note. Returns false when already active or when no
// handle is under the pointer.
func (h *ResizeHandler) Start(x, y float64) bool {
	if h.active {
		return false
	}

	id, edge, ok := h.FindHandle(x, y)
	if !ok {
		return false
	}
	n := h.timeline.FindByID(id)
	if n == nil {
		return false
	}

	h.active = true
	h.noteID = id
	h.edge = edge
	h.startX = x
	h.beforeTime = n.Time
	h.beforeDuration = n.Duration

	h.emitter.Publish(event.ResizeStarted{NoteID: id, Edge: edge})
	return true
}

// Update applies the resize for the current pointer position directly
// to the note. For the right edge only the duration changes. For the
// left edge the start time moves and the duration compensates so the
// note's right edge stays exactly fixed: the new time is clamped into
// [0, rightEdge-minDuration] and the duration derived from it, so the
// time floor and the duration floor can never fight each other.
func (h *ResizeHandler) Update(x float64) {
	if !h.active {
		return
	}
	n := h.timeline.FindByID(h.noteID)
	if n == nil {
		return
	}

	delta := h.coords.WidthToDuration(x - h.startX)
	snapOn := h.cfg.SnapEnabled()
	grid := h.cfg.GridMs()
	minDur := h.cfg.MinDurationMs()

	switch h.edge {
	case event.EdgeRight:
		raw := float64(h.beforeDuration) + delta
		if snapOn {
			raw = coord.SnapTimeToGrid(raw, grid)
		}
		dur := int64(math.Round(raw))
		if dur < minDur {
			dur = minDur
		}
		n.Duration = dur

	case event.EdgeLeft:
		rightEdge := h.beforeTime + h.beforeDuration
		raw := float64(h.beforeTime) + delta
		if snapOn {
			raw = coord.SnapTimeToGrid(raw, grid)
		}
		t := int64(math.Round(raw))
		if t < 0 {
			t = 0
		}
		if t > rightEdge-minDur {
			t = rightEdge - minDur
		}
		if t < 0 {
			t = 0
		}
		n.Time = t
		n.Duration = rightEdge - t
	}
}

// Finish commits the live-mutated timing as one reversible action.
func (h *ResizeHandler) Finish() {
	if !h.active {
		return
	}

	n := h.timeline.FindByID(h.noteID)
	if n != nil {
		if n.Time != h.beforeTime || n.Duration != h.beforeDuration {
			h.log.Record(&history.ResizeNoteAction{
				ID:             h.noteID,
				BeforeTime:     h.beforeTime,
				BeforeDuration: h.beforeDuration,
				AfterTime:      n.Time,
				AfterDuration:  n.Duration,
			})
			h.timeline.MarkDirty()
		}
		h.timeline.SortByTime()
		h.emitter.Publish(event.ResizeFinished{
			NoteID:     h.noteID,
			Edge:       h.edge,
			TimeMs:     n.Time,
			DurationMs: n.Duration,
		})
	}
	h.reset()
}

// Cancel restores the captured timing and discards the session.
func (h *ResizeHandler) Cancel() {
	if !h.active {
		return
	}

	if n := h.timeline.FindByID(h.noteID); n != nil {
		n.Time = h.beforeTime
		n.Duration = h.beforeDuration
		h.timeline.SortByTime()
	}
	h.reset()
}

func (h *ResizeHandler) reset() {
	h.active = false
	h.noteID = ""
	h.startX = 0
	h.beforeTime = 0
	h.beforeDuration = 0
}
