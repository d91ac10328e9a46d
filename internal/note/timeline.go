package note

import (
	"errors"
	"fmt"
	"sort"
)

// Common errors for timeline operations.
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrDuplicateID  = errors.New("duplicate note id")
)

// Timeline is the ordered collection of notes under edit. Notes are kept
// sorted by start time; callers that mutate Time must re-sort through
// SortByTime to preserve the ordering invariant.
type Timeline struct {
	notes []*Note
	byID  map[string]*Note
	dirty bool
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{
		byID: make(map[string]*Note),
	}
}

// Len returns the number of notes.
func (t *Timeline) Len() int {
	return len(t.notes)
}

// FindByID returns the note with the given ID, or nil.
func (t *Timeline) FindByID(id string) *Note {
	return t.byID[id]
}

// Notes returns the notes in time order. The slice is shared; callers
// must not insert or remove through it.
func (t *Timeline) Notes() []*Note {
	return t.notes
}

// Insert adds a note, keeping time order.
func (t *Timeline) Insert(n Note) (*Note, error) {
	if n.ID == "" {
		return nil, fmt.Errorf("insert note at %dms: missing id", n.Time)
	}
	if _, exists := t.byID[n.ID]; exists {
		return nil, fmt.Errorf("insert note %s: %w", n.ID, ErrDuplicateID)
	}

	stored := n
	idx := sort.Search(len(t.notes), func(i int) bool {
		return t.notes[i].Time > stored.Time
	})
	t.notes = append(t.notes, nil)
	copy(t.notes[idx+1:], t.notes[idx:])
	t.notes[idx] = &stored
	t.byID[stored.ID] = &stored
	return &stored, nil
}

// RemoveByID removes a note and returns its last value.
func (t *Timeline) RemoveByID(id string) (Note, error) {
	n, ok := t.byID[id]
	if !ok {
		return Note{}, fmt.Errorf("remove note %s: %w", id, ErrNoteNotFound)
	}

	for i, candidate := range t.notes {
		if candidate == n {
			t.notes = append(t.notes[:i], t.notes[i+1:]...)
			break
		}
	}
	delete(t.byID, id)
	return *n, nil
}

// SortByTime restores the ordering invariant after time mutation.
// The sort is stable so simultaneous notes keep their relative order.
func (t *Timeline) SortByTime() {
	sort.SliceStable(t.notes, func(i, j int) bool {
		return t.notes[i].Time < t.notes[j].Time
	})
}

// Clear removes all notes.
func (t *Timeline) Clear() {
	t.notes = nil
	t.byID = make(map[string]*Note)
}

// MarkDirty flags the document as having unsaved changes.
func (t *Timeline) MarkDirty() {
	t.dirty = true
}

// ClearDirty resets the unsaved-changes flag, typically after a save.
func (t *Timeline) ClearDirty() {
	t.dirty = false
}

// IsDirty reports whether the document has unsaved changes.
func (t *Timeline) IsDirty() bool {
	return t.dirty
}

// Bounds returns the musical bounding box of all notes: the earliest
// start, latest end, and the lowest and highest pitch. ok is false for
// an empty timeline.
func (t *Timeline) Bounds() (startMs, endMs int64, minPitch, maxPitch int, ok bool) {
	if len(t.notes) == 0 {
		return 0, 0, 0, 0, false
	}

	startMs = t.notes[0].Time
	endMs = t.notes[0].End()
	minPitch = t.notes[0].Pitch
	maxPitch = t.notes[0].Pitch
	for _, n := range t.notes[1:] {
		if n.Time < startMs {
			startMs = n.Time
		}
		if n.End() > endMs {
			endMs = n.End()
		}
		if n.Pitch < minPitch {
			minPitch = n.Pitch
		}
		if n.Pitch > maxPitch {
			maxPitch = n.Pitch
		}
	}
	return startMs, endMs, minPitch, maxPitch, true
}
