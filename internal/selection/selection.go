// Package selection maintains the ordered set of selected notes and
// performs screen-space hit testing against the timeline.
package selection

import (
	"github.com/dshills/pianoroll/internal/coord"
	"github.com/dshills/pianoroll/internal/note"
)

// Set is the ordered set of currently-selected note IDs. Order follows
// selection order, which callers may rely on for nudge and clipboard
// operations.
type Set struct {
	timeline *note.Timeline
	coords   *coord.System

	ids     []string
	members map[string]struct{}
}

// NewSet creates a selection over the given timeline and coordinates.
func NewSet(timeline *note.Timeline, coords *coord.System) *Set {
	return &Set{
		timeline: timeline,
		coords:   coords,
		members:  make(map[string]struct{}),
	}
}

// Count returns the number of selected notes.
func (s *Set) Count() int {
	return len(s.ids)
}

// IsSelected reports whether the note is in the selection.
func (s *Set) IsSelected(id string) bool {
	_, ok := s.members[id]
	return ok
}

// IDs returns the selected IDs in selection order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// SelectedNotes resolves the selection against the timeline, skipping
// IDs whose notes have since been removed.
func (s *Set) SelectedNotes() []*note.Note {
	notes := make([]*note.Note, 0, len(s.ids))
	for _, id := range s.ids {
		if n := s.timeline.FindByID(id); n != nil {
			notes = append(notes, n)
		}
	}
	return notes
}

// Select adds a note to the selection. When additive is false the
// selection is replaced. Selecting an already-selected note is a no-op.
func (s *Set) Select(id string, additive bool) {
	if !additive {
		s.clear()
	}
	s.add(id)
}

// Toggle flips a note's membership in the selection.
func (s *Set) Toggle(id string) {
	if s.IsSelected(id) {
		s.remove(id)
		return
	}
	s.add(id)
}

// Clear empties the selection.
func (s *Set) Clear() {
	s.clear()
}

// Prune drops IDs whose notes no longer exist in the timeline.
func (s *Set) Prune() {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if s.timeline.FindByID(id) != nil {
			kept = append(kept, id)
		} else {
			delete(s.members, id)
		}
	}
	s.ids = kept
}

// NoteAt returns the topmost note whose rectangle contains the screen
// point, or nil. Later notes in time order are treated as on top.
func (s *Set) NoteAt(x, y float64) *note.Note {
	notes := s.timeline.Notes()
	for i := len(notes) - 1; i >= 0; i-- {
		n := notes[i]
		r := s.coords.NoteRect(float64(n.Time), float64(n.Duration), n.Pitch)
		if r.Contains(x, y) {
			return n
		}
	}
	return nil
}

// SelectInRect selects every note whose rectangle overlaps the given
// screen rectangle. Overlap, not containment. When additive is false
// the previous selection is replaced. Reports whether the selection
// changed.
func (s *Set) SelectInRect(r coord.Rect, additive bool) bool {
	r = r.Normalize()
	changed := false
	if !additive && len(s.ids) > 0 {
		s.clear()
		changed = true
	}
	for _, n := range s.timeline.Notes() {
		nr := s.coords.NoteRect(float64(n.Time), float64(n.Duration), n.Pitch)
		if nr.Intersects(r) && !s.IsSelected(n.ID) {
			s.add(n.ID)
			changed = true
		}
	}
	return changed
}

func (s *Set) add(id string) {
	if _, ok := s.members[id]; ok {
		return
	}
	s.members[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *Set) remove(id string) {
	if _, ok := s.members[id]; !ok {
		return
	}
	delete(s.members, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

func (s *Set) clear() {
	s.ids = nil
	s.members = make(map[string]struct{})
}
