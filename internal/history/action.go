// Package history records reversible note mutations. Actions are plain
// data (IDs plus before/after values), never live references, so an
// entry stays valid however the timeline changes after it is recorded.
package history

import (
	"fmt"

	"github.com/dshills/pianoroll/internal/note"
)

// Action is a reversible record of one committed mutation.
type Action interface {
	// Apply performs (or re-performs) the mutation.
	Apply(t *note.Timeline) error

	// Revert restores the pre-action state.
	Revert(t *note.Timeline) error

	// Description returns a human-readable description of the action.
	Description() string
}

// NoteChange is one note's before and after value within an action.
type NoteChange struct {
	ID     string
	Before note.Note
	After  note.Note
}

// MoveNotesAction records a committed drag or nudge of one or more
// notes. Time and pitch change; the remaining fields ride along in the
// value copies so Revert is an exact restore.
type MoveNotesAction struct {
	Changes []NoteChange
}

// NewMoveNotesAction builds a move action from before/after snapshots.
// Notes missing from either snapshot are skipped.
func NewMoveNotesAction(before, after note.Snapshot) *MoveNotesAction {
	a := &MoveNotesAction{}
	for id, b := range before {
		if aft, ok := after[id]; ok {
			a.Changes = append(a.Changes, NoteChange{ID: id, Before: b, After: aft})
		}
	}
	return a
}

// IsEmpty reports whether the action changes nothing.
func (a *MoveNotesAction) IsEmpty() bool {
	for _, c := range a.Changes {
		if c.Before != c.After {
			return false
		}
	}
	return true
}

// Apply writes the post-move values back onto the timeline.
func (a *MoveNotesAction) Apply(t *note.Timeline) error {
	return a.write(t, false)
}

// Revert restores the pre-move values.
func (a *MoveNotesAction) Revert(t *note.Timeline) error {
	return a.write(t, true)
}

func (a *MoveNotesAction) write(t *note.Timeline, before bool) error {
	for _, c := range a.Changes {
		n := t.FindByID(c.ID)
		if n == nil {
			return fmt.Errorf("move notes: %s: %w", c.ID, note.ErrNoteNotFound)
		}
		if before {
			*n = c.Before
		} else {
			*n = c.After
		}
	}
	t.SortByTime()
	return nil
}

// Description returns a human-readable description.
func (a *MoveNotesAction) Description() string {
	if len(a.Changes) == 1 {
		return "Move note"
	}
	return fmt.Sprintf("Move %d notes", len(a.Changes))
}

// ResizeNoteAction records a committed duration (and, for a left-edge
// resize, start time) change of a single note.
type ResizeNoteAction struct {
	ID             string
	BeforeTime     int64
	BeforeDuration int64
	AfterTime      int64
	AfterDuration  int64
}

// Apply writes the post-resize timing onto the note.
func (a *ResizeNoteAction) Apply(t *note.Timeline) error {
	return a.write(t, a.AfterTime, a.AfterDuration)
}

// Revert restores the pre-resize timing.
func (a *ResizeNoteAction) Revert(t *note.Timeline) error {
	return a.write(t, a.BeforeTime, a.BeforeDuration)
}

func (a *ResizeNoteAction) write(t *note.Timeline, timeMs, durationMs int64) error {
	n := t.FindByID(a.ID)
	if n == nil {
		return fmt.Errorf("resize note: %s: %w", a.ID, note.ErrNoteNotFound)
	}
	n.Time = timeMs
	n.Duration = durationMs
	t.SortByTime()
	return nil
}

// Description returns a human-readable description.
func (a *ResizeNoteAction) Description() string {
	return "Resize note"
}

// AddNotesAction records insertion of one or more notes.
type AddNotesAction struct {
	Notes []note.Note
}

// Apply inserts the recorded notes.
func (a *AddNotesAction) Apply(t *note.Timeline) error {
	for _, n := range a.Notes {
		if _, err := t.Insert(n); err != nil {
			return fmt.Errorf("add notes: %w", err)
		}
	}
	return nil
}

// Revert removes the recorded notes.
func (a *AddNotesAction) Revert(t *note.Timeline) error {
	for _, n := range a.Notes {
		if _, err := t.RemoveByID(n.ID); err != nil {
			return fmt.Errorf("undo add notes: %w", err)
		}
	}
	return nil
}

// Description returns a human-readable description.
func (a *AddNotesAction) Description() string {
	if len(a.Notes) == 1 {
		return "Add note"
	}
	return fmt.Sprintf("Add %d notes", len(a.Notes))
}

// DeleteNotesAction records removal of one or more notes. The full
// note values are kept so Revert restores them exactly.
type DeleteNotesAction struct {
	Notes []note.Note
}

// Apply removes the recorded notes.
func (a *DeleteNotesAction) Apply(t *note.Timeline) error {
	for _, n := range a.Notes {
		if _, err := t.RemoveByID(n.ID); err != nil {
			return fmt.Errorf("delete notes: %w", err)
		}
	}
	return nil
}

// Revert re-inserts the recorded notes.
func (a *DeleteNotesAction) Revert(t *note.Timeline) error {
	for _, n := range a.Notes {
		if _, err := t.Insert(n); err != nil {
			return fmt.Errorf("undo delete notes: %w", err)
		}
	}
	return nil
}

// Description returns a human-readable description.
func (a *DeleteNotesAction) Description() string {
	if len(a.Notes) == 1 {
		return "Delete note"
	}
	return fmt.Sprintf("Delete %d notes", len(a.Notes))
}

// CompoundAction groups multiple actions as one undo unit.
type CompoundAction struct {
	Name    string
	Actions []Action
}

// Apply runs all actions in order. On failure the already-applied
// actions are reverted so the timeline is not left half-mutated.
func (c *CompoundAction) Apply(t *note.Timeline) error {
	for i, a := range c.Actions {
		if err := a.Apply(t); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Actions[j].Revert(t)
			}
			return fmt.Errorf("compound action '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Revert reverses all actions in reverse order.
func (c *CompoundAction) Revert(t *note.Timeline) error {
	for i := len(c.Actions) - 1; i >= 0; i-- {
		if err := c.Actions[i].Revert(t); err != nil {
			return fmt.Errorf("undo compound action '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound action's name.
func (c *CompoundAction) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Actions) == 1 {
		return c.Actions[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Actions))
}
