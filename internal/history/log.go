package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/pianoroll/internal/note"
)

// Common errors for log operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when no limit is configured.
const DefaultMaxEntries = 1000

// EntryInfo describes one recorded action for UI listings.
type EntryInfo struct {
	Description string
	Timestamp   time.Time
}

// logEntry wraps an action with metadata.
type logEntry struct {
	action    Action
	timestamp time.Time
}

// Log manages the undo/redo stacks. The editing engine only records;
// undo and redo are driven by the host application.
type Log struct {
	mu sync.Mutex

	undoStack []*logEntry
	redoStack []*logEntry

	// Grouping state
	grouping  bool
	groupName string
	groupActs []Action

	maxEntries int
}

// NewLog creates a log bounded to maxEntries undo steps.
func NewLog(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{maxEntries: maxEntries}
}

// Record adds an already-applied action to the undo stack and clears
// the redo stack. While a group is open the action is buffered into it.
func (l *Log) Record(a Action) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.grouping {
		l.groupActs = append(l.groupActs, a)
		return
	}
	l.recordLocked(a)
}

func (l *Log) recordLocked(a Action) {
	l.undoStack = append(l.undoStack, &logEntry{action: a, timestamp: time.Now()})
	l.redoStack = nil

	if len(l.undoStack) > l.maxEntries {
		excess := len(l.undoStack) - l.maxEntries
		l.undoStack = l.undoStack[excess:]
	}
}

// Undo reverts the most recent action. The lock is released while the
// action runs so a slow revert never blocks recording from the UI.
func (l *Log) Undo(t *note.Timeline) error {
	l.mu.Lock()
	if len(l.undoStack) == 0 {
		l.mu.Unlock()
		return ErrNothingToUndo
	}
	entry := l.undoStack[len(l.undoStack)-1]
	l.undoStack = l.undoStack[:len(l.undoStack)-1]
	l.mu.Unlock()

	if err := entry.action.Revert(t); err != nil {
		l.mu.Lock()
		l.undoStack = append(l.undoStack, entry)
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	l.redoStack = append(l.redoStack, entry)
	l.mu.Unlock()
	return nil
}

// Redo re-applies the most recently undone action.
func (l *Log) Redo(t *note.Timeline) error {
	l.mu.Lock()
	if len(l.redoStack) == 0 {
		l.mu.Unlock()
		return ErrNothingToRedo
	}
	entry := l.redoStack[len(l.redoStack)-1]
	l.redoStack = l.redoStack[:len(l.redoStack)-1]
	l.mu.Unlock()

	if err := entry.action.Apply(t); err != nil {
		l.mu.Lock()
		l.redoStack = append(l.redoStack, entry)
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	l.undoStack = append(l.undoStack, entry)
	l.mu.Unlock()
	return nil
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redoStack) > 0
}

// UndoCount returns the number of undoable actions.
func (l *Log) UndoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undoStack)
}

// RedoCount returns the number of redoable actions.
func (l *Log) RedoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redoStack)
}

// BeginGroup starts buffering recorded actions into one undo unit.
// Nested calls are ignored.
func (l *Log) BeginGroup(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.grouping {
		return
	}
	l.grouping = true
	l.groupName = name
	l.groupActs = nil
}

// EndGroup closes the group and records it as one CompoundAction.
// An empty group records nothing.
func (l *Log) EndGroup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.grouping {
		return
	}
	l.grouping = false

	if len(l.groupActs) == 0 {
		l.groupActs = nil
		return
	}
	l.recordLocked(&CompoundAction{Name: l.groupName, Actions: l.groupActs})
	l.groupActs = nil
}

// CancelGroup discards a group without recording it. Actions already
// applied still affect the timeline.
func (l *Log) CancelGroup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.grouping = false
	l.groupActs = nil
}

// Clear removes all undo/redo history.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.undoStack = nil
	l.redoStack = nil
	l.grouping = false
	l.groupActs = nil
}

// PeekUndo returns info about the next undo without removing it.
func (l *Log) PeekUndo() (EntryInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.undoStack) == 0 {
		return EntryInfo{}, false
	}
	entry := l.undoStack[len(l.undoStack)-1]
	return EntryInfo{Description: entry.action.Description(), Timestamp: entry.timestamp}, true
}

// PeekRedo returns info about the next redo without removing it.
func (l *Log) PeekRedo() (EntryInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redoStack) == 0 {
		return EntryInfo{}, false
	}
	entry := l.redoStack[len(l.redoStack)-1]
	return EntryInfo{Description: entry.action.Description(), Timestamp: entry.timestamp}, true
}
