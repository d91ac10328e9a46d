package event

import "github.com/dshills/pianoroll/internal/note"

// Gesture and document event topics.
const (
	// TopicDragStarted is published when a move gesture begins.
	TopicDragStarted Topic = "drag.started"

	// TopicDragFinished is published when a move gesture commits.
	TopicDragFinished Topic = "drag.finished"

	// TopicResizeStarted is published when a resize gesture begins.
	TopicResizeStarted Topic = "resize.started"

	// TopicResizeFinished is published when a resize gesture commits.
	TopicResizeFinished Topic = "resize.finished"

	// TopicToolChanged is published when the active tool switches.
	TopicToolChanged Topic = "tool.changed"

	// TopicNotesAdded is published when notes are inserted.
	TopicNotesAdded Topic = "notes.added"

	// TopicNotesRemoved is published when notes are deleted.
	TopicNotesRemoved Topic = "notes.removed"

	// TopicSelectionChanged is published when the selection changes.
	TopicSelectionChanged Topic = "selection.changed"

	// TopicRedrawRequested asks the frame scheduler for a repaint.
	// It carries no payload beyond the topic itself.
	TopicRedrawRequested Topic = "render.redraw"
)

// DragStarted is published when a move gesture begins.
type DragStarted struct {
	// Count is the number of notes captured by the gesture.
	Count int
}

// EventTopic names the topic for this payload.
func (DragStarted) EventTopic() Topic { return TopicDragStarted }

// DragFinished is published when a move gesture commits.
type DragFinished struct {
	// Count is the number of notes moved.
	Count int

	// DeltaTimeMs is the final applied time delta.
	DeltaTimeMs int64

	// DeltaPitch is the final applied pitch delta.
	DeltaPitch int
}

// EventTopic names the topic for this payload.
func (DragFinished) EventTopic() Topic { return TopicDragFinished }

// ResizeEdge identifies which note edge a resize gesture grabbed.
type ResizeEdge int

const (
	// EdgeLeft resizes from the note start, keeping the end fixed.
	EdgeLeft ResizeEdge = iota
	// EdgeRight resizes from the note end, keeping the start fixed.
	EdgeRight
)

// String returns the edge name.
func (e ResizeEdge) String() string {
	if e == EdgeLeft {
		return "left"
	}
	return "right"
}

// ResizeStarted is published when a resize gesture begins.
type ResizeStarted struct {
	NoteID string
	Edge   ResizeEdge
}

// EventTopic names the topic for this payload.
func (ResizeStarted) EventTopic() Topic { return TopicResizeStarted }

// ResizeFinished is published when a resize gesture commits.
type ResizeFinished struct {
	NoteID string
	Edge   ResizeEdge

	// TimeMs and DurationMs are the committed values.
	TimeMs     int64
	DurationMs int64
}

// EventTopic names the topic for this payload.
func (ResizeFinished) EventTopic() Topic { return TopicResizeFinished }

// ToolChanged is published when the active tool switches.
type ToolChanged struct {
	Old string
	New string
}

// EventTopic names the topic for this payload.
func (ToolChanged) EventTopic() Topic { return TopicToolChanged }

// NotesAdded is published when notes are inserted into the timeline.
type NotesAdded struct {
	Notes []note.Note
}

// EventTopic names the topic for this payload.
func (NotesAdded) EventTopic() Topic { return TopicNotesAdded }

// NotesRemoved is published when notes are deleted from the timeline.
type NotesRemoved struct {
	Notes []note.Note
}

// EventTopic names the topic for this payload.
func (NotesRemoved) EventTopic() Topic { return TopicNotesRemoved }

// SelectionChanged is published when the selected set changes.
type SelectionChanged struct {
	IDs []string
}

// EventTopic names the topic for this payload.
func (SelectionChanged) EventTopic() Topic { return TopicSelectionChanged }

// RedrawRequested is a fire-and-forget repaint signal.
type RedrawRequested struct{}

// EventTopic names the topic for this payload.
func (RedrawRequested) EventTopic() Topic { return TopicRedrawRequested }
