package editor

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/dshills/pianoroll/internal/event"
	"github.com/dshills/pianoroll/internal/history"
	"github.com/dshills/pianoroll/internal/note"
)

// clipboardPayload is the JSON envelope written to the system
// clipboard. The version field lets a future format change be detected
// instead of mis-parsed.
type clipboardPayload struct {
	Version int         `json:"version"`
	Notes   []note.Note `json:"notes"`
}

const clipboardVersion = 1

// Indirection over the system clipboard so tests can run headless.
var (
	clipboardWrite = clipboard.WriteAll
	clipboardRead  = clipboard.ReadAll
)

// Copy writes the selected notes to the system clipboard as JSON.
// Copying nothing is a no-op, not an error.
func (e *Editor) Copy() error {
	notes := e.sel.SelectedNotes()
	if len(notes) == 0 {
		return nil
	}

	payload := clipboardPayload{Version: clipboardVersion}
	for _, n := range notes {
		payload.Notes = append(payload.Notes, *n)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding clipboard notes: %w", err)
	}
	if err := clipboardWrite(string(data)); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Cut copies the selected notes and then deletes them as one recorded
// action.
func (e *Editor) Cut() error {
	if err := e.Copy(); err != nil {
		return err
	}
	e.deleteSelection()
	return nil
}

// Paste inserts the clipboard notes shifted so the earliest lands at
// the given time, each with a fresh identity, and selects them. A
// clipboard without our payload is a silent no-op.
func (e *Editor) Paste(atTimeMs int64) error {
	text, err := clipboardRead()
	if err != nil {
		return fmt.Errorf("reading clipboard: %w", err)
	}

	var payload clipboardPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil
	}
	if payload.Version != clipboardVersion || len(payload.Notes) == 0 {
		return nil
	}

	earliest := payload.Notes[0].Time
	for _, n := range payload.Notes[1:] {
		if n.Time < earliest {
			earliest = n.Time
		}
	}
	if atTimeMs < 0 {
		atTimeMs = 0
	}

	added := make([]note.Note, 0, len(payload.Notes))
	ids := make([]string, 0, len(payload.Notes))
	for _, n := range payload.Notes {
		fresh := note.New(n.Time-earliest+atTimeMs, n.Pitch, n.Duration)
		fresh.Velocity = n.Velocity
		fresh.Channel = n.Channel
		fresh.Clamp(e.cfg.MinDurationMs())

		inserted, err := e.timeline.Insert(fresh)
		if err != nil {
			continue
		}
		added = append(added, *inserted)
		ids = append(ids, inserted.ID)
	}
	if len(added) == 0 {
		return nil
	}

	e.log.Record(&history.AddNotesAction{Notes: added})
	e.timeline.MarkDirty()

	e.sel.Clear()
	for _, id := range ids {
		e.sel.Select(id, true)
	}
	e.emitter.Publish(event.NotesAdded{Notes: added})
	e.publishSelection()
	e.requestRedraw()
	return nil
}
