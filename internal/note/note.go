// Package note defines the editable note event and the timeline that
// owns it. The editing engine never owns notes directly; it reads and
// mutates them through the Timeline.
package note

import "github.com/google/uuid"

// Pitch and channel limits from the MIDI standard.
const (
	MinPitch    = 0
	MaxPitch    = 127
	MaxVelocity = 127
	MaxChannel  = 15
)

// Editing defaults. MinDuration is the floor a resize or draw gesture
// clamps against; DefaultDuration is used for click-created notes.
const (
	MinDuration     int64 = 50
	DefaultDuration int64 = 250
	DefaultVelocity       = 100
)

// Note is a timed musical event. Time and Duration are in milliseconds.
// Time is never negative and Duration never drops below the configured
// floor outside of a transient resize preview.
type Note struct {
	ID       string `json:"id"`
	Time     int64  `json:"time"`
	Pitch    int    `json:"pitch"`
	Duration int64  `json:"duration"`
	Velocity int    `json:"velocity"`
	Channel  int    `json:"channel"`
}

// New creates a note with a fresh identifier.
func New(timeMs int64, pitch int, durationMs int64) Note {
	return Note{
		ID:       uuid.NewString(),
		Time:     timeMs,
		Pitch:    pitch,
		Duration: durationMs,
		Velocity: DefaultVelocity,
	}
}

// End returns the time at which the note stops sounding.
func (n Note) End() int64 {
	return n.Time + n.Duration
}

// Clamp forces the note's fields into their legal ranges.
func (n *Note) Clamp(minDuration int64) {
	if n.Time < 0 {
		n.Time = 0
	}
	if n.Pitch < MinPitch {
		n.Pitch = MinPitch
	}
	if n.Pitch > MaxPitch {
		n.Pitch = MaxPitch
	}
	if n.Duration < minDuration {
		n.Duration = minDuration
	}
	if n.Velocity < 0 {
		n.Velocity = 0
	}
	if n.Velocity > MaxVelocity {
		n.Velocity = MaxVelocity
	}
	if n.Channel < 0 {
		n.Channel = 0
	}
	if n.Channel > MaxChannel {
		n.Channel = MaxChannel
	}
}

// Snapshot is an immutable value copy of a set of notes keyed by ID.
// Gesture handlers capture one at gesture start so cancellation is an
// exact restore.
type Snapshot map[string]Note

// TakeSnapshot copies the given notes by value.
func TakeSnapshot(notes []*Note) Snapshot {
	snap := make(Snapshot, len(notes))
	for _, n := range notes {
		snap[n.ID] = *n
	}
	return snap
}
