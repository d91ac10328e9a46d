// Package midifile saves and loads the timeline as a Standard MIDI
// File. The editor works in absolute milliseconds; this package owns
// the conversion to and from tempo-relative SMF ticks.
package midifile

import (
	"fmt"
	"math"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/dshills/pianoroll/internal/note"
)

// Fixed export parameters. The editor has no tempo track of its own,
// so files are written at a constant tempo and read back assuming the
// first tempo event holds for the whole file.
const (
	TicksPerQuarter = 480
	DefaultTempoBPM = 120.0
)

// msToTicks converts absolute milliseconds to absolute ticks at the
// given tempo.
func msToTicks(ms int64, bpm float64) uint32 {
	ticks := float64(ms) * bpm * TicksPerQuarter / 60000.0
	if ticks < 0 {
		return 0
	}
	return uint32(math.Round(ticks))
}

// ticksToMs converts absolute ticks to absolute milliseconds.
func ticksToMs(ticks uint32, bpm float64) int64 {
	return int64(math.Round(float64(ticks) * 60000.0 / (bpm * TicksPerQuarter)))
}

// smfEvent is a note boundary placed on the absolute tick axis before
// delta encoding.
type smfEvent struct {
	tick uint32
	off  bool // NoteOff sorts before NoteOn at the same tick
	msg  gomidi.Message
}

// Export writes the timeline to path as a format-0 SMF at the default
// tempo.
func Export(t *note.Timeline, path string) error {
	return ExportTempo(t, path, DefaultTempoBPM)
}

// ExportTempo writes the timeline to path as a format-0 SMF at the
// given tempo.
func ExportTempo(t *note.Timeline, path string, bpm float64) error {
	if bpm <= 0 {
		return fmt.Errorf("export %s: tempo %.2f out of range", path, bpm)
	}

	events := make([]smfEvent, 0, t.Len()*2)
	for _, n := range t.Notes() {
		ch := uint8(n.Channel)
		key := uint8(n.Pitch)
		vel := uint8(n.Velocity)
		events = append(events,
			smfEvent{tick: msToTicks(n.Time, bpm), msg: gomidi.NoteOn(ch, key, vel)},
			smfEvent{tick: msToTicks(n.End(), bpm), off: true, msg: gomidi.NoteOff(ch, key)},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var track smf.Track
	track.Add(0, smf.MetaTempo(bpm))
	last := uint32(0)
	for _, ev := range events {
		track.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	track.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	if err := s.Add(track); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

// openNote tracks a NoteOn awaiting its NoteOff during import.
type openNote struct {
	startTick uint32
	velocity  uint8
}

type noteKey struct {
	channel uint8
	key     uint8
}

// Import reads an SMF and returns its notes in milliseconds. All
// tracks are merged; the first tempo event sets the tempo for the
// whole file, defaulting to 120 BPM when absent. NoteOns without a
// matching NoteOff are dropped.
func Import(path string, minDurationMs int64) ([]note.Note, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}

	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("import %s: unsupported time format %v", path, s.TimeFormat)
	}
	resolution := float64(ticks.Resolution())

	bpm := DefaultTempoBPM
	tempoSet := false

	var notes []note.Note
	for _, track := range s.Tracks {
		open := make(map[noteKey]openNote)
		tick := uint32(0)
		for _, ev := range track {
			tick += ev.Delta

			var tempo float64
			if ev.Message.GetMetaTempo(&tempo) && !tempoSet {
				bpm = tempo
				tempoSet = true
				continue
			}

			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				open[noteKey{ch, key}] = openNote{startTick: tick, velocity: vel}
			case ev.Message.GetNoteEnd(&ch, &key):
				k := noteKey{ch, key}
				on, ok := open[k]
				if !ok {
					continue
				}
				delete(open, k)

				startMs := tickToMsAt(on.startTick, bpm, resolution)
				endMs := tickToMsAt(tick, bpm, resolution)
				n := note.New(startMs, int(key), endMs-startMs)
				n.Velocity = int(on.velocity)
				n.Channel = int(ch)
				n.Clamp(minDurationMs)
				notes = append(notes, n)
			}
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})
	return notes, nil
}

func tickToMsAt(tick uint32, bpm, resolution float64) int64 {
	return int64(math.Round(float64(tick) * 60000.0 / (bpm * resolution)))
}
