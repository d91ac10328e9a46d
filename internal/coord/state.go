package coord

import (
	"encoding/json"
	"fmt"
)

// State is the serializable form of a coordinate system. It carries no
// behavior beyond field copy; an external caller may persist it and
// restore the view later.
type State struct {
	PixelsPerSecond float64 `json:"pixelsPerSecond"`
	PixelsPerNote   float64 `json:"pixelsPerNote"`
	MinNote         int     `json:"minNote"`
	MaxNote         int     `json:"maxNote"`
	OffsetX         float64 `json:"offsetX"`
	OffsetY         float64 `json:"offsetY"`
	ZoomX           float64 `json:"zoomX"`
	ZoomY           float64 `json:"zoomY"`
	MinZoom         float64 `json:"minZoom"`
	MaxZoom         float64 `json:"maxZoom"`
}

// Clone returns an independent copy of the coordinate system.
func (s *System) Clone() *System {
	clone := *s
	return &clone
}

// State returns a value copy of the current state.
func (s *System) State() State {
	return State{
		PixelsPerSecond: s.pixelsPerSecond,
		PixelsPerNote:   s.pixelsPerNote,
		MinNote:         s.minNote,
		MaxNote:         s.maxNote,
		OffsetX:         s.offsetX,
		OffsetY:         s.offsetY,
		ZoomX:           s.zoomX,
		ZoomY:           s.zoomY,
		MinZoom:         s.minZoom,
		MaxZoom:         s.maxZoom,
	}
}

// Restore replaces the current state with a previously captured one.
// Zoom is re-clamped in case the limits changed between capture and
// restore.
func (s *System) Restore(state State) {
	s.pixelsPerSecond = state.PixelsPerSecond
	s.pixelsPerNote = state.PixelsPerNote
	s.minNote = state.MinNote
	s.maxNote = state.MaxNote
	s.offsetX = state.OffsetX
	s.offsetY = state.OffsetY
	s.minZoom = state.MinZoom
	s.maxZoom = state.MaxZoom
	s.zoomX = s.clampZoom(state.ZoomX)
	s.zoomY = s.clampZoom(state.ZoomY)
}

// Serialize encodes the state as JSON.
func (s *System) Serialize() ([]byte, error) {
	data, err := json.Marshal(s.State())
	if err != nil {
		return nil, fmt.Errorf("serializing view state: %w", err)
	}
	return data, nil
}

// Deserialize replaces the state from JSON produced by Serialize.
func (s *System) Deserialize(data []byte) error {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("deserializing view state: %w", err)
	}
	if state.PixelsPerSecond <= 0 || state.PixelsPerNote <= 0 {
		return fmt.Errorf("deserializing view state: non-positive scale")
	}
	if state.MinZoom <= 0 || state.MaxZoom < state.MinZoom {
		return fmt.Errorf("deserializing view state: invalid zoom limits")
	}
	s.Restore(state)
	return nil
}
