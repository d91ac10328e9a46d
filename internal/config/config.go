// Package config holds editor settings. Settings are read by the
// editing engine at the moment each gesture update runs, never cached
// at gesture start, so a live change takes effect mid-gesture.
package config

import (
	"fmt"
	"sync"
)

// Setting paths.
const (
	KeySnapEnabled        = "snap.enabled"
	KeySnapGridMs         = "snap.gridMs"
	KeyNoteMinDurationMs  = "note.minDurationMs"
	KeyNoteDefaultDurMs   = "note.defaultDurationMs"
	KeyNoteDefaultVel     = "note.defaultVelocity"
	KeyZoomMin            = "zoom.min"
	KeyZoomMax            = "zoom.max"
	KeyHistoryMaxEntries  = "history.maxEntries"
	KeyResizeHandlePixels = "edit.resizeHandlePixels"
)

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		KeySnapEnabled:        true,
		KeySnapGridMs:         int64(100),
		KeyNoteMinDurationMs:  int64(50),
		KeyNoteDefaultDurMs:   int64(250),
		KeyNoteDefaultVel:     int64(100),
		KeyZoomMin:            0.1,
		KeyZoomMax:            10.0,
		KeyHistoryMaxEntries:  int64(1000),
		KeyResizeHandlePixels: 8.0,
	}
}

// Store is a thread-safe settings store with change notification.
type Store struct {
	mu       sync.RWMutex
	values   map[string]any
	notifier *Notifier
}

// NewStore creates a store populated with defaults.
func NewStore() *Store {
	return &Store{
		values:   Defaults(),
		notifier: NewNotifier(),
	}
}

// Notifier returns the store's change notifier.
func (s *Store) Notifier() *Notifier {
	return s.notifier
}

// Get returns the raw value at a path.
func (s *Store) Get(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[path]
	return v, ok
}

// Set stores a value and notifies observers of the path. Values that
// would break engine invariants are rejected.
func (s *Store) Set(path string, value any) error {
	value = normalize(value)
	if err := validate(path, value); err != nil {
		return err
	}

	s.mu.Lock()
	old := s.values[path]
	s.values[path] = value
	s.mu.Unlock()

	s.notifier.Notify(Change{Path: path, Type: ChangeSet, OldValue: old, NewValue: value})
	return nil
}

// Merge applies a flat path→value map, typically from a loaded file,
// then notifies observers of a reload. Invalid entries are skipped;
// unknown paths are kept so a newer config file round-trips.
func (s *Store) Merge(values map[string]any) {
	if len(values) == 0 {
		return
	}

	s.mu.Lock()
	for path, v := range values {
		v = normalize(v)
		if validate(path, v) != nil {
			continue
		}
		s.values[path] = v
	}
	s.mu.Unlock()

	s.notifier.Notify(Change{Type: ChangeReload})
}

// SnapEnabled reports whether snap-to-grid is on.
func (s *Store) SnapEnabled() bool {
	return s.getBoolOr(KeySnapEnabled, true)
}

// GridMs returns the snap grid interval in milliseconds.
func (s *Store) GridMs() int64 {
	return s.getIntOr(KeySnapGridMs, 100)
}

// MinDurationMs returns the note duration floor.
func (s *Store) MinDurationMs() int64 {
	return s.getIntOr(KeyNoteMinDurationMs, 50)
}

// DefaultDurationMs returns the duration for click-created notes.
func (s *Store) DefaultDurationMs() int64 {
	return s.getIntOr(KeyNoteDefaultDurMs, 250)
}

// DefaultVelocity returns the velocity for newly created notes.
func (s *Store) DefaultVelocity() int {
	return int(s.getIntOr(KeyNoteDefaultVel, 100))
}

// ZoomLimits returns the zoom clamp range.
func (s *Store) ZoomLimits() (minZoom, maxZoom float64) {
	return s.getFloatOr(KeyZoomMin, 0.1), s.getFloatOr(KeyZoomMax, 10.0)
}

// HistoryMaxEntries returns the undo stack bound.
func (s *Store) HistoryMaxEntries() int {
	return int(s.getIntOr(KeyHistoryMaxEntries, 1000))
}

// ResizeHandlePixels returns the screen-space width of the resize
// handle hit zone. It does not scale with zoom.
func (s *Store) ResizeHandlePixels() float64 {
	return s.getFloatOr(KeyResizeHandlePixels, 8.0)
}

func (s *Store) getBoolOr(path string, fallback bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[path].(bool); ok {
		return v
	}
	return fallback
}

func (s *Store) getIntOr(path string, fallback int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch v := s.values[path].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return fallback
}

func (s *Store) getFloatOr(path string, fallback float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch v := s.values[path].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return fallback
}

// normalize coerces loader output into the store's canonical types.
func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case uint64:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

// validate rejects settings that would break engine invariants.
func validate(path string, value any) error {
	switch path {
	case KeySnapGridMs, KeyNoteMinDurationMs, KeyNoteDefaultDurMs:
		if n, ok := value.(int64); ok && n <= 0 {
			return fmt.Errorf("setting %s: must be positive, got %d", path, n)
		}
	case KeyZoomMin, KeyZoomMax:
		if f, ok := value.(float64); ok && f <= 0 {
			return fmt.Errorf("setting %s: must be positive, got %g", path, f)
		}
	}
	return nil
}
