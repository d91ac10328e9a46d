package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// envBindings maps environment variables to setting paths.
var envBindings = map[string]string{
	"PIANOROLL_SNAP_ENABLED":        KeySnapEnabled,
	"PIANOROLL_SNAP_GRID_MS":        KeySnapGridMs,
	"PIANOROLL_MIN_DURATION_MS":     KeyNoteMinDurationMs,
	"PIANOROLL_DEFAULT_DURATION_MS": KeyNoteDefaultDurMs,
	"PIANOROLL_DEFAULT_VELOCITY":    KeyNoteDefaultVel,
	"PIANOROLL_HISTORY_MAX":         KeyHistoryMaxEntries,
	"PIANOROLL_RESIZE_HANDLE_PX":    KeyResizeHandlePixels,
}

// LoadFile reads a TOML config file into the store. A missing file is
// not an error; the defaults stand.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	s.Merge(flatten("", raw))
	return nil
}

// LoadEnv applies environment variable overrides. Environment values
// take precedence over file values, so call it after LoadFile.
func (s *Store) LoadEnv() {
	overrides := make(map[string]any)
	for env, path := range envBindings {
		raw, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		overrides[path] = parseEnvValue(raw)
	}
	s.Merge(overrides)
}

// flatten converts nested TOML tables into dot-separated paths.
func flatten(prefix string, raw map[string]any) map[string]any {
	flat := make(map[string]any)
	for key, v := range raw {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range flatten(path, nested) {
				flat[nk] = nv
			}
			continue
		}
		flat[path] = v
	}
	return flat
}

// parseEnvValue interprets an environment string as bool, int, float,
// or falls back to the raw string.
func parseEnvValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
