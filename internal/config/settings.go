// Package config loads the application settings file, creating it with
// defaults on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings is the top-level TOML structure
type Settings struct {
	Grid GridSettings `toml:"grid"`
	Drag DragSettings `toml:"drag"`
	Sync SyncSettings `toml:"sync"`
}

// GridSettings controls the launcher grid dimensions
type GridSettings struct {
	Columns int `toml:"columns"`
	Rows    int `toml:"rows"`
}

// DragSettings controls drag-and-drop timing
type DragSettings struct {
	HoverThresholdMs int `toml:"hover_threshold_ms"`
	ScrollIntervalMs int `toml:"scroll_interval_ms"`
}

// SyncSettings controls persistence flushing
type SyncSettings struct {
	FlushIntervalSec int `toml:"flush_interval_sec"`
}

const defaultSettingsTOML = `# LaunchGrid settings

[grid]
columns = 5
rows = 4

[drag]
# How long the pointer must hover over a pagination arrow (while dragging)
# before the page flips automatically.
hover_threshold_ms = 600
# Delay between repeated page flips while the pointer keeps hovering.
scroll_interval_ms = 800

[sync]
flush_interval_sec = 30
`

// DefaultSettings returns the built-in defaults
func DefaultSettings() *Settings {
	var s Settings
	// The embedded default document is the single source of truth
	if _, err := toml.Decode(defaultSettingsTOML, &s); err != nil {
		panic(fmt.Sprintf("default settings are malformed: %v", err))
	}
	return &s
}

// Dir returns the directory for launchgrid config files, using the OS
// config dir convention
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "launchgrid"), nil
}

// Load reads settings.toml from the config dir. A missing file is created
// with defaults; an unreadable or malformed file falls back to defaults
// without failing startup.
func Load() (*Settings, error) {
	dir, err := Dir()
	if err != nil {
		return DefaultSettings(), err
	}
	return LoadFrom(filepath.Join(dir, "settings.toml"))
}

// LoadFrom reads settings from an explicit path (exposed for tests)
func LoadFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			return DefaultSettings(), writeErr
		}
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), err
	}

	settings := DefaultSettings()
	if _, err := toml.Decode(string(data), settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parse %s: %w", path, err)
	}
	settings.normalize()
	return settings, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultSettingsTOML), 0o644)
}

// normalize clamps nonsensical values back to defaults
func (s *Settings) normalize() {
	defaults := DefaultSettings()
	if s.Grid.Columns < 1 {
		s.Grid.Columns = defaults.Grid.Columns
	}
	if s.Grid.Rows < 1 {
		s.Grid.Rows = defaults.Grid.Rows
	}
	if s.Drag.HoverThresholdMs < 1 {
		s.Drag.HoverThresholdMs = defaults.Drag.HoverThresholdMs
	}
	if s.Drag.ScrollIntervalMs < 1 {
		s.Drag.ScrollIntervalMs = defaults.Drag.ScrollIntervalMs
	}
	if s.Sync.FlushIntervalSec < 1 {
		s.Sync.FlushIntervalSec = defaults.Sync.FlushIntervalSec
	}
}

// ItemsPerPage is the fixed page capacity of the grid
func (s *Settings) ItemsPerPage() int {
	return s.Grid.Columns * s.Grid.Rows
}

// HoverThreshold returns the hover threshold as a duration
func (s *Settings) HoverThreshold() time.Duration {
	return time.Duration(s.Drag.HoverThresholdMs) * time.Millisecond
}

// ScrollInterval returns the auto-scroll interval as a duration
func (s *Settings) ScrollInterval() time.Duration {
	return time.Duration(s.Drag.ScrollIntervalMs) * time.Millisecond
}

// FlushInterval returns the periodic flush interval as a duration
func (s *Settings) FlushInterval() time.Duration {
	return time.Duration(s.Sync.FlushIntervalSec) * time.Second
}
