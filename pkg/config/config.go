// Package config handles loading and saving panes configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/panes/config.yaml
//   - State:   ~/.local/state/panes/ (trace files)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/dirwatch"
)

// FoldersConfig mirrors the global folder settings.
type FoldersConfig struct {
	ShowFolderSizes                    bool   `yaml:"show_folder_sizes"`
	DisableFolderSizesNetworkRemovable bool   `yaml:"disable_folder_sizes_network_removable"`
	ForceSize                          bool   `yaml:"force_size"`
	SizeUnit                           string `yaml:"size_unit,omitempty"` // auto, bytes, kb, mb, gb, tb, pb
	FriendlyDates                      bool   `yaml:"friendly_dates"`
	ShowHidden                         bool   `yaml:"show_hidden"`
}

// WatchConfig controls live directory updates.
type WatchConfig struct {
	Enabled        bool `yaml:"enabled"`
	Recursive      bool `yaml:"recursive,omitempty"`
	DebounceMs     int  `yaml:"debounce_ms,omitempty"`
	PollIntervalMs int  `yaml:"poll_interval_ms,omitempty"`
	ForcePoll      bool `yaml:"force_poll,omitempty"`
}

// DisplayWindowConfig controls the information pane.
type DisplayWindowConfig struct {
	Visible bool `yaml:"visible"`
}

// Config is the top-level configuration for panes.
type Config struct {
	Folders       FoldersConfig       `yaml:"folders"`
	Columns       []string            `yaml:"columns,omitempty"`
	Workers       int                 `yaml:"workers,omitempty"` // 0 = one per CPU
	Watch         WatchConfig         `yaml:"watch"`
	DisplayWindow DisplayWindowConfig `yaml:"display_window"`
	Tabs          []string            `yaml:"tabs,omitempty"`      // Directories opened at startup
	Bookmarks     map[int]string      `yaml:"bookmarks,omitempty"` // Number key (1-9) -> directory
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	s := columns.DefaultSettings()
	cols := columns.DefaultSet()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.String()
	}
	return Config{
		Folders: FoldersConfig{
			ShowFolderSizes:                    s.ShowFolderSizes,
			DisableFolderSizesNetworkRemovable: s.DisableFolderSizesNetworkRemovable,
			SizeUnit:                           columns.UnitAuto.String(),
			FriendlyDates:                      s.FriendlyDates,
		},
		Columns: names,
		Watch: WatchConfig{
			Enabled:        true,
			DebounceMs:     int(dirwatch.DefaultDebounce / time.Millisecond),
			PollIntervalMs: int(dirwatch.DefaultPollInterval / time.Millisecond),
		},
		DisplayWindow: DisplayWindowConfig{Visible: true},
		Bookmarks:     make(map[int]string),
	}
}

// ConfigDir returns the XDG config directory for panes.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "panes")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "panes")
}

// StateDir returns the XDG state directory for panes.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "panes")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "panes")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Bookmarks == nil {
		cfg.Bookmarks = make(map[int]string)
	}

	for i := range cfg.Tabs {
		cfg.Tabs[i] = expandHome(cfg.Tabs[i])
	}
	for n, dir := range cfg.Bookmarks {
		cfg.Bookmarks[n] = expandHome(dir)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate reports every unknown column or unit name and negative numbers.
func (c Config) Validate() error {
	var errs []error
	if _, err := columns.ParseSizeUnit(c.Folders.SizeUnit); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ColumnTypes(); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.Watch.DebounceMs < 0 || c.Watch.PollIntervalMs < 0 {
		errs = append(errs, errors.New("watch intervals must not be negative"))
	}
	for n := range c.Bookmarks {
		if n < 1 || n > 9 {
			errs = append(errs, fmt.Errorf("bookmark key %d outside 1-9", n))
		}
	}
	return errors.Join(errs...)
}

// Settings returns the folder settings snapshot. An unknown size unit
// falls back to auto.
func (c Config) Settings() columns.Settings {
	unit, _ := columns.ParseSizeUnit(c.Folders.SizeUnit)
	return columns.Settings{
		ShowFolderSizes:                    c.Folders.ShowFolderSizes,
		DisableFolderSizesNetworkRemovable: c.Folders.DisableFolderSizesNetworkRemovable,
		ForceSize:                          c.Folders.ForceSize,
		SizeUnit:                           unit,
		FriendlyDates:                      c.Folders.FriendlyDates,
		ShowHidden:                         c.Folders.ShowHidden,
	}
}

// ColumnTypes parses the configured column names. Name is always first;
// an empty list is the default set.
func (c Config) ColumnTypes() ([]columns.Type, error) {
	if len(c.Columns) == 0 {
		return columns.DefaultSet(), nil
	}
	out := []columns.Type{columns.Name}
	seen := map[columns.Type]bool{columns.Name: true}
	for _, name := range c.Columns {
		t, err := columns.ParseType(name)
		if err != nil {
			return nil, err
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}

// WatchOptions converts the watch section.
func (c Config) WatchOptions() dirwatch.Options {
	return dirwatch.Options{
		Recursive:    c.Watch.Recursive,
		Debounce:     time.Duration(c.Watch.DebounceMs) * time.Millisecond,
		ForcePoll:    c.Watch.ForcePoll,
		PollInterval: time.Duration(c.Watch.PollIntervalMs) * time.Millisecond,
	}
}

// Bookmark returns the directory assigned to number key n (1-9).
func (c Config) Bookmark(n int) (string, bool) {
	dir, ok := c.Bookmarks[n]
	return dir, ok && dir != ""
}

// SetBookmark assigns a directory to a number key (1-9). An empty dir
// removes the bookmark.
func (c *Config) SetBookmark(n int, dir string) {
	if c.Bookmarks == nil {
		c.Bookmarks = make(map[int]string)
	}
	if dir == "" {
		delete(c.Bookmarks, n)
	} else {
		c.Bookmarks[n] = dir
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
