// Package config handles loading and saving kcal configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/kcal/config.yaml
//   - State:   ~/.local/state/kcal/ (tutorial progress store, debug log)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "kcal"

// StoreConfig selects where tutorial progress is persisted.
type StoreConfig struct {
	Type string `yaml:"type,omitempty"` // json, sqlite, memory; empty = detect from path
	Path string `yaml:"path,omitempty"` // Default: <state dir>/state.json
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	StartTab int  `yaml:"start_tab,omitempty"` // Tab selected at launch (0-4)
	ShowHelp bool `yaml:"show_help,omitempty"` // Expand the key help footer
}

// TutorialConfig controls the first-run walkthrough.
type TutorialConfig struct {
	Disabled bool `yaml:"disabled,omitempty"` // Skip the walkthrough on start
}

// Config is the top-level configuration for kcal.
type Config struct {
	Store    StoreConfig    `yaml:"store,omitempty"`
	UI       UIConfig       `yaml:"ui,omitempty"`
	Tutorial TutorialConfig `yaml:"tutorial,omitempty"`
	Debug    bool           `yaml:"debug,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Path: DefaultStorePath(),
		},
	}
}

// ConfigDir returns the XDG config directory for kcal.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for kcal.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultStorePath is the JSON store in the state directory.
func DefaultStorePath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "state.json")
}

// DebugLogPath is where debug output goes while the TUI is running.
func DebugLogPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "debug.log")
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

	if cfg.Store.Path == "" && cfg.Store.Type != "memory" {
		cfg.Store.Path = DefaultStorePath()
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c Config) Validate() error {
	switch c.Store.Type {
	case "", "json", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid store.type %q (want json, sqlite or memory)", c.Store.Type)
	}
	if c.UI.StartTab < 0 {
		return fmt.Errorf("invalid ui.start_tab %d", c.UI.StartTab)
	}
	return nil
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
