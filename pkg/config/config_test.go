package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state-home")
	cfg := DefaultConfig()

	if cfg.Store.Path != filepath.Join("/tmp/state-home", "kcal", "state.json") {
		t.Errorf("unexpected default store path %q", cfg.Store.Path)
	}
	if cfg.Store.Type != "" {
		t.Errorf("expected store type to be detected, got %q", cfg.Store.Type)
	}
	if cfg.Tutorial.Disabled {
		t.Error("tutorial should be enabled by default")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.StartTab != 0 {
		t.Errorf("expected default config, got start tab %d", cfg.UI.StartTab)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
store:
  type: sqlite
  path: ~/kcal/state.db
ui:
  start_tab: 2
  show_help: true
tutorial:
  disabled: true
debug: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if cfg.Store.Path != filepath.Join(home, "kcal/state.db") {
		t.Errorf("expected expanded store path, got %q", cfg.Store.Path)
	}
	if cfg.Store.Type != "sqlite" {
		t.Errorf("expected sqlite store, got %q", cfg.Store.Type)
	}
	if cfg.UI.StartTab != 2 || !cfg.UI.ShowHelp {
		t.Errorf("unexpected ui config %+v", cfg.UI)
	}
	if !cfg.Tutorial.Disabled || !cfg.Debug {
		t.Errorf("expected tutorial disabled and debug on, got %+v", cfg)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_InvalidStoreType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  type: redis\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected validation error for unknown store type")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Store = StoreConfig{Type: "json", Path: "/var/tmp/kcal.json"}
	cfg.UI.StartTab = 3

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Store != cfg.Store || loaded.UI.StartTab != 3 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigPath(); got != filepath.Join("/tmp/xdg", "kcal", "config.yaml") {
		t.Errorf("unexpected config path %q", got)
	}
}
