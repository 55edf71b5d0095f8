package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withHome points os.UserHomeDir at a temp dir for the duration of the test
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func TestLoad_CreatesDefault(t *testing.T) {
	home := withHome(t)

	m := NewManager()
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	path := filepath.Join(home, ".config", "mark", "config.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}

	cfg := m.Get()
	if cfg.Window.Title != "Mark" {
		t.Errorf("expected default title, got %q", cfg.Window.Title)
	}
	if cfg.Events.QueueSize != 32 {
		t.Errorf("expected default queue size 32, got %d", cfg.Events.QueueSize)
	}
	if m.ParseError() != nil {
		t.Errorf("unexpected parse error: %v", m.ParseError())
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	withHome(t)
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data := `{"window": {"title": "Notes", "width": -5}, "events": {"queueSize": 0}, "view": {"linter": false}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := m.Get()

	if cfg.Window.Title != "Notes" {
		t.Errorf("expected title %q, got %q", "Notes", cfg.Window.Title)
	}
	if cfg.Window.Width != 1200 {
		t.Errorf("expected invalid width replaced by default, got %d", cfg.Window.Width)
	}
	if cfg.Events.QueueSize != 32 {
		t.Errorf("expected queue size default, got %d", cfg.Events.QueueSize)
	}
	if cfg.View.Linter {
		t.Error("expected linter disabled from file")
	}
	if !cfg.View.Preview {
		t.Error("expected preview default kept")
	}
}

func TestLoad_ParseErrorUsesDefaults(t *testing.T) {
	withHome(t)
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.Load(); err != nil {
		t.Fatalf("Load should not fail on parse errors: %v", err)
	}
	if m.ParseError() == nil {
		t.Error("expected parse error to be recorded")
	}
	if m.Get().Window.Title != "Mark" {
		t.Error("expected defaults after parse error")
	}
}

func TestStorePath(t *testing.T) {
	withHome(t)
	m := NewManager()
	if got := m.StorePath(); filepath.Base(got) != "mark.db" {
		t.Errorf("expected default db name, got %q", got)
	}

	m.config.Store.Path = "/tmp/custom.db"
	if got := m.StorePath(); got != "/tmp/custom.db" {
		t.Errorf("expected configured path, got %q", got)
	}
}

func TestGenerateConfig_BacksUpExisting(t *testing.T) {
	withHome(t)

	backup, err := GenerateConfig()
	if err != nil {
		t.Fatalf("GenerateConfig: %v", err)
	}
	if backup != "" {
		t.Errorf("expected no backup on first run, got %q", backup)
	}

	backup, err = GenerateConfig()
	if err != nil {
		t.Fatalf("GenerateConfig: %v", err)
	}
	if backup == "" {
		t.Fatal("expected backup path on second run")
	}
	if _, err := os.Stat(backup); err != nil {
		t.Errorf("backup not written: %v", err)
	}

	m := NewManager()
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.Get().Window.Title; got != "Mark" {
		t.Errorf("generated config has title %q, want Mark", got)
	}
}
