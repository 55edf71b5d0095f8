package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/justyntemme/mark/internal/debug"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	Window    WindowConfig    `json:"window"`
	View      ViewConfig      `json:"view"`
	Events    EventsConfig    `json:"events"`
	Workspace WorkspaceConfig `json:"workspace"`
	Recent    RecentConfig    `json:"recent"`
	Store     StoreConfig     `json:"store"`
}

// WindowConfig holds main window settings
type WindowConfig struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`  // In dp
	Height int    `json:"height"` // In dp
}

// ViewConfig holds the initial state of the View menu toggles.
// Persisted settings in the store take precedence once loaded.
type ViewConfig struct {
	Preview bool `json:"preview"`
	Linter  bool `json:"linter"`
	Sidebar bool `json:"sidebar"`
}

// EventsConfig holds menu event delivery settings
type EventsConfig struct {
	QueueSize int `json:"queueSize"` // Undelivered menu events kept before dropping
}

// WorkspaceConfig holds folder scanning settings
type WorkspaceConfig struct {
	Extensions      []string `json:"extensions"`
	MaxDepth        int      `json:"maxDepth"` // 0 = unlimited
	WatchDebounceMs int      `json:"watchDebounceMs"`
}

// RecentConfig holds recently opened file settings
type RecentConfig struct {
	MaxEntries int `json:"maxEntries"`
}

// StoreConfig holds database settings
type StoreConfig struct {
	Path string `json:"path"` // Empty = <UserConfigDir>/mark/mark.db
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config: DefaultConfig(),
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Mark",
			Width:  1200,
			Height: 800,
		},
		View: ViewConfig{
			Preview: true,
			Linter:  true,
			Sidebar: true,
		},
		Events: EventsConfig{
			QueueSize: 32,
		},
		Workspace: WorkspaceConfig{
			Extensions:      []string{".md", ".markdown", ".mdx", ".txt"},
			MaxDepth:        8,
			WatchDebounceMs: 200,
		},
		Recent: RecentConfig{
			MaxEntries: 20,
		},
	}
}

// ConfigPath returns the config file path: ~/.config/mark/config.json
// This is consistent across all platforms (Windows, macOS, Linux)
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mark", "config.json")
}

// Load reads the configuration from the config file
// If the file doesn't exist, creates it with defaults
// If parsing fails, stores the error and returns defaults
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.path = ConfigPath()
	m.parseErr = nil

	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", configDir, err)
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		debug.Log(debug.CONFIG, "creating default config at %s", m.path)
		m.config = DefaultConfig()
		if saveErr := m.saveUnlocked(); saveErr != nil {
			return fmt.Errorf("save default config: %w", saveErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", m.path, err)
	}

	// Unmarshal over defaults so missing keys keep their default values
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		// Store error for UI display, use defaults
		debug.Log(debug.CONFIG, "JSON parse error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}
	cfg.normalize()

	debug.Log(debug.CONFIG, "loaded from %s", m.path)
	m.config = cfg
	return nil
}

// normalize replaces out-of-range values with defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	if c.Window.Title == "" {
		c.Window.Title = def.Window.Title
	}
	if c.Events.QueueSize <= 0 {
		c.Events.QueueSize = def.Events.QueueSize
	}
	if len(c.Workspace.Extensions) == 0 {
		c.Workspace.Extensions = def.Workspace.Extensions
	}
	if c.Workspace.MaxDepth < 0 {
		c.Workspace.MaxDepth = 0
	}
	if c.Workspace.WatchDebounceMs <= 0 {
		c.Workspace.WatchDebounceMs = def.Workspace.WatchDebounceMs
	}
	if c.Recent.MaxEntries <= 0 {
		c.Recent.MaxEntries = def.Recent.MaxEntries
	}
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.path == "" {
		m.path = ConfigPath()
	}
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// StorePath returns the database path, defaulting to the user config dir
func (m *Manager) StorePath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config != nil && m.config.Store.Path != "" {
		return m.config.Store.Path
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Dir(ConfigPath())
		return filepath.Join(configDir, "mark.db")
	}
	return filepath.Join(configDir, "mark", "mark.db")
}

// GenerateConfig backs up existing config and creates a fresh default config
// Returns the backup path if a backup was created, or empty string if no existing config
func GenerateConfig() (backupPath string, err error) {
	configPath := ConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		timestamp := time.Now().Format("20060102-150405")
		backupPath = filepath.Join(filepath.Dir(configPath), "config.backup."+timestamp+".json")

		data, err := os.ReadFile(configPath)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}

		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	fresh := &Manager{config: DefaultConfig(), path: configPath}
	if err := fresh.Save(); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}

	return backupPath, nil
}
