package config

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Manager provides centralized configuration management with validation
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	watchers   []func(*Config)
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config:   DefaultConfig(),
		watchers: make([]func(*Config), 0),
	}
}

// LoadFromFile loads configuration from a file with validation
func (m *Manager) LoadFromFile(configPath string) error {
	configPath = ExpandPath(configPath)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	m.applyDefaults(cfg)

	if err := m.validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.mu.Lock()
	m.config = cfg
	m.configPath = configPath
	watchers := append(([]func(*Config))(nil), m.watchers...)
	m.mu.Unlock()

	m.notifyWatchers(watchers, cfg)
	return nil
}

// ConfigPath returns the file the configuration was loaded from
func (m *Manager) ConfigPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configPath
}

// GetConfig returns a copy of the current configuration
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copyConfig(m.config)
}

// UpdateConfig updates the configuration with validation
func (m *Manager) UpdateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	m.applyDefaults(cfg)

	if err := m.validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.mu.Lock()
	m.config = m.copyConfig(cfg)
	watchers := append(([]func(*Config))(nil), m.watchers...)
	m.mu.Unlock()

	m.notifyWatchers(watchers, cfg)
	return nil
}

// SetSessionCookie stores a new backend session and persists it when the
// configuration came from a file
func (m *Manager) SetSessionCookie(value string) error {
	cfg := m.GetConfig()
	cfg.Backend.SessionCookie = strings.TrimSpace(value)
	if err := m.UpdateConfig(cfg); err != nil {
		return err
	}
	if path := m.ConfigPath(); path != "" {
		return m.SaveToFile(path)
	}
	return nil
}

// SaveToFile saves the current configuration to a file
func (m *Manager) SaveToFile(filePath string) error {
	cfg := m.GetConfig()

	if err := cfg.SaveConfig(ExpandPath(filePath)); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// AddWatcher adds a configuration change watcher
func (m *Manager) AddWatcher(watcher func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.watchers = append(m.watchers, watcher)
}

// validateConfig validates the configuration
func (m *Manager) validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	u, err := url.Parse(cfg.Backend.URL)
	if err != nil {
		return fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend url must use http or https: %q", cfg.Backend.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend url has no host: %q", cfg.Backend.URL)
	}

	if cfg.Backend.Timeout != "" {
		d, err := time.ParseDuration(cfg.Backend.Timeout)
		if err != nil {
			return fmt.Errorf("invalid backend timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("backend timeout must be positive")
		}
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return fmt.Errorf("invalid log level: %q", cfg.LogLevel)
	}

	if cfg.Layout.WideBreakpoint.Width <= 0 || cfg.Layout.WideBreakpoint.Height <= 0 {
		return fmt.Errorf("invalid wide breakpoint dimensions")
	}

	if cfg.History.Limit < 0 {
		return fmt.Errorf("history limit cannot be negative")
	}

	return nil
}

// applyDefaults applies default values for missing configuration
func (m *Manager) applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Keys == (KeyBindings{}) {
		cfg.Keys = defaults.Keys
	}

	if cfg.Layout == (LayoutConfig{}) {
		cfg.Layout = defaults.Layout
	}

	if strings.TrimSpace(cfg.Backend.URL) == "" {
		cfg.Backend.URL = defaults.Backend.URL
	}
	cfg.Backend.URL = strings.TrimRight(strings.TrimSpace(cfg.Backend.URL), "/")

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}

	if cfg.History.Limit == 0 {
		cfg.History.Limit = defaults.History.Limit
	}
}

// copyConfig creates a copy of the configuration
func (m *Manager) copyConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}

	copy := *cfg
	return &copy
}

// notifyWatchers notifies all configuration watchers
func (m *Manager) notifyWatchers(watchers []func(*Config), cfg *Config) {
	for _, watcher := range watchers {
		watcher(m.copyConfig(cfg))
	}
}
