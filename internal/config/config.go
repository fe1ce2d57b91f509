package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const appDirName = "inboxchat"

// Environment overrides
const (
	EnvConfigPath = "INBOXCHAT_CONFIG"
	EnvBackendURL = "INBOXCHAT_BACKEND_URL"
	EnvSession    = "INBOXCHAT_SESSION"
)

// BackendConfig describes how to reach the assistant backend
type BackendConfig struct {
	URL string `json:"url"`

	// SessionCookie is the value of the backend's "session" cookie, copied
	// from the browser after signing in
	SessionCookie string `json:"session_cookie"`

	// AuthToken is sent as a bearer token when the backend sits behind a proxy
	AuthToken string `json:"auth_token,omitempty"`

	Timeout string `json:"timeout"`
}

// HistoryConfig controls local persistence of chat history and generated replies
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"` // directory (one database per account) or a .sqlite3 file
	Limit   int    `json:"limit"`
}

// Config holds all configuration for the inboxchat application
type Config struct {
	Backend BackendConfig `json:"backend"`

	History HistoryConfig `json:"history"`

	// Layout configuration
	Layout LayoutConfig `json:"layout"`

	// Keyboard shortcuts
	Keys KeyBindings `json:"keys"`

	// Logging
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"`
}

// LayoutConfig defines layout-specific configuration
type LayoutConfig struct {
	// Screens at least this wide show inbox and chat side by side
	WideBreakpoint LayoutBreakpoint `json:"wide_breakpoint"`

	ShowBorders  bool   `json:"show_borders"`
	CurrentTheme string `json:"current_theme"`    // Theme file name without extension
	ThemeDir     string `json:"custom_theme_dir"` // Custom themes directory (empty = default)
}

// LayoutBreakpoint defines minimum dimensions for layout types
type LayoutBreakpoint struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// KeyBindings defines keyboard shortcuts for the TUI
type KeyBindings struct {
	Refresh       string `json:"refresh"`
	GenerateReply string `json:"generate_reply"`
	SendReply     string `json:"send_reply"`
	Delete        string `json:"delete"`
	Logout        string `json:"logout"`
	Login         string `json:"login"`
	Theme         string `json:"theme"`
	Quit          string `json:"quit"`
	Help          string `json:"help"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://localhost:8000",
			Timeout: "60s",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "",
			Limit:   50,
		},
		Layout:   DefaultLayoutConfig(),
		Keys:     DefaultKeyBindings(),
		LogFile:  "",
		LogLevel: "info",
	}
}

// DefaultKeyBindings returns default keyboard shortcuts
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Refresh:       "R",
		GenerateReply: "g",
		SendReply:     "s",
		Delete:        "d",
		Logout:        "L",
		Login:         "o",
		Theme:         "t",
		Quit:          "q",
		Help:          "?",
	}
}

// DefaultLayoutConfig returns default layout configuration
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		WideBreakpoint: LayoutBreakpoint{
			Width:  110,
			Height: 24,
		},
		ShowBorders:  true,
		CurrentTheme: "default",
		ThemeDir:     "",
	}
}

// LoadConfig loads configuration from file and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.Backend.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSession)); v != "" {
		c.Backend.SessionCookie = v
	}
}

// ResolveConfigPath picks the config file: flag first, then INBOXCHAT_CONFIG,
// then the default location
func ResolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return ExpandPath(flagPath)
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return ExpandPath(env)
	}
	return DefaultConfigPath()
}

// DefaultConfigDir returns ~/.config/inboxchat
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.json")
}

// DefaultCacheDir returns the default directory for per-account databases
func DefaultCacheDir() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "cache")
}

// DefaultLogPath returns the default log file path
func DefaultLogPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "inboxchat.log")
}

// DefaultThemeDir returns the default themes directory
func DefaultThemeDir() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themes")
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetTimeout returns the parsed backend request timeout
func (c *Config) GetTimeout() time.Duration {
	if c.Backend.Timeout != "" {
		if d, err := time.ParseDuration(c.Backend.Timeout); err == nil && d > 0 {
			return d
		}
	}
	return 60 * time.Second
}

// CachePath returns the configured database location or the default one
func (c *Config) CachePath() string {
	if c.History.Path != "" {
		return ExpandPath(c.History.Path)
	}
	return DefaultCacheDir()
}

// LogPath returns the configured log file or the default one
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return ExpandPath(c.LogFile)
	}
	return DefaultLogPath()
}

// ThemeDir returns the configured themes directory or the default one
func (c *Config) ThemeDir() string {
	if c.Layout.ThemeDir != "" {
		return ExpandPath(c.Layout.ThemeDir)
	}
	return DefaultThemeDir()
}
