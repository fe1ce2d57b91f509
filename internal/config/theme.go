package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultThemeName is the built-in theme used when no file is found
const DefaultThemeName = "default"

// ThemeLoader handles loading and saving themes
type ThemeLoader struct {
	themesDir string
}

type themeFile struct {
	InboxChat *ColorsConfig `yaml:"inboxchat"`
}

// NewThemeLoader creates a new theme loader
func NewThemeLoader(themesDir string) *ThemeLoader {
	return &ThemeLoader{
		themesDir: themesDir,
	}
}

// LoadTheme resolves a theme by name ("dark" or "dark.yaml"). The built-in
// theme is returned for "default" or an empty name.
func (tl *ThemeLoader) LoadTheme(name string) (*ColorsConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == DefaultThemeName {
		return DefaultColors(), nil
	}
	if filepath.Ext(name) == "" {
		name += ".yaml"
	}
	return tl.LoadThemeFromFile(name)
}

// LoadThemeFromFile loads a theme from a YAML file
func (tl *ThemeLoader) LoadThemeFromFile(filename string) (*ColorsConfig, error) {
	// Try to load from themes directory first
	path := filepath.Join(tl.themesDir, filename)
	if !fileExists(path) {
		// Try absolute path
		path = filename
		if !fileExists(path) {
			return nil, fmt.Errorf("theme file not found: %s", filename)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var theme themeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	if theme.InboxChat == nil {
		return nil, fmt.Errorf("invalid theme file: missing inboxchat section")
	}

	if err := tl.ValidateTheme(theme.InboxChat); err != nil {
		return nil, err
	}

	return theme.InboxChat, nil
}

// ListAvailableThemes returns a list of available theme files
func (tl *ThemeLoader) ListAvailableThemes() ([]string, error) {
	var themes []string

	entries, err := os.ReadDir(tl.themesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".yaml" {
			themes = append(themes, entry.Name())
		}
	}

	return themes, nil
}

// SaveThemeToFile saves a theme configuration to a YAML file
func (tl *ThemeLoader) SaveThemeToFile(theme *ColorsConfig, filename string) error {
	if err := os.MkdirAll(tl.themesDir, 0755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}

	data, err := yaml.Marshal(themeFile{InboxChat: theme})
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}

	if err := os.WriteFile(filepath.Join(tl.themesDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write theme file: %w", err)
	}

	return nil
}

// ValidateTheme validates a theme configuration
func (tl *ThemeLoader) ValidateTheme(theme *ColorsConfig) error {
	if theme == nil {
		return fmt.Errorf("theme is nil")
	}

	requiredColors := []struct {
		name  string
		color Color
	}{
		{"Body.FgColor", theme.Body.FgColor},
		{"Body.BgColor", theme.Body.BgColor},
		{"Chat.UserColor", theme.Chat.UserColor},
		{"Chat.AssistantColor", theme.Chat.AssistantColor},
	}

	for _, req := range requiredColors {
		if req.color == "" {
			return fmt.Errorf("missing required color: %s", req.name)
		}
	}

	return nil
}

// CreateDefaultTheme writes the built-in theme to dark.yaml if it does not exist
func (tl *ThemeLoader) CreateDefaultTheme() error {
	if fileExists(filepath.Join(tl.themesDir, "dark.yaml")) {
		return nil
	}
	return tl.SaveThemeToFile(DefaultColors(), "dark.yaml")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
