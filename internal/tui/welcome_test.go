package tui

import (
	"strings"
	"testing"

	"github.com/ajramos/inboxchat/internal/config"
	"github.com/stretchr/testify/assert"
)

type stubSession struct {
	loginURL string
	session  string
}

func (s *stubSession) LoginURL() string        { return s.loginURL }
func (s *stubSession) SetSession(value string) { s.session = value }
func (s *stubSession) HasSession() bool        { return s.session != "" }

func TestGetWelcomeShortcuts_CustomConfig(t *testing.T) {
	app := &App{
		Keys: config.KeyBindings{
			Login:   "O",
			Refresh: "r",
			Quit:    "Q",
		},
	}

	shortcuts := app.getWelcomeShortcuts()

	assert.Contains(t, shortcuts, "[O Open login page]")
	assert.Contains(t, shortcuts, "[r Retry]")
	assert.Contains(t, shortcuts, "[Q Quit]")
	assert.Contains(t, shortcuts, "[Enter Paste session]")
}

func TestGetWelcomeShortcuts_DefaultFallback(t *testing.T) {
	app := &App{Keys: config.KeyBindings{}}

	shortcuts := app.getWelcomeShortcuts()

	assert.Contains(t, shortcuts, "[o Open login page]")
	assert.Contains(t, shortcuts, "[R Retry]")
	assert.Contains(t, shortcuts, "[q Quit]")
}

func TestBuildWelcomeText(t *testing.T) {
	app := &App{
		Keys:    config.DefaultKeyBindings(),
		session: &stubSession{loginURL: "http://localhost:8000/auth/login"},
	}

	text := app.buildWelcomeText("Your session is missing or expired.")

	assert.Contains(t, text, "http://localhost:8000/auth/login")
	assert.Contains(t, text, "Your session is missing or expired.")
	assert.Contains(t, text, `"session" cookie`)
	assert.Contains(t, text, "INBOXCHAT_SESSION")
	// chips are escaped so tview prints the brackets
	assert.Contains(t, text, "[o Open login page[]")
}

func TestBuildWelcomeText_NoReason(t *testing.T) {
	app := &App{Keys: config.DefaultKeyBindings(), session: &stubSession{loginURL: "http://x/auth/login"}}

	text := app.buildWelcomeText("  ")

	assert.True(t, strings.HasPrefix(text, boldTag(config.DefaultColors().Body.AccentColor)+"📨 inboxchat"))
	assert.NotContains(t, text, "expired")
}
