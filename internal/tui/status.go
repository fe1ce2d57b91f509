package tui

import (
	"fmt"
	"strings"
)

// statusBaseline is the status bar text when no message is showing
func (a *App) statusBaseline() string {
	parts := []string{"inboxchat"}
	if a.assistant != nil {
		if p := a.assistant.Snapshot().Profile; p != nil && p.Email != "" {
			parts = append(parts, p.Email)
		}
	}
	parts = append(parts,
		fmt.Sprintf("%s help", a.keyOr(a.Keys.Help, "?")),
		"Tab switch focus",
		fmt.Sprintf("%s quit", a.keyOr(a.Keys.Quit, "q")),
	)
	return strings.Join(parts, " • ")
}

// keyOr returns the configured key or the fallback when it is unset
func (a *App) keyOr(key, fallback string) string {
	if strings.TrimSpace(key) == "" {
		return fallback
	}
	return key
}

// showInfo shows an info message via the error handler
func (a *App) showInfo(msg string) {
	a.errorHandler.ShowInfo(a.ctx, msg)
}

// showFlash shows a short-lived confirmation on the right of the status bar
func (a *App) showFlash(msg string, level LogLevel) {
	a.errorHandler.ShowFlashMessage(a.ctx, msg, level, flashDuration)
}
