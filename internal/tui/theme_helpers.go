package tui

import (
	"fmt"

	"github.com/ajramos/inboxchat/internal/config"
	"github.com/derailed/tcell/v2"
)

// colors returns the active theme, falling back to the built-in one
func (a *App) colors() *config.ColorsConfig {
	if a == nil || a.theme == nil {
		return config.DefaultColors()
	}
	return a.theme
}

// getStatusColor returns theme-aware status message colors
func (a *App) getStatusColor(level string) tcell.Color {
	c := a.colors()
	switch level {
	case "error":
		return c.Status.ErrorColor.Color()
	case "success":
		return c.Status.SuccessColor.Color()
	case "warning":
		return c.Status.WarningColor.Color()
	default:
		return c.Status.InfoColor.Color()
	}
}

func (a *App) bgColor() tcell.Color {
	return a.colors().Body.BgColor.Color()
}

func (a *App) fgColor() tcell.Color {
	return a.colors().Body.FgColor.Color()
}

func (a *App) titleColor() tcell.Color {
	return a.colors().Frame.Title.FgColor.Color()
}

func (a *App) borderColor(focused bool) tcell.Color {
	if focused {
		return a.colors().Frame.Border.FocusColor.Color()
	}
	return a.colors().Frame.Border.FgColor.Color()
}

// colorTag builds a tview dynamic color tag such as "[#38bdf8]"
func colorTag(c config.Color) string {
	if c == "" {
		return "[-]"
	}
	return fmt.Sprintf("[%s]", c.String())
}

// boldTag builds a bold tview color tag such as "[#38bdf8::b]"
func boldTag(c config.Color) string {
	if c == "" {
		return "[::b]"
	}
	return fmt.Sprintf("[%s::b]", c.String())
}
