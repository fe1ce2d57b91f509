package tui

import (
	"context"

	"github.com/derailed/tcell/v2"
	"go.uber.org/zap"
)

// bindKeys installs the global input capture
func (a *App) bindKeys() {
	a.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			a.Stop()
			return nil
		}

		switch a.currentPage {
		case pageHelp:
			return a.handleHelpKey(event)
		case pageLogin:
			return a.handleLoginKey(event)
		case pageThemes:
			return event
		}

		if event.Key() == tcell.KeyTab || event.Key() == tcell.KeyBacktab {
			a.toggleFocus()
			return nil
		}

		if a.currentFocus == focusInput {
			if event.Key() == tcell.KeyEscape {
				a.setFocus(focusInbox)
				return nil
			}
			return event
		}

		return a.handleInboxKey(event)
	})
}

func (a *App) handleHelpKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape || (event.Rune() != 0 && string(event.Rune()) == a.keyOr(a.Keys.Help, "?")) {
		a.toggleHelp()
		return nil
	}
	if event.Rune() != 0 && string(event.Rune()) == a.keyOr(a.Keys.Quit, "q") {
		a.Stop()
		return nil
	}
	return event
}

func (a *App) handleLoginKey(event *tcell.EventKey) *tcell.EventKey {
	if a.loginInput != nil && a.loginInput.HasFocus() {
		return event
	}

	switch event.Key() {
	case tcell.KeyEnter, tcell.KeyTab:
		if a.loginInput != nil {
			a.SetFocus(a.loginInput)
		}
		return nil
	}
	if event.Rune() == 0 {
		return event
	}

	switch string(event.Rune()) {
	case a.keyOr(a.Keys.Login, "o"):
		a.openLoginPage()
	case a.keyOr(a.Keys.Refresh, "R"):
		a.showLogin("Checking session...")
		a.bootstrap()
	case a.keyOr(a.Keys.Help, "?"):
		a.toggleHelp()
	case a.keyOr(a.Keys.Quit, "q"):
		a.Stop()
	default:
		return event
	}
	return nil
}

func (a *App) handleInboxKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		a.moveSelection(-1)
		return nil
	case tcell.KeyDown:
		a.moveSelection(1)
		return nil
	case tcell.KeyEnter:
		a.setFocus(focusInput)
		return nil
	}

	if event.Rune() == 0 {
		return event
	}
	if a.handleConfigurableKey(event) {
		return nil
	}

	switch event.Rune() {
	case 'k':
		a.moveSelection(-1)
		return nil
	case 'j':
		a.moveSelection(1)
		return nil
	}
	return event
}

// handleConfigurableKey runs the action bound to a configurable shortcut
func (a *App) handleConfigurableKey(event *tcell.EventKey) bool {
	key := string(event.Rune())
	index := a.selected

	switch key {
	case a.Keys.Refresh:
		a.logger.Debug("shortcut", zap.String("key", key), zap.String("action", "refresh"))
		a.runAsync("Refresh", func(ctx context.Context) error {
			return a.assistant.ShowLatest(ctx)
		})
	case a.Keys.GenerateReply:
		a.logger.Debug("shortcut", zap.String("key", key), zap.String("action", "generate_reply"), zap.Int("index", index))
		a.runAsync("Generate reply", func(ctx context.Context) error {
			return a.assistant.GenerateReply(ctx, index)
		})
	case a.Keys.SendReply:
		a.logger.Debug("shortcut", zap.String("key", key), zap.String("action", "send_reply"), zap.Int("index", index))
		a.runAsync("Send reply", func(ctx context.Context) error {
			return a.assistant.SendReply(ctx, index)
		})
	case a.Keys.Delete:
		a.logger.Debug("shortcut", zap.String("key", key), zap.String("action", "delete"), zap.Int("index", index))
		a.requestDelete(index)
	case a.Keys.Logout:
		a.logger.Debug("shortcut", zap.String("key", key), zap.String("action", "logout"))
		a.logout()
	case a.Keys.Theme:
		a.openThemePicker()
	case a.Keys.Help:
		a.toggleHelp()
	case a.Keys.Quit:
		a.Stop()
	default:
		return false
	}
	return true
}

// requestDelete asks for confirmation in the chat and moves focus to the input
func (a *App) requestDelete(index int) {
	if index < 0 {
		go a.errorHandler.ShowWarning(a.ctx, "Select an email first")
		return
	}
	a.setFocus(focusInput)
	a.runAsync("Delete", func(ctx context.Context) error {
		return a.assistant.RequestDelete(index)
	})
}

// logout ends the backend session and returns to the login page
func (a *App) logout() {
	a.runAsync("Logout", func(ctx context.Context) error {
		err := a.assistant.Logout(ctx)
		if err != nil {
			a.logger.Warn("backend logout failed", zap.Error(err))
		}
		a.showLoginAsync("You have been logged out.")
		return nil
	})
}
