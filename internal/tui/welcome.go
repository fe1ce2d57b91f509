package tui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"go.uber.org/zap"
)

const sessionLabel = "Session cookie: "

// getWelcomeShortcuts renders the quick-action chips of the login page
func (a *App) getWelcomeShortcuts() string {
	chips := []string{
		fmt.Sprintf("[%s Open login page]", a.keyOr(a.Keys.Login, "o")),
		"[Enter Paste session]",
		fmt.Sprintf("[%s Retry]", a.keyOr(a.Keys.Refresh, "R")),
		fmt.Sprintf("[%s Quit]", a.keyOr(a.Keys.Quit, "q")),
	}
	return strings.Join(chips, "  ")
}

// buildWelcomeText constructs the login page content using tview color tags
func (a *App) buildWelcomeText(reason string) string {
	c := a.colors()
	var b strings.Builder

	b.WriteString(boldTag(c.Body.AccentColor) + "📨 inboxchat · Chat with your inbox[-::-]\n\n")

	if strings.TrimSpace(reason) != "" {
		b.WriteString(colorTag(c.Status.WarningColor) + tview.Escape(reason) + "[-]\n\n")
	}

	b.WriteString(boldTag(c.Body.FgColor) + "Quick actions:[-::-]  " + tview.Escape(a.getWelcomeShortcuts()) + "\n\n")

	loginURL := ""
	if a.session != nil {
		loginURL = a.session.LoginURL()
	}
	b.WriteString("Sign in with Google to continue:\n")
	b.WriteString("  1. Open " + colorTag(c.Chat.UserColor) + tview.Escape(loginURL) + "[-] in your browser.\n")
	b.WriteString("  2. Copy the value of the \"session\" cookie for the backend.\n")
	b.WriteString("  3. Paste it below and press Enter.\n\n")
	b.WriteString(colorTag(c.Inbox.SummaryColor) +
		"The session is saved to your config file. You can also set INBOXCHAT_SESSION.[-]\n")
	return b.String()
}

// createLoginView builds the not-authenticated page
func (a *App) createLoginView() tview.Primitive {
	text := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	text.SetBackgroundColor(a.bgColor())
	text.SetTextColor(a.fgColor())
	text.SetText(a.buildWelcomeText(""))

	input := tview.NewInputField().
		SetLabel(sessionLabel).
		SetFieldWidth(0).
		SetMaskCharacter('*')
	input.SetPlaceholder("paste the session cookie value")
	input.SetLabelColor(a.colors().Chat.UserColor.Color())
	input.SetFieldBackgroundColor(a.colors().Chat.InputBgColor.Color())
	input.SetFieldTextColor(a.colors().Chat.InputFgColor.Color())
	input.SetBackgroundColor(a.bgColor())
	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			value := strings.TrimSpace(input.GetText())
			if value == "" {
				return
			}
			input.SetText("")
			a.SetFocus(text)
			a.submitSession(value)
		case tcell.KeyEscape:
			a.SetFocus(text)
		}
	})

	frame := a.newFrame(" 🔐 Sign in ")
	frame.AddItem(text, 0, 1, true)
	frame.AddItem(input, 1, 0, false)

	a.loginText = text
	a.loginInput = input
	a.views["loginText"] = text
	a.views["loginInput"] = input

	status := tview.NewTextView().SetDynamicColors(true)
	status.SetBackgroundColor(a.colors().Inbox.SelectedBgColor.Color())
	status.SetText(colorTag(a.colors().Inbox.SummaryColor) + tview.Escape(a.getWelcomeShortcuts()) + "[-]")

	page := tview.NewFlex().SetDirection(tview.FlexRow)
	page.SetBackgroundColor(a.bgColor())
	page.AddItem(frame, 0, 1, true)
	page.AddItem(status, 1, 0, false)
	return page
}

// showLogin switches to the login page. Must run on the UI goroutine.
func (a *App) showLogin(reason string) {
	a.loginReason = reason
	a.selected = -1
	if a.loginText != nil {
		a.loginText.SetText(a.buildWelcomeText(reason))
	}
	a.Pages.SwitchToPage(pageLogin)
	a.currentPage = pageLogin
	if a.loginText != nil {
		a.SetFocus(a.loginText)
	}
}

// showLoginAsync switches to the login page from a worker goroutine
func (a *App) showLoginAsync(reason string) {
	if !a.uiReady.Load() {
		a.showLogin(reason)
		return
	}
	a.QueueUpdateDraw(func() { a.showLogin(reason) })
}

// openLoginPage opens the backend login URL in the system browser
func (a *App) openLoginPage() {
	if a.session == nil || a.browser == nil {
		return
	}
	loginURL := a.session.LoginURL()
	go func() {
		if err := a.browser.OpenURL(a.ctx, loginURL); err != nil {
			a.logger.Warn("failed to open browser", zap.String("url", loginURL), zap.Error(err))
			a.showLoginAsync("Could not open a browser. Visit the URL below manually.")
			return
		}
		a.showLoginAsync("Login page opened in your browser. Paste the session below when done.")
	}()
}

// submitSession stores a pasted session cookie and checks it against the backend
func (a *App) submitSession(value string) {
	if a.session != nil {
		a.session.SetSession(value)
	}
	if a.cfgManager != nil {
		go func() {
			if err := a.cfgManager.SetSessionCookie(value); err != nil {
				a.logger.Warn("failed to persist session", zap.Error(err))
				a.errorHandler.ShowWarning(a.ctx, "Session not saved to config")
			}
		}()
	}
	a.bootstrap()
}
