package tui

import (
	"fmt"
	"strings"

	"github.com/derailed/tview"
)

// generateHelpText lists the shortcuts and the chat commands
func (a *App) generateHelpText() string {
	c := a.colors()
	var help strings.Builder

	section := func(title string) {
		help.WriteString("\n" + boldTag(c.Body.AccentColor) + title + "[-::-]\n")
	}
	line := func(key, desc string) {
		help.WriteString(fmt.Sprintf("  %s%-8s[-] %s\n", colorTag(c.Chat.UserColor), tview.Escape(key), desc))
	}

	help.WriteString(boldTag(c.Frame.Title.FgColor) + "📚 Help & Shortcuts[-::-]\n")

	section("Inbox")
	line("↑/k", "Previous email")
	line("↓/j", "Next email")
	line(a.keyOr(a.Keys.Refresh, "R"), "Refresh the last 5 emails")
	line(a.keyOr(a.Keys.GenerateReply, "g"), "Generate an AI reply for the selected email")
	line(a.keyOr(a.Keys.SendReply, "s"), "Send the generated reply")
	line(a.keyOr(a.Keys.Delete, "d"), "Delete the selected email (confirm in chat)")
	line("Enter", "Jump to the chat input")

	section("Chat")
	line("Enter", "Send the message")
	line("Esc", "Back to the inbox")
	line("Tab", "Switch focus between inbox and chat")

	section("Session")
	line(a.keyOr(a.Keys.Logout, "L"), "Log out")
	line(a.keyOr(a.Keys.Theme, "t"), "Pick a theme")
	line(a.keyOr(a.Keys.Help, "?"), "Toggle this help")
	line(a.keyOr(a.Keys.Quit, "q"), "Quit")

	section("Things you can type")
	for _, ex := range []string{
		"Show my last 5 emails",
		"Generate reply for email 1",
		"Send reply for email 1",
		"Delete email 2",
		"yes / no (answer a delete confirmation)",
	} {
		help.WriteString("  • " + tview.Escape(ex) + "\n")
	}

	help.WriteString("\n" + colorTag(c.Inbox.SummaryColor) + "Press Esc or " + tview.Escape(a.keyOr(a.Keys.Help, "?")) + " to close.[-]\n")
	return help.String()
}

// createHelpView builds the help page
func (a *App) createHelpView() tview.Primitive {
	text := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetScrollable(true)
	text.SetBackgroundColor(a.bgColor())
	text.SetTextColor(a.fgColor())
	text.SetText(a.generateHelpText())

	frame := a.newFrame(" 📚 Help ")
	frame.AddItem(text, 0, 1, true)
	a.views["help"] = text
	return frame
}

// toggleHelp shows the help page or returns to the page it was opened from
func (a *App) toggleHelp() {
	if a.currentPage == pageHelp {
		prev := a.previousPage
		if prev == "" {
			prev = pageMain
		}
		a.Pages.SwitchToPage(prev)
		a.currentPage = prev
		if prev == pageMain {
			a.setFocus(a.currentFocus)
		} else if a.loginText != nil {
			a.SetFocus(a.loginText)
		}
		return
	}

	a.previousPage = a.currentPage
	a.Pages.SwitchToPage(pageHelp)
	a.currentPage = pageHelp
	if v, ok := a.views["help"]; ok {
		a.SetFocus(v)
	}
}
