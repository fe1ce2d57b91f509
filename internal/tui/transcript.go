package tui

import (
	"strings"

	"github.com/ajramos/inboxchat/internal/chat"
	"github.com/ajramos/inboxchat/internal/config"
	"github.com/ajramos/inboxchat/internal/services"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const inputPlaceholder = `Try: "Show my last 5 emails" or "Delete email 2"`

// renderMessage renders one chat bubble: a speaker line then the indented text
func renderMessage(m chat.Message, colors *config.ColorsConfig) string {
	var b strings.Builder
	if m.IsUser() {
		b.WriteString(boldTag(colors.Chat.UserColor) + "You[-::-]\n")
	} else {
		b.WriteString(boldTag(colors.Chat.AssistantColor) + "Assistant[-::-]\n")
	}

	color := colors.Chat.AssistantColor
	if m.IsUser() {
		color = colors.Chat.UserColor
	}
	b.WriteString(colorTag(color))
	for i, line := range strings.Split(m.Text, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  ")
		b.WriteString(tview.Escape(line))
	}
	b.WriteString("[-]\n")
	return b.String()
}

// renderTranscript renders the whole conversation
func renderTranscript(msgs []chat.Message, colors *config.ColorsConfig) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, renderMessage(m, colors))
	}
	return strings.Join(parts, "\n")
}

// chatTitle is the border title of the chat pane
func chatTitle(pendingDelete int, colors *config.ColorsConfig) string {
	if pendingDelete >= 0 {
		return " 💬 Chatbot · awaiting yes/no "
	}
	return " 💬 Chatbot · " + colorTag(colors.Chat.ConnectedColor) + "● Connected[-] "
}

// refreshTranscript redraws the chat pane from a snapshot. Must run on the UI goroutine.
func (a *App) refreshTranscript(snap services.Snapshot) {
	if a.transcript != nil {
		a.transcript.Clear()
		a.transcript.SetText(renderTranscript(snap.Transcript, a.colors()))
		a.transcript.ScrollToEnd()
	}
	if a.chatFrame != nil {
		a.chatFrame.SetTitle(chatTitle(snap.PendingDelete, a.colors()))
	}
}

// newChatInput builds the chat input field
func (a *App) newChatInput() *tview.InputField {
	c := a.colors()
	input := tview.NewInputField().
		SetLabel("› ").
		SetFieldWidth(0)
	input.SetPlaceholder(inputPlaceholder)
	input.SetLabelColor(c.Chat.UserColor.Color())
	input.SetFieldBackgroundColor(c.Chat.InputBgColor.Color())
	input.SetFieldTextColor(c.Chat.InputFgColor.Color())
	input.SetPlaceholderTextColor(c.Inbox.SummaryColor.Color())
	input.SetBackgroundColor(a.bgColor())

	input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := strings.TrimSpace(input.GetText())
		if text == "" {
			return
		}
		input.SetText("")
		a.submitInput(text)
	})
	return input
}

// submitInput queues typed text for the chat worker
func (a *App) submitInput(text string) {
	select {
	case a.chatQueue <- text:
	default:
		go a.errorHandler.ShowWarning(a.ctx, "Still working on your previous messages")
	}
}
