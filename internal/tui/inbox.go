package tui

import (
	"fmt"
	"strings"

	"github.com/ajramos/inboxchat/internal/chat"
	"github.com/ajramos/inboxchat/internal/config"
	"github.com/ajramos/inboxchat/internal/services"
	"github.com/derailed/tview"
)

const (
	emptyInboxHint = `Ask me to "Show my last 5 emails" to populate this list.`
	cardTextWidth  = 90
)

// cardRegion is the TextView region id of the card at index i
func cardRegion(i int) string {
	return fmt.Sprintf("card-%d", i)
}

// renderEmailCard renders one inbox card with tview color tags
func renderEmailCard(e services.EmailView, colors *config.ColorsConfig, sendKey string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s#%d[-]\n", colorTag(colors.Inbox.NumberColor), e.Number)
	fmt.Fprintf(&b, "%s%s[-::-]\n", boldTag(colors.Inbox.SubjectColor),
		tview.Escape(chat.Shorten(chat.SubjectOrDefault(e.Subject), cardTextWidth)))
	fmt.Fprintf(&b, "%s%s[-]\n", colorTag(colors.Inbox.FromColor), tview.Escape(chat.Shorten(e.From, cardTextWidth)))

	if summary := chat.CleanSummary(e.Summary, e.Snippet); summary != "" {
		fmt.Fprintf(&b, "%s%s[-]\n", colorTag(colors.Inbox.SummaryColor), tview.Escape(summary))
	}

	if e.ReplyReady {
		fmt.Fprintf(&b, "%sAI reply ready. Press %s or type \"send reply for email %d\".[-]\n",
			colorTag(colors.Inbox.ReplyReadyColor), tview.Escape(sendKey), e.Number)
	}

	return b.String()
}

// renderInbox renders all cards wrapped in selectable regions
func renderInbox(emails []services.EmailView, colors *config.ColorsConfig, sendKey string) string {
	if len(emails) == 0 {
		return colorTag(colors.Inbox.SummaryColor) + tview.Escape(emptyInboxHint) + "[-]"
	}

	cards := make([]string, 0, len(emails))
	for i, e := range emails {
		cards = append(cards, fmt.Sprintf(`["%s"]%s[""]`, cardRegion(i), renderEmailCard(e, colors, sendKey)))
	}
	return strings.Join(cards, "\n")
}

// inboxTitle is the border title of the inbox pane
func inboxTitle(loading bool, refreshKey string) string {
	if loading {
		return " 📥 Inbox overview · Loading... "
	}
	return fmt.Sprintf(" 📥 Inbox overview · %s Refresh last 5 ", refreshKey)
}

// clampSelection keeps the selected card inside the list
func clampSelection(selected, count int) int {
	if count == 0 {
		return -1
	}
	if selected < 0 {
		return 0
	}
	if selected >= count {
		return count - 1
	}
	return selected
}

// refreshInbox redraws the inbox pane from a snapshot. Must run on the UI goroutine.
func (a *App) refreshInbox(snap services.Snapshot) {
	a.selected = clampSelection(a.selected, len(snap.Emails))

	if a.inbox != nil {
		a.inbox.Clear()
		a.inbox.SetText(renderInbox(snap.Emails, a.colors(), a.Keys.SendReply))
		if a.selected >= 0 {
			a.inbox.Highlight(cardRegion(a.selected))
			a.inbox.ScrollToHighlight()
		} else {
			a.inbox.Highlight()
		}
	}
	if a.inboxFrame != nil {
		a.inboxFrame.SetTitle(inboxTitle(snap.Loading, a.Keys.Refresh))
	}
}

// moveSelection moves the highlighted card by delta
func (a *App) moveSelection(delta int) {
	snap := a.assistant.Snapshot()
	if len(snap.Emails) == 0 {
		return
	}
	a.selected = clampSelection(a.selected+delta, len(snap.Emails))
	a.refreshInbox(snap)
}
