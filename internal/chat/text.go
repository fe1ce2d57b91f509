package chat

import (
	"fmt"
	"io"
	"strings"

	"github.com/ajramos/inboxchat/internal/backend"
	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
)

const (
	// DefaultShortenWidth is the width summaries are cut to
	DefaultShortenWidth = 140
	subjectWidth        = 70
	fromWidth           = 70
	deleteSubjectWidth  = 60

	aiUnavailablePrefix = "AI summary unavailable (quota or model error). Preview:"
	noSubject           = "(no subject)"
)

// Shorten collapses whitespace and truncates text to max display cells,
// appending "..." when cut
func Shorten(text string, max int) string {
	if text == "" {
		return ""
	}
	t := strings.Join(strings.Fields(text), " ")
	if runewidth.StringWidth(t) > max {
		return runewidth.Truncate(t, max, "") + "..."
	}
	return t
}

// CleanSummary picks the AI summary (or the snippet when missing), rewrites
// the backend's quota fallback prefix and shortens the result
func CleanSummary(summary, snippet string) string {
	if summary == "" && snippet == "" {
		return ""
	}
	base := summary
	if base == "" {
		base = snippet
	}
	base = strings.Replace(base, aiUnavailablePrefix, "Preview:", 1)
	return Shorten(PlainText(base), DefaultShortenWidth)
}

// PlainText strips HTML tags and decodes entities such as &#39; that Gmail
// leaves in snippets
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return b.String()
			}
			return s
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// SubjectOrDefault returns the subject or "(no subject)"
func SubjectOrDefault(subject string) string {
	if subject == "" {
		return noSubject
	}
	return subject
}

const examples = "• Show my last 5 emails\n" +
	"• Generate reply for email 2\n" +
	"• Send reply for email 2\n" +
	"• Delete email 3"

// Greeting is the first assistant message after a successful session check
func Greeting(name string) string {
	return fmt.Sprintf("Hi %s! 👋 I’m your AI email assistant.\n\n", name) +
		"You can ask me things like:\n" + examples
}

// HelpText is the reply to input that matches no command
func HelpText() string {
	return "I didn't quite get that. You can ask me things like:\n" + examples
}

// Canned assistant and user texts
const (
	ShowLatestRequest   = "Show my last 5 emails"
	EmptyInboxText      = "I couldn't find any recent emails in your inbox."
	FetchFailedText     = "I couldn't fetch your emails. Your session might have expired – try logging in again."
	ReplyQuotaText      = "AI reply generation is temporarily unavailable (quota or model error)."
	ReplyFailedText     = "I couldn't generate a reply for that email."
	ReplyMissingText    = "I don't have a generated reply for that email yet. Ask me to generate one first."
	DeleteFailedText    = "I couldn't delete that email."
	DeleteCancelledText = "Okay, I won't delete that email."
	ConfirmPromptText   = `Please answer "yes" or "no" for the delete confirmation.`
	latestHeader        = "Here are your latest 5 emails:\n\n"
)

// FormatEmailList renders the numbered inbox listing posted to the chat
func FormatEmailList(emails []backend.Email) string {
	blocks := make([]string, 0, len(emails))
	for i, m := range emails {
		block := fmt.Sprintf("%d) %s\n   From: %s\n",
			i+1, Shorten(SubjectOrDefault(m.Subject), subjectWidth), Shorten(m.From, fromWidth))
		if summary := CleanSummary(m.Summary, m.Snippet); summary != "" {
			block += "   Summary: " + summary
		}
		blocks = append(blocks, block)
	}
	return latestHeader + strings.Join(blocks, "\n\n")
}

// GenerateRequestText echoes a generate-reply action started outside the chat
func GenerateRequestText(index int) string {
	return fmt.Sprintf("Generate a reply for email %d", index+1)
}

// SuggestedReplyText presents a generated reply
func SuggestedReplyText(index int, reply string) string {
	return fmt.Sprintf("Here's a suggested reply for email %d:\n\n%s\n\n", index+1, reply) +
		fmt.Sprintf("You can send it by saying \"send reply for email %d\".", index+1)
}

// SendRequestText echoes a send-reply action started outside the chat
func SendRequestText(index int) string {
	return fmt.Sprintf("Send the reply for email %d", index+1)
}

// SentText confirms a sent reply
func SentText(index int) string {
	return fmt.Sprintf("✅ Reply for email %d has been sent via Gmail.", index+1)
}

// SendFailedText reports a failed send
func SendFailedText(index int) string {
	return fmt.Sprintf("I couldn't send the reply for email %d.", index+1)
}

// DeletePromptText asks for confirmation before deleting
func DeletePromptText(index int, subject string) string {
	return fmt.Sprintf("Are you sure you want to delete email %d (subject: \"%s\")? Type \"yes\" to confirm or \"no\" to cancel.",
		index+1, Shorten(subject, deleteSubjectWidth))
}

// DeletedText confirms a deletion
func DeletedText(index int) string {
	return fmt.Sprintf("🗑️ Email %d has been deleted from your inbox.", index+1)
}
