package backend

import "strings"

// Profile is the signed-in user as reported by /auth/me
type Profile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// DisplayName returns the name, falling back to the email address
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return p.Email
}

// Initial returns the upper-cased first letter used as an avatar placeholder
func (p *Profile) Initial() string {
	name := strings.TrimSpace(p.DisplayName())
	if name == "" {
		return "U"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// Email is a message summary as returned by /gmail/last5
type Email struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Snippet  string `json:"snippet"`
	Body     string `json:"body"`
	Summary  string `json:"summary,omitempty"`
}

// ReplyResult is the response of /gmail/generate-reply/{id}
type ReplyResult struct {
	Reply string `json:"reply"`
	Email Email  `json:"email"`
}

type messagesResponse struct {
	Messages []Email `json:"messages"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type sendReplyRequest struct {
	ReplyText string `json:"reply_text"`
}
