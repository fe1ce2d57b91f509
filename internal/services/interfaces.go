package services

import (
	"context"

	"github.com/ajramos/inboxchat/internal/backend"
	"github.com/ajramos/inboxchat/internal/chat"
)

// EmailBackend is the remote assistant API
type EmailBackend interface {
	Me(ctx context.Context) (*backend.Profile, error)
	LatestEmails(ctx context.Context) ([]backend.Email, error)
	GenerateReply(ctx context.Context, messageID string) (*backend.ReplyResult, error)
	SendReply(ctx context.Context, messageID, replyText string) error
	DeleteEmail(ctx context.Context, messageID string) error
	Logout(ctx context.Context) error
}

// ReplyCacheService persists generated replies per account
type ReplyCacheService interface {
	GetReply(ctx context.Context, accountEmail, messageID string) (string, bool, error)
	SaveReply(ctx context.Context, accountEmail, messageID, reply string) error
	InvalidateReply(ctx context.Context, accountEmail, messageID string) error
	ClearCache(ctx context.Context, accountEmail string) error
}

// HistoryService persists the chat transcript per account
type HistoryService interface {
	Append(ctx context.Context, accountEmail string, msg chat.Message) error
	Recent(ctx context.Context, accountEmail string, limit int) ([]chat.Message, error)
	Clear(ctx context.Context, accountEmail string) error
}

// AssistantService drives the chat session: command dispatch, the email
// list, generated replies and the pending delete confirmation
type AssistantService interface {
	Bootstrap(ctx context.Context) (*backend.Profile, error)
	HandleInput(ctx context.Context, text string) error
	ShowLatest(ctx context.Context) error
	GenerateReply(ctx context.Context, index int) error
	SendReply(ctx context.Context, index int) error
	RequestDelete(index int) error
	ConfirmDelete(ctx context.Context) error
	CancelDelete()
	Logout(ctx context.Context) error

	Snapshot() Snapshot
	Reply(index int) (string, bool)
	OnChange(fn func())
}

// EmailView is an email plus UI state derived by the assistant
type EmailView struct {
	backend.Email
	Number     int // 1-based position shown to the user
	ReplyReady bool
}

// Snapshot is a consistent copy of the assistant state for rendering
type Snapshot struct {
	Profile       *backend.Profile
	Emails        []EmailView
	Transcript    []chat.Message
	Loading       bool
	PendingDelete int // -1 when nothing awaits confirmation
	PendingReply  int // -1 when no reply was generated yet
}

// BrowserService opens URLs in the system browser
type BrowserService interface {
	OpenURL(ctx context.Context, rawURL string) error
}
