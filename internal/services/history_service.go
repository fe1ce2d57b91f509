package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ajramos/inboxchat/internal/chat"
	"github.com/ajramos/inboxchat/internal/db"
)

// HistoryServiceImpl implements HistoryService on top of the SQLite store
type HistoryServiceImpl struct {
	store *db.HistoryStore
}

// NewHistoryService creates a new history service
func NewHistoryService(store *db.HistoryStore) *HistoryServiceImpl {
	return &HistoryServiceImpl{store: store}
}

func (s *HistoryServiceImpl) Append(ctx context.Context, accountEmail string, msg chat.Message) error {
	if s.store == nil {
		return fmt.Errorf("history store not available: %w", ErrStoreUnavailable)
	}
	if strings.TrimSpace(accountEmail) == "" {
		return fmt.Errorf("accountEmail cannot be empty")
	}
	at := msg.At
	if at.IsZero() {
		at = time.Now()
	}
	return s.store.Append(ctx, db.HistoryRecord{
		ID:           msg.ID,
		AccountEmail: accountEmail,
		Sender:       string(msg.From),
		Body:         msg.Text,
		CreatedAt:    at.UnixMilli(),
	})
}

func (s *HistoryServiceImpl) Recent(ctx context.Context, accountEmail string, limit int) ([]chat.Message, error) {
	if s.store == nil {
		return nil, fmt.Errorf("history store not available: %w", ErrStoreUnavailable)
	}
	if strings.TrimSpace(accountEmail) == "" {
		return nil, fmt.Errorf("accountEmail cannot be empty")
	}
	recs, err := s.store.Recent(ctx, accountEmail, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	out := make([]chat.Message, 0, len(recs))
	for _, r := range recs {
		out = append(out, chat.Message{
			ID:   r.ID,
			From: chat.Sender(r.Sender),
			Text: r.Body,
			At:   time.UnixMilli(r.CreatedAt),
		})
	}
	return out, nil
}

func (s *HistoryServiceImpl) Clear(ctx context.Context, accountEmail string) error {
	if s.store == nil {
		return fmt.Errorf("history store not available: %w", ErrStoreUnavailable)
	}
	if strings.TrimSpace(accountEmail) == "" {
		return fmt.Errorf("accountEmail cannot be empty")
	}
	return s.store.Clear(ctx, accountEmail)
}
