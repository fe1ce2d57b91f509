package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ajramos/inboxchat/internal/db"
)

// ReplyCacheServiceImpl implements ReplyCacheService
type ReplyCacheServiceImpl struct {
	store *db.ReplyStore
}

// NewReplyCacheService creates a new reply cache service
func NewReplyCacheService(store *db.ReplyStore) *ReplyCacheServiceImpl {
	return &ReplyCacheServiceImpl{
		store: store,
	}
}

func (s *ReplyCacheServiceImpl) GetReply(ctx context.Context, accountEmail, messageID string) (string, bool, error) {
	if s.store == nil {
		return "", false, fmt.Errorf("reply store not available: %w", ErrStoreUnavailable)
	}

	if strings.TrimSpace(accountEmail) == "" || strings.TrimSpace(messageID) == "" {
		return "", false, fmt.Errorf("accountEmail and messageID cannot be empty")
	}

	reply, found, err := s.store.LoadReply(ctx, accountEmail, messageID)
	if err != nil {
		return "", false, fmt.Errorf("failed to load reply from cache: %w", err)
	}

	return reply, found, nil
}

func (s *ReplyCacheServiceImpl) SaveReply(ctx context.Context, accountEmail, messageID, reply string) error {
	if s.store == nil {
		return fmt.Errorf("reply store not available: %w", ErrStoreUnavailable)
	}

	if strings.TrimSpace(accountEmail) == "" || strings.TrimSpace(messageID) == "" || strings.TrimSpace(reply) == "" {
		return fmt.Errorf("accountEmail, messageID, and reply cannot be empty")
	}

	if err := s.store.SaveReply(ctx, accountEmail, messageID, reply, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save reply to cache: %w", err)
	}

	return nil
}

func (s *ReplyCacheServiceImpl) InvalidateReply(ctx context.Context, accountEmail, messageID string) error {
	if s.store == nil {
		return fmt.Errorf("reply store not available: %w", ErrStoreUnavailable)
	}

	if strings.TrimSpace(accountEmail) == "" || strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("accountEmail and messageID cannot be empty")
	}

	if err := s.store.DeleteReply(ctx, accountEmail, messageID); err != nil {
		return fmt.Errorf("failed to invalidate reply: %w", err)
	}

	return nil
}

func (s *ReplyCacheServiceImpl) ClearCache(ctx context.Context, accountEmail string) error {
	if s.store == nil {
		return fmt.Errorf("reply store not available: %w", ErrStoreUnavailable)
	}

	if strings.TrimSpace(accountEmail) == "" {
		return fmt.Errorf("accountEmail cannot be empty")
	}

	if err := s.store.DeleteAccountReplies(ctx, accountEmail); err != nil {
		return fmt.Errorf("failed to clear reply cache: %w", err)
	}

	return nil
}
