package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ReplyStore persists AI-generated replies so they survive restarts
type ReplyStore struct {
	db *sql.DB
}

// NewReplyStore creates a new reply store from a base store
func NewReplyStore(store *Store) *ReplyStore {
	if store == nil {
		return nil
	}
	return &ReplyStore{db: store.DB()}
}

// SaveReply upserts a reply for (account_email, message_id)
func (rs *ReplyStore) SaveReply(ctx context.Context, accountEmail, messageID, reply string, updatedAt int64) error {
	if rs == nil || rs.db == nil {
		return fmt.Errorf("reply store not initialized")
	}
	if strings.TrimSpace(accountEmail) == "" || strings.TrimSpace(messageID) == "" || strings.TrimSpace(reply) == "" {
		return fmt.Errorf("invalid reply inputs")
	}
	_, err := rs.db.ExecContext(ctx, `INSERT INTO generated_replies(account_email, message_id, reply, updated_at)
VALUES(?,?,?,?)
ON CONFLICT(account_email, message_id) DO UPDATE SET reply=excluded.reply, updated_at=excluded.updated_at;
`, accountEmail, messageID, reply, updatedAt)
	return err
}

// LoadReply returns a stored reply if present
func (rs *ReplyStore) LoadReply(ctx context.Context, accountEmail, messageID string) (string, bool, error) {
	if rs == nil || rs.db == nil {
		return "", false, fmt.Errorf("reply store not initialized")
	}
	var out string
	err := rs.db.QueryRowContext(ctx, `SELECT reply FROM generated_replies WHERE account_email=? AND message_id=?`, accountEmail, messageID).Scan(&out)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// DeleteReply removes a stored reply for (account_email, message_id)
func (rs *ReplyStore) DeleteReply(ctx context.Context, accountEmail, messageID string) error {
	if rs == nil || rs.db == nil {
		return fmt.Errorf("reply store not initialized")
	}
	_, err := rs.db.ExecContext(ctx, `DELETE FROM generated_replies WHERE account_email=? AND message_id=?`, accountEmail, messageID)
	return err
}

// DeleteAccountReplies removes every stored reply of an account
func (rs *ReplyStore) DeleteAccountReplies(ctx context.Context, accountEmail string) error {
	if rs == nil || rs.db == nil {
		return fmt.Errorf("reply store not initialized")
	}
	_, err := rs.db.ExecContext(ctx, `DELETE FROM generated_replies WHERE account_email=?`, accountEmail)
	return err
}
