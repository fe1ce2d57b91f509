package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// HistoryRecord is a persisted chat message
type HistoryRecord struct {
	ID           string
	AccountEmail string
	Sender       string
	Body         string
	CreatedAt    int64 // unix milliseconds
}

// DefaultHistoryRetention is how many messages per account Append keeps
const DefaultHistoryRetention = 500

// HistoryStore persists the chat transcript per account
type HistoryStore struct {
	db     *sql.DB
	retain int
}

// NewHistoryStore creates a new history store from a base store
func NewHistoryStore(store *Store) *HistoryStore {
	if store == nil {
		return nil
	}
	return &HistoryStore{db: store.DB(), retain: DefaultHistoryRetention}
}

// SetRetention changes how many of an account's newest messages are kept.
// Values below 1 are ignored.
func (hs *HistoryStore) SetRetention(n int) {
	if hs != nil && n > 0 {
		hs.retain = n
	}
}

// Append stores a chat message and drops the account's messages beyond the
// retention limit. Re-appending the same ID is a no-op.
func (hs *HistoryStore) Append(ctx context.Context, rec HistoryRecord) error {
	if hs == nil || hs.db == nil {
		return fmt.Errorf("history store not initialized")
	}
	if strings.TrimSpace(rec.ID) == "" || strings.TrimSpace(rec.AccountEmail) == "" || strings.TrimSpace(rec.Sender) == "" {
		return fmt.Errorf("invalid history record")
	}
	_, err := hs.db.ExecContext(ctx, `INSERT OR IGNORE INTO chat_messages(id, account_email, sender, body, created_at)
VALUES(?,?,?,?,?)`, rec.ID, rec.AccountEmail, rec.Sender, rec.Body, rec.CreatedAt)
	if err != nil {
		return err
	}
	return hs.trim(ctx, rec.AccountEmail)
}

// trim deletes everything but the newest retain messages of an account
func (hs *HistoryStore) trim(ctx context.Context, accountEmail string) error {
	if hs.retain <= 0 {
		return nil
	}
	_, err := hs.db.ExecContext(ctx, `DELETE FROM chat_messages
WHERE account_email=? AND rowid NOT IN (
  SELECT rowid FROM chat_messages
  WHERE account_email=?
  ORDER BY created_at DESC, rowid DESC
  LIMIT ?
)`, accountEmail, accountEmail, hs.retain)
	if err != nil {
		return fmt.Errorf("trim chat history: %w", err)
	}
	return nil
}

// Recent returns up to limit most recent messages of an account, oldest first
func (hs *HistoryStore) Recent(ctx context.Context, accountEmail string, limit int) ([]HistoryRecord, error) {
	if hs == nil || hs.db == nil {
		return nil, fmt.Errorf("history store not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := hs.db.QueryContext(ctx, `SELECT id, account_email, sender, body, created_at FROM (
  SELECT id, account_email, sender, body, created_at, rowid FROM chat_messages
  WHERE account_email=?
  ORDER BY created_at DESC, rowid DESC
  LIMIT ?
) ORDER BY created_at ASC, rowid ASC`, accountEmail, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var r HistoryRecord
		if err := rows.Scan(&r.ID, &r.AccountEmail, &r.Sender, &r.Body, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Clear deletes an account's transcript
func (hs *HistoryStore) Clear(ctx context.Context, accountEmail string) error {
	if hs == nil || hs.db == nil {
		return fmt.Errorf("history store not initialized")
	}
	_, err := hs.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE account_email=?`, accountEmail)
	return err
}
