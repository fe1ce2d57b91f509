package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ajramos/inboxchat/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReplyCache(t *testing.T) *ReplyCacheServiceImpl {
	t.Helper()
	store, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "cache.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewReplyCacheService(db.NewReplyStore(store))
}

func TestNewReplyCacheService_NilStore(t *testing.T) {
	service := NewReplyCacheService(nil)
	assert.NotNil(t, service)
	assert.Nil(t, service.store)
}

func TestReplyCacheService_NilStore(t *testing.T) {
	service := NewReplyCacheService(nil)
	ctx := context.Background()

	reply, found, err := service.GetReply(ctx, "test@example.com", "msg123")
	assert.Equal(t, "", reply)
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "reply store not available")

	assert.ErrorIs(t, service.SaveReply(ctx, "test@example.com", "msg123", "hi"), ErrStoreUnavailable)
	assert.ErrorIs(t, service.InvalidateReply(ctx, "test@example.com", "msg123"), ErrStoreUnavailable)
	assert.ErrorIs(t, service.ClearCache(ctx, "test@example.com"), ErrStoreUnavailable)
}

func TestReplyCacheService_GetReply_ValidationErrors(t *testing.T) {
	service := newTestReplyCache(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		accountEmail string
		messageID    string
	}{
		{name: "empty_account_email", accountEmail: "", messageID: "msg123"},
		{name: "empty_message_id", accountEmail: "test@example.com", messageID: ""},
		{name: "whitespace_only_account_email", accountEmail: "   ", messageID: "msg123"},
		{name: "whitespace_only_message_id", accountEmail: "test@example.com", messageID: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, found, err := service.GetReply(ctx, tt.accountEmail, tt.messageID)
			assert.False(t, found)
			assert.EqualError(t, err, "accountEmail and messageID cannot be empty")
		})
	}
}

func TestReplyCacheService_SaveReply_ValidationErrors(t *testing.T) {
	service := newTestReplyCache(t)
	ctx := context.Background()

	err := service.SaveReply(ctx, "test@example.com", "msg123", "  ")
	assert.EqualError(t, err, "accountEmail, messageID, and reply cannot be empty")

	err = service.SaveReply(ctx, "", "msg123", "Thanks!")
	assert.EqualError(t, err, "accountEmail, messageID, and reply cannot be empty")
}

func TestReplyCacheService_RoundTrip(t *testing.T) {
	service := newTestReplyCache(t)
	ctx := context.Background()

	_, found, err := service.GetReply(ctx, "a@example.com", "m1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, service.SaveReply(ctx, "a@example.com", "m1", "Thanks, see you Monday."))
	require.NoError(t, service.SaveReply(ctx, "a@example.com", "m1", "Thanks, see you Tuesday."))

	reply, found, err := service.GetReply(ctx, "a@example.com", "m1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Thanks, see you Tuesday.", reply)

	// other accounts do not see it
	_, found, err = service.GetReply(ctx, "b@example.com", "m1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, service.InvalidateReply(ctx, "a@example.com", "m1"))
	_, found, err = service.GetReply(ctx, "a@example.com", "m1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReplyCacheService_ClearCache(t *testing.T) {
	service := newTestReplyCache(t)
	ctx := context.Background()

	require.NoError(t, service.SaveReply(ctx, "a@example.com", "m1", "one"))
	require.NoError(t, service.SaveReply(ctx, "a@example.com", "m2", "two"))
	require.NoError(t, service.SaveReply(ctx, "b@example.com", "m1", "other"))

	require.NoError(t, service.ClearCache(ctx, "a@example.com"))

	_, found, _ := service.GetReply(ctx, "a@example.com", "m2")
	assert.False(t, found)
	reply, found, _ := service.GetReply(ctx, "b@example.com", "m1")
	assert.True(t, found)
	assert.Equal(t, "other", reply)

	assert.EqualError(t, service.ClearCache(ctx, " "), "accountEmail cannot be empty")
}
