package db

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReplyStore(t *testing.T) {
	assert.Nil(t, NewReplyStore(nil))

	store := openTestStore(t)
	rs := NewReplyStore(store)
	require.NotNil(t, rs)
	assert.Equal(t, store.DB(), rs.db)
}

func TestReplyStore_NotInitialized(t *testing.T) {
	ctx := context.Background()
	var rs *ReplyStore

	assert.ErrorContains(t, rs.SaveReply(ctx, "a", "b", "c", 1), "reply store not initialized")
	_, _, err := rs.LoadReply(ctx, "a", "b")
	assert.ErrorContains(t, err, "reply store not initialized")
	assert.ErrorContains(t, rs.DeleteReply(ctx, "a", "b"), "reply store not initialized")
	assert.ErrorContains(t, (&ReplyStore{}).DeleteAccountReplies(ctx, "a"), "reply store not initialized")
}

func TestReplyStore_SaveReply_ValidationErrors(t *testing.T) {
	rs := NewReplyStore(openTestStore(t))
	ctx := context.Background()

	tests := []struct {
		name    string
		account string
		message string
		reply   string
	}{
		{"empty_account", "", "m1", "r"},
		{"empty_message", "a@b.c", "", "r"},
		{"empty_reply", "a@b.c", "m1", ""},
		{"whitespace_reply", "a@b.c", "m1", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rs.SaveReply(ctx, tt.account, tt.message, tt.reply, 1)
			assert.ErrorContains(t, err, "invalid reply inputs")
		})
	}
}

func TestReplyStore_RoundTrip(t *testing.T) {
	rs := NewReplyStore(openTestStore(t))
	ctx := context.Background()

	_, found, err := rs.LoadReply(ctx, "a@b.c", "m1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, rs.SaveReply(ctx, "a@b.c", "m1", "first", 1))
	require.NoError(t, rs.SaveReply(ctx, "a@b.c", "m1", "second", 2))

	reply, found, err := rs.LoadReply(ctx, "a@b.c", "m1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", reply)

	require.NoError(t, rs.DeleteReply(ctx, "a@b.c", "m1"))
	_, found, err = rs.LoadReply(ctx, "a@b.c", "m1")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting a missing reply is not an error
	assert.NoError(t, rs.DeleteReply(ctx, "a@b.c", "missing"))
}

func TestReplyStore_AccountIsolation(t *testing.T) {
	rs := NewReplyStore(openTestStore(t))
	ctx := context.Background()

	require.NoError(t, rs.SaveReply(ctx, "one@b.c", "m1", "for one", 1))
	require.NoError(t, rs.SaveReply(ctx, "two@b.c", "m1", "for two", 1))

	reply, _, err := rs.LoadReply(ctx, "two@b.c", "m1")
	require.NoError(t, err)
	assert.Equal(t, "for two", reply)

	require.NoError(t, rs.DeleteAccountReplies(ctx, "one@b.c"))
	_, found, err := rs.LoadReply(ctx, "one@b.c", "m1")
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = rs.LoadReply(ctx, "two@b.c", "m1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestReplyStore_ConcurrentOperations(t *testing.T) {
	rs := NewReplyStore(openTestStore(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = rs.SaveReply(ctx, "a@b.c", "m1", "reply", int64(i))
			_, _, _ = rs.LoadReply(ctx, "a@b.c", "m1")
		}(i)
	}
	wg.Wait()

	reply, found, err := rs.LoadReply(ctx, "a@b.c", "m1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "reply", reply)
}
