package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecentStore(t *testing.T, maxLen int) *RecentStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRecentStore(client, maxLen, time.Hour)
}

func TestRecentStore_AppendAndList(t *testing.T) {
	store := newTestRecentStore(t, 10)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Append(ctx, "ACC1", RecentEntry{EventID: "E1", Content: "first", RecordedAt: now}))
	require.NoError(t, store.Append(ctx, "ACC1", RecentEntry{EventID: "E2", Content: "second", RecordedAt: now}))

	entries, err := store.List(ctx, "ACC1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "E1", entries[0].EventID)
	assert.Equal(t, "E2", entries[1].EventID)
	assert.Equal(t, "second", entries[1].Content)
}

func TestRecentStore_TrimsToMaxLen(t *testing.T) {
	store := newTestRecentStore(t, 3)
	ctx := context.Background()

	for _, id := range []string{"E1", "E2", "E3", "E4", "E5"} {
		require.NoError(t, store.Append(ctx, "ACC1", RecentEntry{EventID: id}))
	}

	entries, err := store.List(ctx, "ACC1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "E3", entries[0].EventID, "oldest entries are trimmed away")
	assert.Equal(t, "E5", entries[2].EventID)
}

func TestRecentStore_AccountsAreIsolated(t *testing.T) {
	store := newTestRecentStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "ACC1", RecentEntry{EventID: "E1"}))
	require.NoError(t, store.Append(ctx, "ACC2", RecentEntry{EventID: "E2"}))

	entries, err := store.List(ctx, "ACC1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "E1", entries[0].EventID)
}

func TestRecentStore_ListEmptyAccount(t *testing.T) {
	store := newTestRecentStore(t, 10)

	entries, err := store.List(context.Background(), "ACC-NONE", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
