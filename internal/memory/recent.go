package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecentStore keeps the last few remembered contents per account in a Redis
// list with a TTL. It backs the recall debug endpoint; the pgvector store
// remains the durable memory.
type RecentStore struct {
	client *redis.Client
	maxLen int
	ttl    time.Duration
}

// NewRecentStore creates a recent-activity store trimming each account list
// to maxLen entries that expire after ttl.
func NewRecentStore(client *redis.Client, maxLen int, ttl time.Duration) *RecentStore {
	return &RecentStore{client: client, maxLen: maxLen, ttl: ttl}
}

func recentKey(accountID string) string {
	return "recent:" + accountID
}

// Append adds an entry to the account's list and trims it to maxLen.
func (s *RecentStore) Append(ctx context.Context, accountID string, entry RecentEntry) error {
	key := recentKey(accountID)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling recent entry: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, string(data))
	pipe.LTrim(ctx, key, int64(-s.maxLen), -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec for %s: %w", key, err)
	}
	return nil
}

// List returns up to limit entries for the account, oldest first.
func (s *RecentStore) List(ctx context.Context, accountID string, limit int) ([]RecentEntry, error) {
	if limit <= 0 {
		limit = s.maxLen
	}
	key := recentKey(accountID)

	vals, err := s.client.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}

	entries := make([]RecentEntry, 0, len(vals))
	for _, v := range vals {
		var entry RecentEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			continue // skip malformed entries
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
