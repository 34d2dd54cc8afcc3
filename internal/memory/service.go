package memory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agentic-platform/notifier/internal/metrics"
)

// Service orchestrates embedding and store access for per-account semantic
// memory. When administratively disabled, Remember is a no-op and
// RecallSimilar returns an empty result.
type Service struct {
	store    Store
	embedder Embedder
	recent   *RecentStore
	enabled  bool
	topK     int
}

// NewService creates a memory service. recent may be nil when no Redis
// recent-activity store is configured.
func NewService(store Store, embedder Embedder, recent *RecentStore, enabled bool, topK int) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{
		store:    store,
		embedder: embedder,
		recent:   recent,
		enabled:  enabled,
		topK:     topK,
	}
}

// Enabled reports whether memory is administratively enabled.
func (s *Service) Enabled() bool {
	return s.enabled
}

// Remember embeds content and appends it to the account's memory. Embedding
// failures propagate; nothing is stored with a missing vector.
func (s *Service) Remember(ctx context.Context, accountID, eventID, content string) error {
	if !s.enabled {
		return nil
	}

	vec, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embedding memory content: %w", err)
	}

	rec := &Record{
		AccountID: accountID,
		EventID:   eventID,
		Content:   content,
		Embedding: vec,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return err
	}
	metrics.MemoryInsertsTotal.Inc()

	if s.recent != nil {
		if err := s.recent.Append(ctx, accountID, RecentEntry{
			EventID:    eventID,
			Content:    content,
			RecordedAt: rec.CreatedAt,
		}); err != nil {
			// The vector store is the source of truth; the recent list is
			// best-effort.
			slog.Warn("memory: appending recent entry", "error", err, "account_id", accountID)
		}
	}
	return nil
}

// RecallSimilar embeds the query text and returns the nearest hits for the
// account, excluding excludeEventID when non-empty. topK<=0 falls back to
// the configured default.
func (s *Service) RecallSimilar(ctx context.Context, accountID, excludeEventID, queryText string, topK int) ([]Hit, error) {
	if !s.enabled {
		return nil, nil
	}
	if topK <= 0 {
		topK = s.topK
	}

	vec, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding recall query: %w", err)
	}

	metrics.MemorySearchesTotal.Inc()
	return s.store.Search(ctx, accountID, excludeEventID, vec, topK)
}

// Recent returns the account's most recently remembered entries, newest
// last. Empty when memory or the recent store is disabled.
func (s *Service) Recent(ctx context.Context, accountID string, limit int) ([]RecentEntry, error) {
	if !s.enabled || s.recent == nil {
		return nil, nil
	}
	return s.recent.List(ctx, accountID, limit)
}
