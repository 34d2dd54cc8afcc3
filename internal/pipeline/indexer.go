package pipeline

import (
	"context"
	"log/slog"

	"github.com/agentic-platform/notifier/internal/events"
)

// Rememberer appends account activity to the semantic memory.
type Rememberer interface {
	Remember(ctx context.Context, accountID, eventID, content string) error
}

// Indexer feeds event summaries into memory off the decision path. Memory
// is a side channel: a slow or failing embedding provider must never hold
// up decision throughput, so enqueueing never blocks and drops on overflow.
type Indexer struct {
	mem   Rememberer
	queue chan events.EnrichedAccountEvent
}

// NewIndexer creates an Indexer with the given queue capacity.
func NewIndexer(mem Rememberer, buffer int) *Indexer {
	if buffer <= 0 {
		buffer = 256
	}
	return &Indexer{
		mem:   mem,
		queue: make(chan events.EnrichedAccountEvent, buffer),
	}
}

// Start drains the queue until ctx is cancelled.
func (ix *Indexer) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ix.queue:
			if err := ix.mem.Remember(ctx, ev.AccountID, ev.EventID, ev.Summary); err != nil {
				slog.Warn("indexing event summary", "error", err, "event_id", ev.EventID, "account_id", ev.AccountID)
			}
		}
	}
}

// Enqueue offers an event for indexing. Events without a summary carry
// nothing worth embedding and are skipped.
func (ix *Indexer) Enqueue(ev events.EnrichedAccountEvent) {
	if ev.Summary == "" {
		return
	}
	select {
	case ix.queue <- ev:
	default:
		slog.Warn("memory index queue full, dropping event", "event_id", ev.EventID)
	}
}
