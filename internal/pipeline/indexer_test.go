package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-platform/notifier/internal/events"
)

type fakeRememberer struct {
	mu       sync.Mutex
	contents []string
	err      error
}

func (f *fakeRememberer) Remember(_ context.Context, _, _, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.contents = append(f.contents, content)
	return nil
}

func (f *fakeRememberer) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.contents...)
}

func TestIndexer_RemembersSummaries(t *testing.T) {
	mem := &fakeRememberer{}
	ix := NewIndexer(mem, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ix.Start(ctx)

	ix.Enqueue(events.EnrichedAccountEvent{AccountID: "ACC1", EventID: "E1", Summary: "wire transfer"})
	ix.Enqueue(events.EnrichedAccountEvent{AccountID: "ACC1", EventID: "E2", Summary: "card payment"})

	require.Eventually(t, func() bool {
		return len(mem.snapshot()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"wire transfer", "card payment"}, mem.snapshot())
}

func TestIndexer_SkipsEmptySummaries(t *testing.T) {
	mem := &fakeRememberer{}
	ix := NewIndexer(mem, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ix.Start(ctx)

	ix.Enqueue(events.EnrichedAccountEvent{AccountID: "ACC1", EventID: "E1"})
	ix.Enqueue(events.EnrichedAccountEvent{AccountID: "ACC1", EventID: "E2", Summary: "kept"})

	require.Eventually(t, func() bool {
		return len(mem.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"kept"}, mem.snapshot())
}

func TestIndexer_MemoryFailureDoesNotPanic(t *testing.T) {
	mem := &fakeRememberer{err: errors.New("embedding service returned no vectors")}
	ix := NewIndexer(mem, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ix.Start(ctx)

	ix.Enqueue(events.EnrichedAccountEvent{AccountID: "ACC1", EventID: "E1", Summary: "anything"})

	// The failure is logged and swallowed; the indexer keeps running.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, mem.snapshot())
}

func TestIndexer_EnqueueNeverBlocksWhenFull(t *testing.T) {
	mem := &fakeRememberer{}
	ix := NewIndexer(mem, 1)
	// Not started: the queue fills up and further enqueues must drop
	// instead of blocking the caller.

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			ix.Enqueue(events.EnrichedAccountEvent{AccountID: "ACC1", EventID: "E", Summary: "s"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}
