package pipeline

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/agentic-platform/notifier/internal/events"
)

type task struct {
	event events.EnrichedAccountEvent
	done  func()
}

// Dispatcher fans events out to shard workers keyed by account id. Events
// for the same account always land on the same shard, so their relative
// order is preserved; different accounts may proceed concurrently.
type Dispatcher struct {
	shards  []chan task
	handler func(ctx context.Context, ev events.EnrichedAccountEvent)
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with the given shard count and
// per-shard queue size.
func NewDispatcher(shards, buffer int, handler func(ctx context.Context, ev events.EnrichedAccountEvent)) *Dispatcher {
	if shards <= 0 {
		shards = 1
	}
	d := &Dispatcher{
		shards:  make([]chan task, shards),
		handler: handler,
	}
	for i := range d.shards {
		d.shards[i] = make(chan task, buffer)
	}
	return d
}

// Start launches one worker goroutine per shard. Workers run until their
// queue is closed by Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	for _, queue := range d.shards {
		d.wg.Add(1)
		go func(queue chan task) {
			defer d.wg.Done()
			for t := range queue {
				d.handler(ctx, t.event)
				if t.done != nil {
					t.done()
				}
			}
		}(queue)
	}
}

// Dispatch routes an event to its account's shard, blocking when the shard
// queue is full. done, if non-nil, runs after the handler finishes (used to
// ack the inbound message). Must not be called after Stop.
func (d *Dispatcher) Dispatch(ev events.EnrichedAccountEvent, done func()) {
	d.shards[d.shardFor(ev.AccountID)] <- task{event: ev, done: done}
}

// Stop closes all shard queues and waits for in-flight events to drain.
func (d *Dispatcher) Stop() {
	for _, queue := range d.shards {
		close(queue)
	}
	d.wg.Wait()
}

func (d *Dispatcher) shardFor(accountID string) int {
	h := fnv.New32a()
	h.Write([]byte(accountID))
	return int(h.Sum32() % uint32(len(d.shards)))
}
