package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/agentic-platform/notifier/internal/events"
	"github.com/agentic-platform/notifier/internal/metrics"
	inats "github.com/agentic-platform/notifier/internal/nats"
)

// ConsumerName is the durable consumer for the enriched-events stream.
const ConsumerName = "agentic-notifier"

// Consumer is the subscribe loop for inbound enriched events. It fetches
// from the durable JetStream consumer and hands each event to the
// dispatcher; messages are acked only after the pipeline has processed
// them, giving at-least-once delivery.
type Consumer struct {
	consumerMgr *inats.ConsumerManager
	dispatcher  *Dispatcher
}

// NewConsumer creates a Consumer feeding the given dispatcher.
func NewConsumer(consumerMgr *inats.ConsumerManager, dispatcher *Dispatcher) *Consumer {
	return &Consumer{
		consumerMgr: consumerMgr,
		dispatcher:  dispatcher,
	}
}

// Start begins the consume loop. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	consumer, err := c.consumerMgr.EnsureConsumer(ctx, inats.StreamEvents, ConsumerName, inats.SubjectEnrichedAll)
	if err != nil {
		return err
	}

	slog.Info("event consumer started", "consumer", ConsumerName)

	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(inats.FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("fetching enriched events", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			c.handleMessage(msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) handleMessage(msg jetstream.Msg) {
	var ev events.EnrichedAccountEvent
	if err := json.Unmarshal(msg.Data(), &ev); err != nil {
		// A payload that does not parse will not parse on redelivery
		// either; terminate it instead of requeueing.
		slog.Error("unmarshaling enriched event, terminating message", "error", err, "subject", msg.Subject())
		_ = msg.Term()
		return
	}

	metrics.EventsConsumedTotal.Inc()
	c.dispatcher.Dispatch(ev, func() {
		_ = msg.Ack()
	})
}
