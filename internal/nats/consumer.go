package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Delivery policy for the notifier's event intake. Action execution can
// touch slow transports (SMTP, Slack), so the ack deadline sits well past
// one send attempt, and redelivery of a repeatedly failing message is
// bounded rather than endless.
const (
	// AckWait must exceed the worst-case decide+notify+publish time for
	// one event.
	AckWait = 30 * time.Second

	// MaxDeliver bounds redelivery of messages that keep failing.
	MaxDeliver = 5

	// MaxAckPending caps in-flight unacked events across all shards.
	MaxAckPending = 256
)

// ConsumerManager handles durable consumer creation and retrieval.
type ConsumerManager struct {
	js jetstream.JetStream
}

// NewConsumerManager creates a new ConsumerManager.
func NewConsumerManager(js jetstream.JetStream) *ConsumerManager {
	return &ConsumerManager{js: js}
}

// EnsureConsumer creates or updates a durable consumer on the given stream,
// carrying the delivery policy above. Acking stays explicit: an event is
// acked only after its pipeline pass finishes.
func (cm *ConsumerManager) EnsureConsumer(ctx context.Context, stream, name, filterSubject string) (jetstream.Consumer, error) {
	cfg := jetstream.ConsumerConfig{
		Durable:       name,
		FilterSubject: filterSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       AckWait,
		MaxDeliver:    MaxDeliver,
		MaxAckPending: MaxAckPending,
	}

	consumer, err := cm.js.CreateOrUpdateConsumer(ctx, stream, cfg)
	if err != nil {
		return nil, fmt.Errorf("ensuring consumer %s on %s: %w", name, stream, err)
	}
	return consumer, nil
}
