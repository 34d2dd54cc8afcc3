package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/agentic-platform/notifier/internal/decision"
	inats "github.com/agentic-platform/notifier/internal/nats"
)

// jsPublisher is the slice of jetstream.JetStream the publisher needs.
type jsPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher emits decisions and action results to the durable audit stream.
// Decisions are keyed by account id, results by event id, so same-key
// records keep their relative order. Failures are surfaced, never retried
// here.
type Publisher struct {
	js jsPublisher
}

// NewPublisher creates a new audit Publisher.
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishDecision emits one decision record.
func (p *Publisher) PublishDecision(ctx context.Context, d decision.AgentDecision) error {
	subject := fmt.Sprintf("%s.%s", inats.SubjectDecisionPrefix, inats.SubjectToken(d.AccountID))
	return p.publish(ctx, subject, d)
}

// PublishResult emits one per-action result record.
func (p *Publisher) PublishResult(ctx context.Context, r decision.ActionResult) error {
	subject := fmt.Sprintf("%s.%s", inats.SubjectResultPrefix, inats.SubjectToken(r.EventID))
	return p.publish(ctx, subject, r)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling record for %s: %w", subject, err)
	}
	if _, err := p.js.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
