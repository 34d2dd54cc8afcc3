package executor

import (
	"context"
	"fmt"

	"github.com/agentic-platform/notifier/internal/decision"
	"github.com/agentic-platform/notifier/internal/events"
)

const defaultSubject = "Agentic notification"

// UnsupportedActionError signals a configuration or versioning mismatch
// between the decision engine and the executor. It is fatal to the single
// action that raised it, never to the pipeline.
type UnsupportedActionError struct {
	Type decision.ActionType
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("action not supported: %s", e.Type)
}

// Notifier delivers a rendered notification over some transport.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// Executor dispatches decided actions to their side effects.
type Executor struct {
	email Notifier
	slack Notifier
}

// New creates an Executor. slack may be nil when no Slack transport is
// configured; executing NOTIFY_SLACK then fails like an unknown action.
func New(email, slack Notifier) *Executor {
	return &Executor{email: email, slack: slack}
}

// NewForChannel creates an Executor whose NOTIFY_EMAIL actions deliver over
// the named channel: "slack" routes them through the Slack transport, any
// other channel through the SMTP transport. Decisions always carry
// NOTIFY_EMAIL; the channel choice lives entirely here.
func NewForChannel(channel string, smtp, slack Notifier) *Executor {
	if channel == "slack" && slack != nil {
		return &Executor{email: slack, slack: slack}
	}
	return &Executor{email: smtp, slack: slack}
}

// Execute runs a single action from a decision. Dispatch is an exhaustive
// switch over the known action set; anything else returns
// UnsupportedActionError.
func (x *Executor) Execute(ctx context.Context, d decision.AgentDecision, ev events.EnrichedAccountEvent, action decision.AgentAction) error {
	switch action.Type {
	case decision.ActionNoAction:
		return nil

	case decision.ActionNotifyEmail:
		return x.notify(ctx, x.email, d, ev, action)

	case decision.ActionNotifySlack:
		if x.slack == nil {
			return &UnsupportedActionError{Type: action.Type}
		}
		return x.notify(ctx, x.slack, d, ev, action)

	default:
		return &UnsupportedActionError{Type: action.Type}
	}
}

func (x *Executor) notify(ctx context.Context, n Notifier, d decision.AgentDecision, ev events.EnrichedAccountEvent, action decision.AgentAction) error {
	subject := action.Args["subject"]
	if subject == "" {
		subject = defaultSubject
	}

	body := "Account: " + ev.AccountID + "\n" +
		"EventId: " + ev.EventID + "\n" +
		"Summary: " + ev.Summary + "\n" +
		"Rationale: " + d.Rationale + "\n"

	if err := n.Send(ctx, subject, body); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	return nil
}
