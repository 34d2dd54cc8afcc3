package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/agentic-platform/notifier/internal/decision"
	"github.com/agentic-platform/notifier/internal/events"
	"github.com/agentic-platform/notifier/internal/metrics"
)

// Decider turns an enriched event into a decision.
type Decider interface {
	Decide(ev events.EnrichedAccountEvent) decision.AgentDecision
}

// Executor runs a single decided action.
type Executor interface {
	Execute(ctx context.Context, d decision.AgentDecision, ev events.EnrichedAccountEvent, action decision.AgentAction) error
}

// Publisher emits decision and result records to the audit trail.
type Publisher interface {
	PublishDecision(ctx context.Context, d decision.AgentDecision) error
	PublishResult(ctx context.Context, r decision.ActionResult) error
}

// Pipeline drives one event through decide, execute, and publish. It is
// stateless across events; no mutable state survives a Handle call.
type Pipeline struct {
	decider   Decider
	executor  Executor
	publisher Publisher
	now       func() time.Time
}

// New creates a Pipeline. A nil now defaults to time.Now.
func New(decider Decider, executor Executor, publisher Publisher, now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		decider:   decider,
		executor:  executor,
		publisher: publisher,
		now:       now,
	}
}

// Handle processes one inbound event: decide, publish the decision, then
// execute each action in order and publish its result. The decision is
// published before any action runs so an audit trail exists even if every
// action fails. A failed action or failed publish never stops the
// remaining actions.
func (p *Pipeline) Handle(ctx context.Context, ev events.EnrichedAccountEvent) decision.AgentDecision {
	d := p.decider.Decide(ev)
	metrics.DecisionsTotal.WithLabelValues(severityLabel(d)).Inc()

	if err := p.publisher.PublishDecision(ctx, d); err != nil {
		metrics.PublishFailuresTotal.WithLabelValues("decision").Inc()
		slog.Error("publishing decision", "error", err, "decision_id", d.DecisionID, "event_id", d.EventID)
	}

	for _, action := range d.Actions {
		result := decision.ActionResult{
			DecisionID: d.DecisionID,
			EventID:    ev.EventID,
			ActionType: action.Type,
			Success:    true,
			Message:    "Executed successfully",
		}

		if err := p.executor.Execute(ctx, d, ev, action); err != nil {
			result.Success = false
			result.Message = err.Error()
			slog.Warn("executing action", "error", err, "type", action.Type, "event_id", ev.EventID)
		}
		result.ExecutedAt = p.now().UTC()
		metrics.ActionsExecutedTotal.WithLabelValues(string(action.Type), statusLabel(result.Success)).Inc()

		if err := p.publisher.PublishResult(ctx, result); err != nil {
			metrics.PublishFailuresTotal.WithLabelValues("result").Inc()
			slog.Error("publishing action result", "error", err, "decision_id", d.DecisionID, "type", action.Type)
		}
	}

	return d
}

// severityLabel reads the severity a decision carries in its notification
// args; decisions without one are NONE by construction.
func severityLabel(d decision.AgentDecision) string {
	for _, action := range d.Actions {
		if s, ok := action.Args["severity"]; ok {
			return s
		}
	}
	return decision.SeverityNone.String()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
