package decision

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentic-platform/notifier/internal/events"
)

const (
	mediumThreshold = 50
	highThreshold   = 80

	subjectHigh   = "Suspicious account activity"
	subjectMedium = "Account activity notification"
)

var suspiciousKeywords = []string{"suspicious", "fraud", "anomal", "unusual"}

var explicitlyNormalPhrases = []string{
	"appears to be normal",
	"normal transaction",
	"no unusual",
}

// Engine classifies enriched account events and turns them into decisions.
// The time source is injected so decision timestamps are deterministic
// under test.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an Engine using the given time source. A nil now
// defaults to time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Classify returns the severity for an event together with a human-readable
// rationale naming the score used and the trigger that fired.
func (e *Engine) Classify(ev events.EnrichedAccountEvent) (Severity, string) {
	score := 0
	if ev.RiskScore != nil {
		score = *ev.RiskScore
	}

	severity, trigger := classify(ev, score)
	rationale := fmt.Sprintf("Risk signal: severity=%s, riskScore=%d, trigger=%s.",
		severity, score, trigger)
	return severity, rationale
}

// Decide produces the decision for one event: fresh decision id, timestamp
// from the injected clock, and the action list implied by the severity.
func (e *Engine) Decide(ev events.EnrichedAccountEvent) AgentDecision {
	severity, rationale := e.Classify(ev)

	return AgentDecision{
		DecisionID: uuid.New().String(),
		EventID:    ev.EventID,
		AccountID:  ev.AccountID,
		CreatedAt:  e.now().UTC(),
		Actions:    actionsFor(severity),
		Rationale:  rationale,
	}
}

// classify applies the rule set in precedence order: amount anomaly first,
// then score thresholds, then summary keywords.
func classify(ev events.EnrichedAccountEvent, score int) (Severity, string) {
	if ev.EventType != nil && ev.Amount != nil && *ev.Amount < 0 {
		switch *ev.EventType {
		case events.EventTypeCredit:
			return SeverityHigh, "amount<0 (CREDIT)"
		case events.EventTypeDebit:
			return SeverityMedium, "amount<0 (DEBIT)"
		}
	}

	summary := strings.ToLower(ev.Summary)
	explicitlyNormal := containsAny(summary, explicitlyNormalPhrases)

	if score >= highThreshold {
		return SeverityHigh, "score>=80"
	}
	if score >= mediumThreshold && !explicitlyNormal {
		return SeverityMedium, "score>=50"
	}
	if containsAny(summary, suspiciousKeywords) && !explicitlyNormal {
		return SeverityMedium, "keyword(unusual/suspicious/...)"
	}
	return SeverityNone, "none"
}

func actionsFor(severity Severity) []AgentAction {
	if severity == SeverityNone {
		return []AgentAction{{Type: ActionNoAction, Args: map[string]string{}}}
	}

	subject := subjectMedium
	if severity == SeverityHigh {
		subject = subjectHigh
	}
	return []AgentAction{{
		Type: ActionNotifyEmail,
		Args: map[string]string{
			"subject":  subject,
			"severity": severity.String(),
		},
	}}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
