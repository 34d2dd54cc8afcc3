package decision

import "time"

// Severity is the ordered risk tier assigned to an event.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	default:
		return "NONE"
	}
}

// ActionType tags an AgentAction. The set is closed: the executor fails
// loudly on anything it does not recognize.
type ActionType string

const (
	ActionNoAction    ActionType = "NO_ACTION"
	ActionNotifyEmail ActionType = "NOTIFY_EMAIL"
	ActionNotifySlack ActionType = "NOTIFY_SLACK"
)

// AgentAction is a typed, parameterized instruction produced by a decision.
type AgentAction struct {
	Type ActionType        `json:"type"`
	Args map[string]string `json:"args"`
}

// AgentDecision is the engine's output for one event. Actions is never nil;
// current policy always yields at least a NO_ACTION marker.
type AgentDecision struct {
	DecisionID string        `json:"decision_id"`
	EventID    string        `json:"event_id"`
	AccountID  string        `json:"account_id"`
	CreatedAt  time.Time     `json:"created_at"`
	Actions    []AgentAction `json:"actions"`
	Rationale  string        `json:"rationale"`
}

// ActionResult is the append-only audit fact recorded for each executed
// action of a decision.
type ActionResult struct {
	DecisionID string     `json:"decision_id"`
	EventID    string     `json:"event_id"`
	ActionType ActionType `json:"action_type"`
	ExecutedAt time.Time  `json:"executed_at"`
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
}
