package events

import "time"

// EventType classifies the direction of an account movement.
type EventType string

const (
	EventTypeCredit EventType = "CREDIT"
	EventTypeDebit  EventType = "DEBIT"
)

// EnrichedAccountEvent is one inbound message from the enrichment stage.
// Optional fields are pointers so "absent" and "zero" stay distinct.
// Events are immutable once constructed; accountId is the partition key.
type EnrichedAccountEvent struct {
	EventID   string     `json:"event_id"`
	AccountID string     `json:"account_id"`
	RiskScore *int       `json:"risk_score,omitempty"`
	Summary   string     `json:"summary,omitempty"`
	EventType *EventType `json:"event_type,omitempty"`
	Amount    *float64   `json:"amount,omitempty"`
	Currency  string     `json:"currency,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
