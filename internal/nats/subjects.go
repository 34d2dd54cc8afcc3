package nats

import (
	"strings"
	"time"
)

// FetchTimeout is the default timeout for batch fetching messages from
// consumers.
const FetchTimeout = 2 * time.Second

// Stream names.
const (
	StreamEvents = "AGENTIC_EVENTS"
	StreamAudit  = "AGENTIC_AUDIT"
)

// Subject constants. The trailing token carries the partition key:
// account id for events and decisions, event id for results.
const (
	SubjectEnrichedPrefix = "agentic.events.enriched" // agentic.events.enriched.{account_id}
	SubjectEnrichedAll    = SubjectEnrichedPrefix + ".>"

	SubjectDecisionPrefix = "agentic.audit.decision" // agentic.audit.decision.{account_id}
	SubjectResultPrefix   = "agentic.audit.result"   // agentic.audit.result.{event_id}
)

var subjectTokenReplacer = strings.NewReplacer(
	".", "_",
	" ", "_",
	"*", "_",
	">", "_",
)

// SubjectToken sanitizes an id for use as a single NATS subject token.
// Empty ids map to "unknown" so subjects stay well-formed.
func SubjectToken(id string) string {
	if id == "" {
		return "unknown"
	}
	return subjectTokenReplacer.Replace(id)
}
