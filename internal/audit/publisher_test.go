package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-platform/notifier/internal/decision"
)

type fakeJetStream struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeJetStream) Publish(_ context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, payload)
	return &jetstream.PubAck{}, nil
}

func TestPublisher_PublishDecision(t *testing.T) {
	js := &fakeJetStream{}
	p := &Publisher{js: js}

	d := decision.AgentDecision{
		DecisionID: "D1",
		EventID:    "E1",
		AccountID:  "ACC-7",
		CreatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Actions:    []decision.AgentAction{{Type: decision.ActionNoAction, Args: map[string]string{}}},
		Rationale:  "Risk signal: severity=NONE, riskScore=0, trigger=none.",
	}
	require.NoError(t, p.PublishDecision(context.Background(), d))

	require.Len(t, js.subjects, 1)
	assert.Equal(t, "agentic.audit.decision.ACC-7", js.subjects[0])

	var decoded decision.AgentDecision
	require.NoError(t, json.Unmarshal(js.payloads[0], &decoded))
	assert.Equal(t, d, decoded)
}

func TestPublisher_PublishResult(t *testing.T) {
	js := &fakeJetStream{}
	p := &Publisher{js: js}

	r := decision.ActionResult{
		DecisionID: "D1",
		EventID:    "evt.001",
		ActionType: decision.ActionNotifyEmail,
		ExecutedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Success:    true,
		Message:    "Executed successfully",
	}
	require.NoError(t, p.PublishResult(context.Background(), r))

	require.Len(t, js.subjects, 1)
	assert.Equal(t, "agentic.audit.result.evt_001", js.subjects[0],
		"event id must be sanitized into a single subject token")

	var decoded decision.ActionResult
	require.NoError(t, json.Unmarshal(js.payloads[0], &decoded))
	assert.Equal(t, r, decoded)
}

func TestPublisher_PublishFailureSurfaces(t *testing.T) {
	js := &fakeJetStream{err: errors.New("nats: connection closed")}
	p := &Publisher{js: js}

	err := p.PublishDecision(context.Background(), decision.AgentDecision{AccountID: "ACC1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection closed")
}
