package pipeline

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-platform/notifier/internal/decision"
)

func newTestHandler(t *testing.T) (*Handler, *recordingPublisher) {
	t.Helper()
	clock := func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	pub := &recordingPublisher{}
	p := New(decision.NewEngine(clock), &fakeExecutor{}, pub, clock)
	return NewHandler(p, nil), pub
}

func TestHandler_AgentTest(t *testing.T) {
	h, pub := newTestHandler(t)

	body := `{"event_id":"evt_001","account_id":"ACC1","risk_score":90,"summary":"suspicious wire transfer"}`
	req := httptest.NewRequest("POST", "/api/v1/agent/test", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.AgentTest(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data decision.AgentDecision `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "evt_001", resp.Data.EventID)
	assert.Equal(t, "ACC1", resp.Data.AccountID)
	assert.NotEmpty(t, resp.Data.DecisionID)
	require.NotEmpty(t, resp.Data.Actions)
	assert.Equal(t, decision.ActionNotifyEmail, resp.Data.Actions[0].Type)

	// The decision and its action results reach the audit trail.
	assert.NotEmpty(t, pub.published)
}

func TestHandler_AgentTestValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing event_id", `{"account_id":"ACC1"}`},
		{"missing account_id", `{"event_id":"evt_001"}`},
		{"malformed json", `{"event_id"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/agent/test", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.AgentTest(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
