package pipeline

import (
	"encoding/json"
	"net/http"

	"github.com/agentic-platform/notifier/internal/api"
	"github.com/agentic-platform/notifier/internal/events"
)

// Handler exposes the pipeline over HTTP for manual testing.
type Handler struct {
	pipeline *Pipeline
	indexer  *Indexer
}

// NewHandler creates a pipeline handler. indexer may be nil when memory
// indexing is disabled.
func NewHandler(p *Pipeline, indexer *Indexer) *Handler {
	return &Handler{
		pipeline: p,
		indexer:  indexer,
	}
}

type agentTestRequest struct {
	events.EnrichedAccountEvent
}

// AgentTest runs a posted event through the full decision pipeline and
// returns the resulting decision. The event skips the event stream, so
// per-account ordering against streamed events is not guaranteed.
func (h *Handler) AgentTest(w http.ResponseWriter, r *http.Request) {
	var req agentTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if req.EventID == "" || req.AccountID == "" {
		api.HandleError(w, api.NewValidationError("event_id and account_id are required"))
		return
	}

	dec := h.pipeline.Handle(r.Context(), req.EnrichedAccountEvent)
	if h.indexer != nil {
		h.indexer.Enqueue(req.EnrichedAccountEvent)
	}

	api.JSON(w, http.StatusOK, dec)
}
