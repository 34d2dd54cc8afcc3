package memory

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/agentic-platform/notifier/internal/api"
)

// Handler handles memory HTTP endpoints.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a new memory handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// recentLimit caps the recent-activity entries returned alongside recall
// hits.
const recentLimit = 10

type RememberRequest struct {
	EventID string `json:"event_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type RecallResponse struct {
	Hits   []Hit         `json:"hits"`
	Recent []RecentEntry `json:"recent"`
}

// Remember stores a memory entry for an account.
func (h *Handler) Remember(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	var req RememberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	if !h.svc.Enabled() {
		api.JSONMessage(w, http.StatusOK, "memory disabled")
		return
	}

	if err := h.svc.Remember(r.Context(), accountID, req.EventID, req.Content); err != nil {
		slog.Error("remembering memory", "error", err, "account_id", accountID)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSONMessage(w, http.StatusCreated, "remembered")
}

// Recall performs a similarity search over an account's memories.
func (h *Handler) Recall(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		api.HandleError(w, api.NewBadRequestError("q is required"))
		return
	}

	topK := 0
	if tk := r.URL.Query().Get("top_k"); tk != "" {
		v, err := strconv.Atoi(tk)
		if err != nil || v <= 0 || v > 100 {
			api.HandleError(w, api.NewBadRequestError("top_k must be between 1 and 100"))
			return
		}
		topK = v
	}

	exclude := r.URL.Query().Get("exclude_event_id")

	hits, err := h.svc.RecallSimilar(r.Context(), accountID, exclude, q, topK)
	if err != nil {
		slog.Error("recalling memories", "error", err, "account_id", accountID)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if hits == nil {
		hits = []Hit{}
	}

	recent, err := h.svc.Recent(r.Context(), accountID, recentLimit)
	if err != nil {
		// The recent list is best-effort.
		slog.Warn("listing recent memories", "error", err, "account_id", accountID)
	}
	if recent == nil {
		recent = []RecentEntry{}
	}

	api.JSON(w, http.StatusOK, RecallResponse{Hits: hits, Recent: recent})
}
