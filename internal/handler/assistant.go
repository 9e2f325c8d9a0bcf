package handler

import (
	"log/slog"
	"net/http"

	"versekeep/internal/domain/services"
	"versekeep/internal/httputil"
)

// AssistantHandler handles entry-level AI question requests
type AssistantHandler struct {
	assistantService services.AssistantService
	logger           *slog.Logger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService services.AssistantService, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
		logger:           logger,
	}
}

type askRequest struct {
	Question  string `json:"question"`
	WithAudio bool   `json:"with_audio"`
}

// Ask asks the assistant a question about an entry
// POST /api/entries/{id}/ask
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	var req askRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.assistantService.Ask(r.Context(), id, userID, req.Question, req.WithAudio)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
