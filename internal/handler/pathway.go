package handler

import (
	"log/slog"
	"net/http"

	"versekeep/internal/domain/services"
	"versekeep/internal/httputil"
)

// PathwayHandler handles pathway point HTTP requests
type PathwayHandler struct {
	pathwayService services.PathwayService
	logger         *slog.Logger
}

// NewPathwayHandler creates a new pathway handler
func NewPathwayHandler(pathwayService services.PathwayService, logger *slog.Logger) *PathwayHandler {
	return &PathwayHandler{
		pathwayService: pathwayService,
		logger:         logger,
	}
}

// InsertPoint inserts a study point at an index
// POST /api/entries/{id}/points
func (h *PathwayHandler) InsertPoint(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	var req services.InsertPointRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.pathwayService.InsertPoint(r.Context(), id, userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, entry)
}

// RemovePoint deletes a study point
// DELETE /api/entries/{id}/points/{index}
func (h *PathwayHandler) RemovePoint(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	entry, err := h.pathwayService.RemovePoint(r.Context(), id, userID, index)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entry)
}

// CompletePoint marks a study point complete for the caller
// POST /api/entries/{id}/points/{index}/complete
func (h *PathwayHandler) CompletePoint(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	entry, err := h.pathwayService.CompletePoint(r.Context(), id, userID, index)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entry)
}

// EditVerses applies a verse edit to a study point
// PATCH /api/entries/{id}/points/{index}/verses
func (h *PathwayHandler) EditVerses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req services.EditVersesRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.pathwayService.EditVerses(r.Context(), id, userID, index, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entry)
}

// GetPointChat returns the chat history for a study point
// GET /api/entries/{id}/points/{index}/chat
func (h *PathwayHandler) GetPointChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	messages, err := h.pathwayService.GetPointChat(r.Context(), id, userID, index)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

type askPointRequest struct {
	Question string `json:"question"`
}

// AskPoint asks the assistant a question scoped to a study point
// POST /api/entries/{id}/points/{index}/chat
func (h *PathwayHandler) AskPoint(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req askPointRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	messages, err := h.pathwayService.AskPoint(r.Context(), id, userID, index, req.Question)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}
