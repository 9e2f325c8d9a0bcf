package handler

import (
	"log/slog"
	"net/http"

	"versekeep/internal/domain/services"
	"versekeep/internal/httputil"
)

// LinkHandler handles entry link HTTP requests
type LinkHandler struct {
	linkService services.LinkService
	logger      *slog.Logger
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(linkService services.LinkService, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		linkService: linkService,
		logger:      logger,
	}
}

type createLinkRequest struct {
	TargetEntryID string `json:"target_entry_id"`
}

// CreateLink links the entry in the path to a target entry
// POST /api/entries/{id}/links
func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sourceID := r.PathValue("id")
	if sourceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	var req createLinkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	link, err := h.linkService.CreateLink(r.Context(), sourceID, req.TargetEntryID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, link)
}

// GetLinks returns the links touching an entry, grouped by direction
// GET /api/entries/{id}/links
func (h *LinkHandler) GetLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	links, err := h.linkService.GetLinks(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, links)
}

// GetRelated resolves the entries on the other side of an entry's links
// GET /api/entries/{id}/related
func (h *LinkHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	entries, err := h.linkService.ResolveRelated(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}

// DeleteLink removes a link
// DELETE /api/links/{id}
func (h *LinkHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "link ID is required")
		return
	}

	if err := h.linkService.DeleteLink(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
