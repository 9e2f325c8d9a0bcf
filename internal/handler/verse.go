package handler

import (
	"log/slog"
	"net/http"

	"versekeep/internal/domain/services"
	"versekeep/internal/httputil"
)

// VerseHandler handles verse reference resolution requests
type VerseHandler struct {
	resolver services.VerseResolver
	logger   *slog.Logger
}

// NewVerseHandler creates a new verse handler
func NewVerseHandler(resolver services.VerseResolver, logger *slog.Logger) *VerseHandler {
	return &VerseHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// Resolve resolves a loosely formatted verse reference to passage text
// GET /api/verses/resolve?ref=...
func (h *VerseHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	ref := r.URL.Query().Get("ref")
	if ref == "" {
		httputil.RespondError(w, http.StatusBadRequest, "ref query parameter is required")
		return
	}

	text := h.resolver.Resolve(r.Context(), ref)

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"reference": ref,
		"text":      text,
	})
}

// Search looks up passages matching a free-text query
// GET /api/verses/search?q=...
func (h *VerseHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	results, err := h.resolver.Search(r.Context(), query)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}
