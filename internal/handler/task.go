package handler

import (
	"log/slog"
	"net/http"

	"versekeep/internal/httputil"
	"versekeep/internal/service/task"
)

// TaskHandler exposes background task status
type TaskHandler struct {
	registry *task.Registry
	logger   *slog.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(registry *task.Registry, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		registry: registry,
		logger:   logger,
	}
}

// GetTask returns the status of a background task
// GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "task ID is required")
		return
	}

	t, err := h.registry.Get(id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, t)
}
