// Package task runs fire-and-forget work as observable background tasks.
// Failures end up queryable on the task record instead of vanishing into a
// log line nobody reads.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"versekeep/internal/domain"
)

// Status is the lifecycle state of a background task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Task is an observable handle for one background operation.
type Task struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UserID     string    `json:"user_id"`
	Status     Status    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// Fn is the work a task performs. The context is detached from the request
// that started the task so navigating away does not cancel it.
type Fn func(ctx context.Context) error

// Registry tracks background tasks in memory.
type Registry struct {
	mu      sync.RWMutex
	tasks   map[string]*Task
	timeout time.Duration
	logger  *slog.Logger
}

// NewRegistry creates a task registry. timeout bounds each task's run.
func NewRegistry(timeout time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		tasks:   make(map[string]*Task),
		timeout: timeout,
		logger:  logger,
	}
}

// Run registers and starts a background task, returning its handle
// immediately. The task runs on its own goroutine with its own context.
func (r *Registry) Run(name, userID string, fn Fn) *Task {
	t := &Task{
		ID:        uuid.NewString(),
		Name:      name,
		UserID:    userID,
		Status:    StatusPending,
		StartedAt: time.Now(),
	}

	r.mu.Lock()
	r.tasks[t.ID] = t
	r.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		r.setStatus(t.ID, StatusRunning, "")

		err := fn(ctx)
		if err != nil {
			r.logger.Error("background task failed", "task_id", t.ID, "name", name, "error", err)
			r.setStatus(t.ID, StatusFailed, err.Error())
			return
		}

		r.setStatus(t.ID, StatusSucceeded, "")
	}()

	return t
}

// Get returns a snapshot of a task scoped to its owner.
func (r *Registry) Get(id, userID string) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}

	snapshot := *t
	return &snapshot, nil
}

func (r *Registry) setStatus(id string, status Status, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return
	}
	t.Status = status
	t.Error = errMsg
	if status == StatusSucceeded || status == StatusFailed {
		t.FinishedAt = time.Now()
	}
}
