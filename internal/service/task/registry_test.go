package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFinished(t *testing.T, r *Registry, id, userID string) *Task {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := r.Get(id, userID)
		require.NoError(t, err)
		if got.Status == StatusSucceeded || got.Status == StatusFailed {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("task did not finish in time")
	return nil
}

func TestRunSuccess(t *testing.T) {
	r := NewRegistry(time.Minute, testLogger())

	done := make(chan struct{})
	task := r.Run("transcribe", "user-1", func(ctx context.Context) error {
		close(done)
		return nil
	})

	require.NotEmpty(t, task.ID)
	assert.Equal(t, "transcribe", task.Name)

	<-done
	finished := waitFinished(t, r, task.ID, "user-1")
	assert.Equal(t, StatusSucceeded, finished.Status)
	assert.Empty(t, finished.Error)
	assert.False(t, finished.FinishedAt.IsZero())
}

func TestRunFailureRecordsError(t *testing.T) {
	r := NewRegistry(time.Minute, testLogger())

	task := r.Run("synthesize", "user-1", func(ctx context.Context) error {
		return errors.New("boom")
	})

	finished := waitFinished(t, r, task.ID, "user-1")
	assert.Equal(t, StatusFailed, finished.Status)
	assert.Equal(t, "boom", finished.Error)
}

func TestGetScopedToOwner(t *testing.T) {
	r := NewRegistry(time.Minute, testLogger())

	task := r.Run("transcribe", "user-1", func(ctx context.Context) error {
		return nil
	})

	_, err := r.Get(task.ID, "user-2")
	assert.Error(t, err)

	_, err = r.Get("no-such-task", "user-1")
	assert.Error(t, err)
}

func TestTaskTimeoutCancelsContext(t *testing.T) {
	r := NewRegistry(20*time.Millisecond, testLogger())

	task := r.Run("slow", "user-1", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	finished := waitFinished(t, r, task.ID, "user-1")
	assert.Equal(t, StatusFailed, finished.Status)
	assert.Contains(t, finished.Error, "context deadline exceeded")
}

func TestTaskSurvivesCallerContext(t *testing.T) {
	r := NewRegistry(time.Minute, testLogger())

	// The registry detaches from the caller's context: cancelling the request
	// must not cancel the task.
	callerCtx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = callerCtx

	release := make(chan struct{})
	task := r.Run("transcribe", "user-1", func(ctx context.Context) error {
		<-release
		return ctx.Err()
	})

	close(release)
	finished := waitFinished(t, r, task.ID, "user-1")
	assert.Equal(t, StatusSucceeded, finished.Status)
}
