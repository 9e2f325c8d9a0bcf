package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"versekeep/internal/domain"
	"versekeep/internal/domain/models"
	"versekeep/internal/service/task"
)

// fakeBlobStore records uploads and returns deterministic URLs.
type fakeBlobStore struct {
	uploads map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (s *fakeBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.uploads[key] = data
	return key, nil
}

func (s *fakeBlobStore) DownloadURL(ctx context.Context, key string) (string, error) {
	return "https://blobs.test/" + key, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	return f.text, f.err
}

type fakeSynthesizer struct {
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return f.audio, f.err
}

func waitForTask(t *testing.T, registry *task.Registry, id, userID string) *task.Task {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := registry.Get(id, userID)
		require.NoError(t, err)
		if got.Status == task.StatusSucceeded || got.Status == task.StatusFailed {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("task did not finish in time")
	return nil
}

func TestUploadAudio(t *testing.T) {
	repo := newFakeEntryRepo()
	blobs := newFakeBlobStore()
	registry := task.NewRegistry(time.Minute, testLogger())
	svc := NewAudioService(repo, blobs, &fakeTranscriber{text: "spoken words"}, nil, registry, testLogger())

	entry := repo.add(&models.Entry{UserID: "user-1", Type: models.EntryTypeAudio})

	result, err := svc.UploadAudio(context.Background(), entry.ID, "user-1", []byte("blob"), "webm")
	require.NoError(t, err)

	assert.NotEmpty(t, result.AudioURL)
	require.NotNil(t, result.Entry)
	assert.Contains(t, result.Entry.AudioURLs, result.AudioURL)
	require.NotEmpty(t, result.TranscribeTaskID)
	assert.Len(t, blobs.uploads, 1)

	// Transcription lands in the entry content in the background.
	finished := waitForTask(t, registry, result.TranscribeTaskID, "user-1")
	assert.Equal(t, task.StatusSucceeded, finished.Status)
	assert.Equal(t, "spoken words", repo.entries[entry.ID].Content)
}

func TestUploadAudioRejectsBadInput(t *testing.T) {
	repo := newFakeEntryRepo()
	registry := task.NewRegistry(time.Minute, testLogger())
	svc := NewAudioService(repo, newFakeBlobStore(), nil, nil, registry, testLogger())

	entry := repo.add(&models.Entry{UserID: "user-1", Type: models.EntryTypeAudio})

	_, err := svc.UploadAudio(context.Background(), entry.ID, "user-1", []byte("x"), "exe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.UploadAudio(context.Background(), entry.ID, "user-1", nil, "mp3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUploadAudioTranscriptionFailureKeepsUpload(t *testing.T) {
	repo := newFakeEntryRepo()
	registry := task.NewRegistry(time.Minute, testLogger())
	svc := NewAudioService(repo, newFakeBlobStore(), &fakeTranscriber{err: errors.New("whisper down")}, nil, registry, testLogger())

	entry := repo.add(&models.Entry{UserID: "user-1", Type: models.EntryTypeAudio, Content: "original"})

	result, err := svc.UploadAudio(context.Background(), entry.ID, "user-1", []byte("blob"), "mp3")
	require.NoError(t, err)

	finished := waitForTask(t, registry, result.TranscribeTaskID, "user-1")
	assert.Equal(t, task.StatusFailed, finished.Status)
	assert.Contains(t, finished.Error, "whisper down")

	// The upload stands; content is untouched.
	stored := repo.entries[entry.ID]
	assert.Len(t, stored.AudioURLs, 1)
	assert.Equal(t, "original", stored.Content)
}

func TestUploadImage(t *testing.T) {
	repo := newFakeEntryRepo()
	registry := task.NewRegistry(time.Minute, testLogger())
	svc := NewAudioService(repo, newFakeBlobStore(), nil, nil, registry, testLogger())

	entry := repo.add(&models.Entry{UserID: "user-1", Type: models.EntryTypePoem})

	updated, err := svc.UploadImage(context.Background(), entry.ID, "user-1", []byte("pixels"), "image/png")
	require.NoError(t, err)
	assert.NotEmpty(t, updated.ImageURL)
	assert.Contains(t, updated.ImageURL, "poems/user-1/")
}

func TestSynthesizeEntrySpeaksLatestAnswer(t *testing.T) {
	repo := newFakeEntryRepo()
	registry := task.NewRegistry(time.Minute, testLogger())
	synth := &fakeSynthesizer{audio: []byte("mp3 bytes")}
	svc := NewAudioService(repo, newFakeBlobStore(), nil, synth, registry, testLogger())

	entry := repo.add(&models.Entry{
		UserID:  "user-1",
		Type:    models.EntryTypeQuote,
		Content: "entry body",
		AIConversations: []models.AIConversation{
			{Question: "q1", Answer: "older answer"},
			{Question: "q2", Answer: "latest answer"},
		},
	})

	taskID, err := svc.SynthesizeEntry(context.Background(), entry.ID, "user-1")
	require.NoError(t, err)

	finished := waitForTask(t, registry, taskID, "user-1")
	assert.Equal(t, task.StatusSucceeded, finished.Status)

	stored := repo.entries[entry.ID]
	require.Len(t, stored.AudioURLs, 1)
}

func TestSynthesizeEntryNothingToSpeak(t *testing.T) {
	repo := newFakeEntryRepo()
	registry := task.NewRegistry(time.Minute, testLogger())
	svc := NewAudioService(repo, newFakeBlobStore(), nil, &fakeSynthesizer{}, registry, testLogger())

	entry := repo.add(&models.Entry{UserID: "user-1", Type: models.EntryTypeText, Content: "   "})

	_, err := svc.SynthesizeEntry(context.Background(), entry.ID, "user-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
