package services

import (
	"context"

	"versekeep/internal/domain/models"
)

// BlobStore is the external blob storage collaborator.
type BlobStore interface {
	// Upload stores data under key and returns the key
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// DownloadURL returns a fetchable URL for a stored key
	DownloadURL(ctx context.Context, key string) (string, error)
}

// Transcriber is the external speech-to-text collaborator.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

// Synthesizer is the external text-to-speech collaborator.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// UploadResult reports a stored audio blob and the background work it started.
type UploadResult struct {
	Entry            *models.Entry `json:"entry"`
	AudioURL         string        `json:"audio_url"`
	TranscribeTaskID string        `json:"transcribe_task_id,omitempty"`
}

// AudioService stores audio blobs on entries and runs transcription and
// synthesis as observable background tasks.
type AudioService interface {
	// UploadAudio stores a recording, appends its URL to the entry, and
	// starts a background transcription that writes into the entry content.
	UploadAudio(ctx context.Context, entryID, userID string, data []byte, ext string) (*UploadResult, error)

	// UploadImage stores an image for a poem/image entry and sets image_url
	UploadImage(ctx context.Context, entryID, userID string, data []byte, contentType string) (*models.Entry, error)

	// SynthesizeEntry starts background speech synthesis of the entry's
	// content; the returned task id is observable via the task registry.
	SynthesizeEntry(ctx context.Context, entryID, userID string) (string, error)
}
