package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"versekeep/internal/domain"
	"versekeep/internal/domain/models"
	"versekeep/internal/domain/repositories"
	"versekeep/internal/domain/services"
	"versekeep/internal/service/task"
	s3store "versekeep/internal/storage/s3"

	"github.com/google/uuid"
)

// Audio formats accepted for upload and transcription.
var audioContentTypes = map[string]string{
	"webm": "audio/webm",
	"mp3":  "audio/mpeg",
	"m4a":  "audio/mp4",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
}

// audioService implements the AudioService interface. Transcription and
// synthesis run through the task registry so their outcomes are observable
// rather than disappearing into the log.
type audioService struct {
	entryRepo   repositories.EntryRepository
	blobs       services.BlobStore
	transcriber services.Transcriber
	synthesizer services.Synthesizer
	tasks       *task.Registry
	logger      *slog.Logger
}

// NewAudioService creates a new audio service
func NewAudioService(
	entryRepo repositories.EntryRepository,
	blobs services.BlobStore,
	transcriber services.Transcriber,
	synthesizer services.Synthesizer,
	tasks *task.Registry,
	logger *slog.Logger,
) services.AudioService {
	return &audioService{
		entryRepo:   entryRepo,
		blobs:       blobs,
		transcriber: transcriber,
		synthesizer: synthesizer,
		tasks:       tasks,
		logger:      logger,
	}
}

// UploadAudio stores a recording and appends its download URL to the entry.
// The save is confirmed to the caller once the URL is attached; transcription
// continues in the background and writes the transcript into the entry's
// content when it finishes. A transcription failure never unwinds the upload.
func (s *audioService) UploadAudio(ctx context.Context, entryID, userID string, data []byte, ext string) (*services.UploadResult, error) {
	contentType, ok := audioContentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported audio format %q", domain.ErrValidation, ext)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty audio upload", domain.ErrValidation)
	}

	entry, err := s.entryRepo.GetByID(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	key := s3store.AudioKey(entry.ID, ext, time.Now(), uuid.NewString())
	if _, err := s.blobs.Upload(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	url, err := s.blobs.DownloadURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolve download url: %w", err)
	}

	if err := s.entryRepo.AppendAudioURL(ctx, entryID, userID, url); err != nil {
		return nil, err
	}

	result := &services.UploadResult{AudioURL: url}

	result.Entry, err = s.entryRepo.GetByID(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	if s.transcriber != nil {
		t := s.tasks.Run("transcribe", userID, func(taskCtx context.Context) error {
			return s.transcribeInto(taskCtx, entryID, userID, data, ext)
		})
		result.TranscribeTaskID = t.ID
	}

	return result, nil
}

// transcribeInto runs in the background: transcribe the recording and write
// the text into the entry's content.
func (s *audioService) transcribeInto(ctx context.Context, entryID, userID string, data []byte, ext string) error {
	text, err := s.transcriber.Transcribe(ctx, data, ext)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	update := &repositories.EntryUpdate{Content: &text}
	if _, err := s.entryRepo.Update(ctx, entryID, userID, update); err != nil {
		return fmt.Errorf("store transcript: %w", err)
	}

	s.logger.Debug("transcript stored", "entry_id", entryID, "chars", len(text))
	return nil
}

// UploadImage stores an image for a poem/image entry and sets its image_url
func (s *audioService) UploadImage(ctx context.Context, entryID, userID string, data []byte, contentType string) (*models.Entry, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image upload", domain.ErrValidation)
	}

	entry, err := s.entryRepo.GetByID(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	key := s3store.ImageKey(userID, entry.ID)
	if _, err := s.blobs.Upload(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	url, err := s.blobs.DownloadURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolve download url: %w", err)
	}

	return s.entryRepo.Update(ctx, entryID, userID, &repositories.EntryUpdate{ImageURL: &url})
}

// SynthesizeEntry starts background synthesis of the entry's content. The
// generated audio is uploaded and attached to the entry; failures are
// recorded on the returned task, not surfaced to the caller.
func (s *audioService) SynthesizeEntry(ctx context.Context, entryID, userID string) (string, error) {
	if s.synthesizer == nil {
		return "", fmt.Errorf("speech synthesis is not configured")
	}

	entry, err := s.entryRepo.GetByID(ctx, entryID, userID)
	if err != nil {
		return "", err
	}

	text := entry.Content
	if len(entry.AIConversations) > 0 {
		// Speak the most recent answer when one exists
		text = entry.AIConversations[len(entry.AIConversations)-1].Answer
	}
	if models.IsBlank(text) {
		return "", fmt.Errorf("%w: nothing to synthesize", domain.ErrValidation)
	}

	t := s.tasks.Run("synthesize", userID, func(taskCtx context.Context) error {
		audio, err := s.synthesizer.Synthesize(taskCtx, text)
		if err != nil {
			return fmt.Errorf("synthesize: %w", err)
		}

		key := s3store.AudioKey(entryID, "mp3", time.Now(), uuid.NewString())
		if _, err := s.blobs.Upload(taskCtx, key, audio, "audio/mpeg"); err != nil {
			return fmt.Errorf("upload synthesized audio: %w", err)
		}

		url, err := s.blobs.DownloadURL(taskCtx, key)
		if err != nil {
			return fmt.Errorf("resolve download url: %w", err)
		}

		return s.entryRepo.AppendAudioURL(taskCtx, entryID, userID, url)
	})

	return t.ID, nil
}
