package services

import (
	"context"

	"versekeep/internal/domain/models"
)

// CreateEntryRequest carries the client-supplied fields of a new entry.
type CreateEntryRequest struct {
	UserID        string               `json:"-"`
	Type          models.EntryType     `json:"type"`
	Title         string               `json:"title"`
	Content       string               `json:"content"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	BibleVerses   []string             `json:"bible_verses"`
	RelatedVerses []string             `json:"related_verses"`
	AudioURLs     []string             `json:"audio_urls"`
	ImageURL      string               `json:"image_url"`
	Messages      []models.ChatMessage `json:"messages"`
}

// UpdateEntryRequest carries a partial update. Nil fields are untouched.
// Type is present only so that attempted type changes can be rejected.
type UpdateEntryRequest struct {
	Type          *models.EntryType    `json:"type"`
	Title         *string              `json:"title"`
	Content       *string              `json:"content"`
	Description   *string              `json:"description"`
	Category      *string              `json:"category"`
	BibleVerses   []string             `json:"bible_verses"`
	RelatedVerses []string             `json:"related_verses"`
	AudioURLs     []string             `json:"audio_urls"`
	ImageURL      *string              `json:"image_url"`
	Messages      []models.ChatMessage `json:"messages"`
	AudioSegments map[string]any       `json:"audio_segments"`
}

// EntryService defines business operations on entries
type EntryService interface {
	CreateEntry(ctx context.Context, req *CreateEntryRequest) (*models.Entry, error)
	GetEntry(ctx context.Context, id, userID string) (*models.Entry, error)
	ListEntries(ctx context.Context, userID string) ([]models.Entry, error)
	UpdateEntry(ctx context.Context, id, userID string, req *UpdateEntryRequest) (*models.Entry, error)
	DeleteEntry(ctx context.Context, id, userID string) error
}
