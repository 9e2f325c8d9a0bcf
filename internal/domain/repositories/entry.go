package repositories

import (
	"context"

	"versekeep/internal/domain/models"
)

// EntryUpdate carries the fields of a partial entry update. Nil fields are
// left untouched. AudioSegments is merged key-wise with the stored map; every
// other field is replaced (last write wins).
type EntryUpdate struct {
	Title         *string
	Content       *string
	Description   *string
	Category      *string
	BibleVerses   []string
	RelatedVerses []string
	AudioURLs     []string
	ImageURL      *string
	Messages      []models.ChatMessage
	AudioSegments map[string]any
	PointChats    models.PointChats
}

// EntryRepository defines data access operations for entries
type EntryRepository interface {
	// Create persists a new entry, assigning id and server timestamps
	Create(ctx context.Context, entry *models.Entry) error

	// GetByID retrieves an entry scoped to its owner
	GetByID(ctx context.Context, id, userID string) (*models.Entry, error)

	// GetByIDs batch-fetches entries by id, scoped to the owner.
	// Missing ids are silently absent from the result.
	GetByIDs(ctx context.Context, ids []string, userID string) ([]models.Entry, error)

	// ListByUser lists all entries for a user, newest first
	ListByUser(ctx context.Context, userID string) ([]models.Entry, error)

	// Update applies a partial update and returns the merged entry
	Update(ctx context.Context, id, userID string, update *EntryUpdate) (*models.Entry, error)

	// AppendConversation appends one Q&A exchange to ai_conversations
	AppendConversation(ctx context.Context, id, userID string, conv models.AIConversation) error

	// AppendAudioURL appends an uploaded audio URL to the entry
	AppendAudioURL(ctx context.Context, id, userID, url string) error

	// Delete hard-deletes an entry
	Delete(ctx context.Context, id, userID string) error
}
