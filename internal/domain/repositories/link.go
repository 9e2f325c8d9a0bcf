package repositories

import (
	"context"

	"versekeep/internal/domain/models"
)

// LinkRepository defines data access operations for entry links
type LinkRepository interface {
	// Create persists a new link. If an edge already exists between the two
	// entries in either direction, the existing link is returned instead.
	Create(ctx context.Context, link *models.EntryLink) (*models.EntryLink, error)

	// GetForEntry retrieves the links where the entry is the source and the
	// links where it is the target, as two independent result sets.
	GetForEntry(ctx context.Context, entryID, userID string) (sourceLinks, targetLinks []models.EntryLink, err error)

	// GetByID retrieves a single link scoped to its owner
	GetByID(ctx context.Context, id, userID string) (*models.EntryLink, error)

	// Delete hard-deletes one edge
	Delete(ctx context.Context, id, userID string) error
}
