package services

import (
	"context"

	"versekeep/internal/domain/models"
)

// EntryLinks is the two-sided result of a link lookup for one entry.
type EntryLinks struct {
	SourceLinks []models.EntryLink `json:"source_links"`
	TargetLinks []models.EntryLink `json:"target_links"`
}

// LinkService defines operations on the entry-linking graph
type LinkService interface {
	// CreateLink links two entries; creating an edge that already exists in
	// either direction returns the existing edge.
	CreateLink(ctx context.Context, sourceID, targetID, userID string) (*models.EntryLink, error)

	// GetLinks returns the raw two-sided link rows for an entry
	GetLinks(ctx context.Context, entryID, userID string) (*EntryLinks, error)

	// ResolveRelated returns the entries on the opposite side of every link,
	// deduplicated by id with missing entries dropped.
	ResolveRelated(ctx context.Context, entryID, userID string) ([]models.Entry, error)

	// DeleteLink removes one edge
	DeleteLink(ctx context.Context, linkID, userID string) error
}
