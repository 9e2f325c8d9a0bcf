package service

import (
	"context"
	"fmt"
	"log/slog"

	"versekeep/internal/domain"
	"versekeep/internal/domain/models"
	"versekeep/internal/domain/repositories"
	"versekeep/internal/domain/services"
)

// linkService implements the LinkService interface
type linkService struct {
	linkRepo  repositories.LinkRepository
	entryRepo repositories.EntryRepository
	logger    *slog.Logger
}

// NewLinkService creates a new link service
func NewLinkService(linkRepo repositories.LinkRepository, entryRepo repositories.EntryRepository, logger *slog.Logger) services.LinkService {
	return &linkService{
		linkRepo:  linkRepo,
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// CreateLink links two entries. Both endpoints must exist and belong to the
// user; an existing edge in either direction is returned as-is.
func (s *linkService) CreateLink(ctx context.Context, sourceID, targetID, userID string) (*models.EntryLink, error) {
	if sourceID == targetID {
		return nil, fmt.Errorf("%w: an entry cannot be linked to itself", domain.ErrValidation)
	}

	if _, err := s.entryRepo.GetByID(ctx, sourceID, userID); err != nil {
		return nil, err
	}
	if _, err := s.entryRepo.GetByID(ctx, targetID, userID); err != nil {
		return nil, err
	}

	link := &models.EntryLink{
		SourceEntryID: sourceID,
		TargetEntryID: targetID,
		UserID:        userID,
	}

	created, err := s.linkRepo.Create(ctx, link)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetLinks returns the raw two-sided link rows for an entry
func (s *linkService) GetLinks(ctx context.Context, entryID, userID string) (*services.EntryLinks, error) {
	sourceLinks, targetLinks, err := s.linkRepo.GetForEntry(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	return &services.EntryLinks{
		SourceLinks: sourceLinks,
		TargetLinks: targetLinks,
	}, nil
}

// ResolveRelated is the shared resolution pipeline every view uses:
// fetch links, collect the opposite-side id of each, batch-fetch those
// entries, dedupe by id, and drop entries that no longer exist.
func (s *linkService) ResolveRelated(ctx context.Context, entryID, userID string) ([]models.Entry, error) {
	sourceLinks, targetLinks, err := s.linkRepo.GetForEntry(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	ids := make([]string, 0, len(sourceLinks)+len(targetLinks))
	for _, link := range sourceLinks {
		other := link.OtherSide(entryID)
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	for _, link := range targetLinks {
		other := link.OtherSide(entryID)
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}

	// Batch fetch; ids with no surviving entry are silently absent
	entries, err := s.entryRepo.GetByIDs(ctx, ids, userID)
	if err != nil {
		return nil, err
	}

	// Dedupe by id in case the store returned overlapping rows
	byID := make(map[string]bool, len(entries))
	resolved := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		if byID[entry.ID] {
			continue
		}
		byID[entry.ID] = true
		resolved = append(resolved, entry)
	}

	return resolved, nil
}

// DeleteLink removes one edge
func (s *linkService) DeleteLink(ctx context.Context, linkID, userID string) error {
	if err := s.linkRepo.Delete(ctx, linkID, userID); err != nil {
		return err
	}

	s.logger.Debug("link deleted", "link_id", linkID, "user_id", userID)
	return nil
}
