package service

import (
	"context"
	"fmt"
	"log/slog"

	"versekeep/internal/domain"
	"versekeep/internal/domain/models"
	"versekeep/internal/domain/repositories"
	"versekeep/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxTitleLength = 500

// entryService implements the EntryService interface
type entryService struct {
	entryRepo repositories.EntryRepository
	logger    *slog.Logger
}

// NewEntryService creates a new entry service
func NewEntryService(entryRepo repositories.EntryRepository, logger *slog.Logger) services.EntryService {
	return &entryService{
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// CreateEntry validates and persists a new entry
func (s *entryService) CreateEntry(ctx context.Context, req *services.CreateEntryRequest) (*models.Entry, error) {
	if err := validateCreateEntry(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	entry := &models.Entry{
		UserID:        req.UserID,
		Type:          req.Type,
		Title:         req.Title,
		Content:       req.Content,
		Description:   req.Description,
		Category:      req.Category,
		BibleVerses:   orEmpty(req.BibleVerses),
		RelatedVerses: orEmpty(req.RelatedVerses),
		AudioURLs:     req.AudioURLs,
		ImageURL:      req.ImageURL,
		Messages:      req.Messages,
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Debug("entry created",
		"entry_id", entry.ID,
		"type", entry.Type,
		"user_id", entry.UserID,
	)

	return entry, nil
}

// GetEntry retrieves an entry by ID
func (s *entryService) GetEntry(ctx context.Context, id, userID string) (*models.Entry, error) {
	return s.entryRepo.GetByID(ctx, id, userID)
}

// ListEntries lists the user's entries, newest first
func (s *entryService) ListEntries(ctx context.Context, userID string) ([]models.Entry, error) {
	return s.entryRepo.ListByUser(ctx, userID)
}

// UpdateEntry applies a partial update. The entry type is immutable after
// creation: a type change would orphan the type-specific content structure,
// so any attempt is rejected.
func (s *entryService) UpdateEntry(ctx context.Context, id, userID string, req *services.UpdateEntryRequest) (*models.Entry, error) {
	if req.Type != nil {
		existing, err := s.entryRepo.GetByID(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if *req.Type != existing.Type {
			return nil, fmt.Errorf("%w: entry type cannot be changed after creation", domain.ErrValidation)
		}
	}

	if req.Title != nil {
		if err := validation.Validate(*req.Title, validation.Length(0, maxTitleLength)); err != nil {
			return nil, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
		}
	}

	update := &repositories.EntryUpdate{
		Title:         req.Title,
		Content:       req.Content,
		Description:   req.Description,
		Category:      req.Category,
		BibleVerses:   req.BibleVerses,
		RelatedVerses: req.RelatedVerses,
		AudioURLs:     req.AudioURLs,
		ImageURL:      req.ImageURL,
		Messages:      req.Messages,
		AudioSegments: req.AudioSegments,
	}

	return s.entryRepo.Update(ctx, id, userID, update)
}

// DeleteEntry hard-deletes an entry
func (s *entryService) DeleteEntry(ctx context.Context, id, userID string) error {
	if err := s.entryRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Debug("entry deleted", "entry_id", id, "user_id", userID)
	return nil
}

func validateCreateEntry(req *services.CreateEntryRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Type,
			validation.Required,
			validation.By(func(value interface{}) error {
				t, _ := value.(models.EntryType)
				if !models.IsValidEntryType(t) {
					return fmt.Errorf("unknown entry type %q", t)
				}
				return nil
			}),
		),
		validation.Field(&req.Title, validation.Length(0, maxTitleLength)),
	)
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
