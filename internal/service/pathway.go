package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"versekeep/internal/domain"
	"versekeep/internal/domain/models"
	"versekeep/internal/domain/repositories"
	"versekeep/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// pathwayService implements the PathwayService interface. Every mutation runs
// inside a transaction so the serialized point list and the positional
// chat-history map are persisted together or not at all.
type pathwayService struct {
	entryRepo repositories.EntryRepository
	txManager repositories.TransactionManager
	provider  services.CompletionProvider
	logger    *slog.Logger
}

// NewPathwayService creates a new pathway service
func NewPathwayService(
	entryRepo repositories.EntryRepository,
	txManager repositories.TransactionManager,
	provider services.CompletionProvider,
	logger *slog.Logger,
) services.PathwayService {
	return &pathwayService{
		entryRepo: entryRepo,
		txManager: txManager,
		provider:  provider,
		logger:    logger,
	}
}

// InsertPoint splices a new point at the requested index. Chat-history keys
// at or above the index are shifted up by one before the splice so history
// stays attached to the correct point; the new point starts with no history.
func (s *pathwayService) InsertPoint(ctx context.Context, entryID, userID string, req *services.InsertPointRequest) (*models.Entry, error) {
	if err := validation.Validate(req.Point.Title, validation.Required); err != nil {
		return nil, fmt.Errorf("%w: point title: %v", domain.ErrValidation, err)
	}
	if req.Index < 0 {
		return nil, fmt.Errorf("%w: index must not be negative", domain.ErrValidation)
	}

	var updated *models.Entry
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		entry, pathway, err := s.loadPathway(txCtx, entryID, userID)
		if err != nil {
			return err
		}

		index := req.Index
		if index > len(pathway.Points) {
			index = len(pathway.Points)
		}

		pathway.Points = models.InsertPoint(pathway.Points, index, req.Point)
		chats := models.ShiftChatsUp(entry.PointChats, index)

		updated, err = s.persistPathway(txCtx, entryID, userID, pathway, chats)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("pathway point inserted",
		"entry_id", entryID,
		"index", req.Index,
	)

	return updated, nil
}

// RemovePoint deletes the point at index, discarding its chat history and
// shifting higher chat keys down.
func (s *pathwayService) RemovePoint(ctx context.Context, entryID, userID string, index int) (*models.Entry, error) {
	var updated *models.Entry
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		entry, pathway, err := s.loadPathway(txCtx, entryID, userID)
		if err != nil {
			return err
		}

		points, err := models.RemovePoint(pathway.Points, index)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		pathway.Points = points
		chats := models.ShiftChatsDown(entry.PointChats, index)

		updated, err = s.persistPathway(txCtx, entryID, userID, pathway, chats)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// CompletePoint marks the point complete for userID. Re-completing an already
// completed point overwrites only that user's timestamp; other users'
// completion markers are untouched.
func (s *pathwayService) CompletePoint(ctx context.Context, entryID, userID string, index int) (*models.Entry, error) {
	var updated *models.Entry
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		entry, pathway, err := s.loadPathway(txCtx, entryID, userID)
		if err != nil {
			return err
		}

		if index < 0 || index >= len(pathway.Points) {
			return fmt.Errorf("%w: point index %d out of range", domain.ErrValidation, index)
		}

		pathway.Points[index].Complete(userID, time.Now())

		updated, err = s.persistPathway(txCtx, entryID, userID, pathway, entry.PointChats)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// EditVerses applies one verse-editing sub-operation to a point. The whole
// payload is re-serialized and persisted; last write wins at the document
// level.
func (s *pathwayService) EditVerses(ctx context.Context, entryID, userID string, index int, req *services.EditVersesRequest) (*models.Entry, error) {
	var updated *models.Entry
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		entry, pathway, err := s.loadPathway(txCtx, entryID, userID)
		if err != nil {
			return err
		}

		if index < 0 || index >= len(pathway.Points) {
			return fmt.Errorf("%w: point index %d out of range", domain.ErrValidation, index)
		}

		point := &pathway.Points[index]
		if err := applyVerseEdit(point, req); err != nil {
			return err
		}

		updated, err = s.persistPathway(txCtx, entryID, userID, pathway, entry.PointChats)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// GetPointChat returns the conversation history of one point
func (s *pathwayService) GetPointChat(ctx context.Context, entryID, userID string, index int) ([]models.ChatMessage, error) {
	entry, pathway, err := s.loadPathway(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(pathway.Points) {
		return nil, fmt.Errorf("%w: point index %d out of range", domain.ErrValidation, index)
	}

	history := entry.PointChats[strconv.Itoa(index)]
	if history == nil {
		history = []models.ChatMessage{}
	}
	return history, nil
}

// AskPoint answers a free-text question about one point, appending both the
// question and the answer to the point's chat history. A provider failure is
// swallowed into the conversation as the fixed apology answer.
func (s *pathwayService) AskPoint(ctx context.Context, entryID, userID string, index int, question string) ([]models.ChatMessage, error) {
	if err := validation.Validate(question, validation.Required); err != nil {
		return nil, fmt.Errorf("%w: question: %v", domain.ErrValidation, err)
	}

	entry, pathway, err := s.loadPathway(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(pathway.Points) {
		return nil, fmt.Errorf("%w: point index %d out of range", domain.ErrValidation, index)
	}

	key := strconv.Itoa(index)
	history := entry.PointChats[key]

	messages := buildPointMessages(entry, &pathway.Points[index], history, question)

	answer, err := s.provider.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("point completion failed",
			"entry_id", entryID,
			"point_index", index,
			"error", err,
		)
		answer = apologyAnswer
	}

	history = append(history,
		models.ChatMessage{Role: "user", Content: question},
		models.ChatMessage{Role: "assistant", Content: answer},
	)

	var updated []models.ChatMessage
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		fresh, err := s.entryRepo.GetByID(txCtx, entryID, userID)
		if err != nil {
			return err
		}

		chats := fresh.PointChats
		if chats == nil {
			chats = models.PointChats{}
		}
		chats[key] = history

		if _, err := s.entryRepo.Update(txCtx, entryID, userID, &repositories.EntryUpdate{PointChats: chats}); err != nil {
			return err
		}

		updated = history
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// loadPathway fetches the entry and decodes its pathway payload. Non-pathway
// entries are rejected; malformed payloads degrade to an empty point list.
func (s *pathwayService) loadPathway(ctx context.Context, entryID, userID string) (*models.Entry, *models.PathwayPayload, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID, userID)
	if err != nil {
		return nil, nil, err
	}

	if entry.Type != models.EntryTypePathway {
		return nil, nil, fmt.Errorf("%w: entry %s is not a pathway", domain.ErrValidation, entryID)
	}

	payload := models.ParsePayload(entry.Type, entry.Content)
	return entry, payload.Pathway, nil
}

// persistPathway writes the re-encoded payload and the chat map in one update.
func (s *pathwayService) persistPathway(ctx context.Context, entryID, userID string, pathway *models.PathwayPayload, chats models.PointChats) (*models.Entry, error) {
	content, err := models.EncodePathway(pathway)
	if err != nil {
		return nil, fmt.Errorf("encode pathway: %w", err)
	}

	update := &repositories.EntryUpdate{
		Content:    &content,
		PointChats: chats,
	}
	return s.entryRepo.Update(ctx, entryID, userID, update)
}

func applyVerseEdit(point *models.PathwayPoint, req *services.EditVersesRequest) error {
	switch req.Op {
	case services.VerseOpSetPrimary:
		if req.Verse == "" {
			return fmt.Errorf("%w: verse is required", domain.ErrValidation)
		}
		point.PrimaryVerse = req.Verse

	case services.VerseOpClearPrimary:
		point.PrimaryVerse = ""

	case services.VerseOpAddAdditional:
		if req.Verse == "" {
			return fmt.Errorf("%w: verse is required", domain.ErrValidation)
		}
		point.AdditionalVerses = append(point.AdditionalVerses, req.Verse)

	case services.VerseOpUpdateAdditional:
		if req.VerseIndex < 0 || req.VerseIndex >= len(point.AdditionalVerses) {
			return fmt.Errorf("%w: verse index %d out of range", domain.ErrValidation, req.VerseIndex)
		}
		if req.Verse == "" {
			return fmt.Errorf("%w: verse is required", domain.ErrValidation)
		}
		point.AdditionalVerses[req.VerseIndex] = req.Verse

	case services.VerseOpRemoveAdditional:
		if req.VerseIndex < 0 || req.VerseIndex >= len(point.AdditionalVerses) {
			return fmt.Errorf("%w: verse index %d out of range", domain.ErrValidation, req.VerseIndex)
		}
		point.AdditionalVerses = append(
			point.AdditionalVerses[:req.VerseIndex],
			point.AdditionalVerses[req.VerseIndex+1:]...,
		)

	case services.VerseOpSetNotes:
		point.Notes = req.Notes

	default:
		return fmt.Errorf("%w: unknown verse edit op %q", domain.ErrValidation, req.Op)
	}

	return nil
}

// buildPointMessages assembles the provider conversation: a context turn
// describing the point, then the stored history, then the new question.
func buildPointMessages(entry *models.Entry, point *models.PathwayPoint, history []models.ChatMessage, question string) []services.CompletionMessage {
	context := fmt.Sprintf("You are helping with a study pathway %q, step %q.", entry.Title, point.Title)
	if point.PrimaryVerse != "" {
		context += fmt.Sprintf(" The primary verse is %s.", point.PrimaryVerse)
	}
	if point.Description != "" {
		context += " " + point.Description
	}

	messages := []services.CompletionMessage{{Role: "user", Content: context}}
	messages = append(messages, services.CompletionMessage{Role: "assistant", Content: "Understood. How can I help with this step?"})

	for _, turn := range history {
		messages = append(messages, services.CompletionMessage{Role: turn.Role, Content: turn.Content})
	}

	messages = append(messages, services.CompletionMessage{Role: "user", Content: question})
	return messages
}
