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

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// apologyAnswer is persisted in place of a real answer when the completion
// provider fails. The exchange is still appended to history, flagged failed.
const apologyAnswer = "I'm sorry, I wasn't able to answer that right now. Please try again."

// assistantService implements the AssistantService interface
type assistantService struct {
	entryRepo repositories.EntryRepository
	provider  services.CompletionProvider
	audio     services.AudioService
	logger    *slog.Logger
}

// NewAssistantService creates a new assistant service. audio may be nil when
// speech synthesis is not configured.
func NewAssistantService(
	entryRepo repositories.EntryRepository,
	provider services.CompletionProvider,
	audio services.AudioService,
	logger *slog.Logger,
) services.AssistantService {
	return &assistantService{
		entryRepo: entryRepo,
		provider:  provider,
		audio:     audio,
		logger:    logger,
	}
}

// Ask answers a question about an entry. The exchange is always appended to
// the entry's conversation history: on provider failure the fixed apology
// string is stored as the answer with the failed flag set, so a broken call
// is distinguishable from a genuine "I don't know". Audio synthesis of the
// answer is best-effort and never fails the ask.
func (s *assistantService) Ask(ctx context.Context, entryID, userID, question string, withAudio bool) (*services.AskResult, error) {
	if err := validation.Validate(question, validation.Required); err != nil {
		return nil, fmt.Errorf("%w: question: %v", domain.ErrValidation, err)
	}

	entry, err := s.entryRepo.GetByID(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	messages := buildEntryMessages(entry, question)

	conv := models.AIConversation{
		Question:  question,
		Timestamp: time.Now(),
	}

	answer, err := s.provider.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("completion failed",
			"entry_id", entryID,
			"user_id", userID,
			"error", err,
		)
		conv.Answer = apologyAnswer
		conv.Failed = true
	} else {
		conv.Answer = answer
	}

	if err := s.entryRepo.AppendConversation(ctx, entryID, userID, conv); err != nil {
		return nil, err
	}

	result := &services.AskResult{Conversation: conv}

	if withAudio && !conv.Failed && s.audio != nil {
		taskID, err := s.audio.SynthesizeEntry(ctx, entryID, userID)
		if err != nil {
			// Best-effort: the text answer stands on its own
			s.logger.Warn("answer synthesis not started", "entry_id", entryID, "error", err)
		} else {
			result.SpeechTaskID = taskID
		}
	}

	return result, nil
}

// buildEntryMessages assembles the provider conversation: the entry content
// as context, the persisted history (failed exchanges included, as stored),
// then the new question.
func buildEntryMessages(entry *models.Entry, question string) []services.CompletionMessage {
	context := fmt.Sprintf("You are answering questions about the following %s entry titled %q.", entry.Type, entry.Title)
	if !models.IsBlank(entry.Content) {
		context += "\n\n" + entry.Content
	}
	if len(entry.BibleVerses) > 0 {
		context += fmt.Sprintf("\n\nRelated verses: %v", entry.BibleVerses)
	}

	messages := []services.CompletionMessage{
		{Role: "user", Content: context},
		{Role: "assistant", Content: "Understood. What would you like to know?"},
	}

	for _, past := range entry.AIConversations {
		messages = append(messages,
			services.CompletionMessage{Role: "user", Content: past.Question},
			services.CompletionMessage{Role: "assistant", Content: past.Answer},
		)
	}

	messages = append(messages, services.CompletionMessage{Role: "user", Content: question})
	return messages
}
