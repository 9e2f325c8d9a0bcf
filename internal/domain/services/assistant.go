package services

import (
	"context"

	"versekeep/internal/domain/models"
)

// CompletionMessage is one role-tagged turn sent to the completion provider.
type CompletionMessage struct {
	Role    string
	Content string
}

// CompletionProvider is the external chat-completion collaborator. The full
// conversation is supplied on every call; there is no server-side session.
type CompletionProvider interface {
	Complete(ctx context.Context, messages []CompletionMessage) (string, error)
}

// AskResult is the outcome of a whole-entry question.
type AskResult struct {
	Conversation models.AIConversation `json:"conversation"`
	// SpeechTaskID is set when answer synthesis was started in the background.
	SpeechTaskID string `json:"speech_task_id,omitempty"`
}

// AssistantService answers free-text questions about an entry and persists
// the exchange onto the entry's conversation history.
type AssistantService interface {
	Ask(ctx context.Context, entryID, userID, question string, withAudio bool) (*AskResult, error)
}
