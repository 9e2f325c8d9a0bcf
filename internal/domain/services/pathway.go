package services

import (
	"context"

	"versekeep/internal/domain/models"
)

// InsertPointRequest adds a study point at a chosen index, shifting later
// points (and their chat-history keys) up by one.
type InsertPointRequest struct {
	Index int                 `json:"index"`
	Point models.PathwayPoint `json:"point"`
}

// VerseEditOp names one verse-editing sub-operation on a pathway point.
type VerseEditOp string

const (
	VerseOpSetPrimary       VerseEditOp = "set_primary"
	VerseOpClearPrimary     VerseEditOp = "clear_primary"
	VerseOpAddAdditional    VerseEditOp = "add_additional"
	VerseOpUpdateAdditional VerseEditOp = "update_additional"
	VerseOpRemoveAdditional VerseEditOp = "remove_additional"
	VerseOpSetNotes         VerseEditOp = "set_notes"
)

// EditVersesRequest mutates the verse fields of one pathway point.
type EditVersesRequest struct {
	Op         VerseEditOp `json:"op"`
	Verse      string      `json:"verse"`
	VerseIndex int         `json:"verse_index"`
	Notes      string      `json:"notes"`
}

// PathwayService defines the pathway point lifecycle. All mutations run in a
// transaction so the content payload and the chat-history map change together.
type PathwayService interface {
	InsertPoint(ctx context.Context, entryID, userID string, req *InsertPointRequest) (*models.Entry, error)
	RemovePoint(ctx context.Context, entryID, userID string, index int) (*models.Entry, error)
	CompletePoint(ctx context.Context, entryID, userID string, index int) (*models.Entry, error)
	EditVerses(ctx context.Context, entryID, userID string, index int, req *EditVersesRequest) (*models.Entry, error)
	GetPointChat(ctx context.Context, entryID, userID string, index int) ([]models.ChatMessage, error)
	AskPoint(ctx context.Context, entryID, userID string, index int, question string) ([]models.ChatMessage, error)
}
