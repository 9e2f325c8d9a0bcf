package services

import "context"

// PassageResult is one hit from the Bible passage collaborator.
type PassageResult struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// PassageClient is the external Bible passage lookup collaborator.
type PassageClient interface {
	GetPassage(ctx context.Context, reference string) (*PassageResult, error)
	Search(ctx context.Context, query string) ([]PassageResult, error)
}

// VerseResolver turns loosely formatted verse references into passage text.
// Failures surface as a fixed user-visible string, never as an error.
type VerseResolver interface {
	Resolve(ctx context.Context, reference string) string
	Search(ctx context.Context, query string) ([]PassageResult, error)
}
