package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"versekeep/internal/domain/services"
)

// passageUnavailable is the fixed user-visible string shown in place of
// passage text when lookup fails. Resolution never surfaces an error.
const passageUnavailable = "Unable to load passage text."

// Reference extraction cascade, most specific first. Book names may carry a
// leading ordinal ("1 John", "2 Kings").
var (
	// "John 3:16" or "John 3:16-18"
	refExact = regexp.MustCompile(`([1-3]?\s?[A-Za-z]+)\.?\s+(\d+):(\d+)(?:\s*-\s*(\d+))?`)
	// "John 3 verse 16"
	refVerseWord = regexp.MustCompile(`(?i)([1-3]?\s?[A-Za-z]+)\.?\s+(\d+)\s+verse\s+(\d+)`)
	// "jn 3 16" - book, chapter, verse separated by spaces only
	refSpaced = regexp.MustCompile(`([1-3]?\s?[A-Za-z]+)\.?\s+(\d+)\s+(\d+)\b`)
	// "John 3"
	refChapter = regexp.MustCompile(`([1-3]?\s?[A-Za-z]+)\.?\s+(\d+)\b`)
)

// verseResolver implements the VerseResolver interface
type verseResolver struct {
	client services.PassageClient
	logger *slog.Logger
}

// NewVerseResolver creates a new verse resolver
func NewVerseResolver(client services.PassageClient, logger *slog.Logger) services.VerseResolver {
	return &verseResolver{
		client: client,
		logger: logger,
	}
}

// Resolve extracts a canonical-looking reference from loosely formatted input
// and fetches its passage text. Failure yields the fixed unavailable string.
func (r *verseResolver) Resolve(ctx context.Context, reference string) string {
	lookup := ExtractReference(reference)

	result, err := r.client.GetPassage(ctx, lookup)
	if err != nil {
		r.logger.Warn("passage lookup failed",
			"reference", reference,
			"lookup", lookup,
			"error", err,
		)
		return passageUnavailable
	}

	return result.Text
}

// Search passes a free-text query to the vendor's search endpoint.
func (r *verseResolver) Search(ctx context.Context, query string) ([]services.PassageResult, error) {
	return r.client.Search(ctx, query)
}

// ExtractReference normalizes loosely formatted verse input into a
// "[Book] [Chapter]:[Verse]" shaped lookup string. The cascade tries exact
// Book C:V[-V], then "Book C verse V", then space-separated Book C V, then
// bare Book C; if nothing matches, the first three words are used as-is.
func ExtractReference(input string) string {
	input = strings.TrimSpace(input)

	if m := refExact.FindStringSubmatch(input); m != nil {
		ref := fmt.Sprintf("%s %s:%s", strings.TrimSpace(m[1]), m[2], m[3])
		if m[4] != "" {
			ref += "-" + m[4]
		}
		return ref
	}

	if m := refVerseWord.FindStringSubmatch(input); m != nil {
		return fmt.Sprintf("%s %s:%s", strings.TrimSpace(m[1]), m[2], m[3])
	}

	if m := refSpaced.FindStringSubmatch(input); m != nil {
		return fmt.Sprintf("%s %s:%s", strings.TrimSpace(m[1]), m[2], m[3])
	}

	if m := refChapter.FindStringSubmatch(input); m != nil {
		return fmt.Sprintf("%s %s", strings.TrimSpace(m[1]), m[2])
	}

	words := strings.Fields(input)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}
