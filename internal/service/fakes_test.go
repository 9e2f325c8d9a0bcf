package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"versekeep/internal/domain"
	"versekeep/internal/domain/models"
	"versekeep/internal/domain/repositories"
	"versekeep/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEntryRepo is an in-memory EntryRepository.
type fakeEntryRepo struct {
	entries map[string]*models.Entry
	nextID  int
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]*models.Entry)}
}

func (r *fakeEntryRepo) add(entry *models.Entry) *models.Entry {
	if entry.ID == "" {
		r.nextID++
		entry.ID = "entry-" + strconv.Itoa(r.nextID)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries[entry.ID] = entry
	return entry
}

func (r *fakeEntryRepo) Create(ctx context.Context, entry *models.Entry) error {
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.add(entry)
	return nil
}

func (r *fakeEntryRepo) GetByID(ctx context.Context, id, userID string) (*models.Entry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return nil, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	snapshot := *entry
	return &snapshot, nil
}

func (r *fakeEntryRepo) GetByIDs(ctx context.Context, ids []string, userID string) ([]models.Entry, error) {
	out := make([]models.Entry, 0, len(ids))
	for _, id := range ids {
		if entry, ok := r.entries[id]; ok && entry.UserID == userID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) ListByUser(ctx context.Context, userID string) ([]models.Entry, error) {
	out := make([]models.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) Update(ctx context.Context, id, userID string, update *repositories.EntryUpdate) (*models.Entry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return nil, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}

	if update.Title != nil {
		entry.Title = *update.Title
	}
	if update.Content != nil {
		entry.Content = *update.Content
	}
	if update.Description != nil {
		entry.Description = *update.Description
	}
	if update.Category != nil {
		entry.Category = *update.Category
	}
	if update.BibleVerses != nil {
		entry.BibleVerses = update.BibleVerses
	}
	if update.RelatedVerses != nil {
		entry.RelatedVerses = update.RelatedVerses
	}
	if update.AudioURLs != nil {
		entry.AudioURLs = update.AudioURLs
	}
	if update.ImageURL != nil {
		entry.ImageURL = *update.ImageURL
	}
	if update.Messages != nil {
		entry.Messages = update.Messages
	}
	if update.AudioSegments != nil {
		if entry.AudioSegments == nil {
			entry.AudioSegments = map[string]any{}
		}
		for key, value := range update.AudioSegments {
			entry.AudioSegments[key] = value
		}
	}
	if update.PointChats != nil {
		entry.PointChats = update.PointChats
	}
	entry.UpdatedAt = time.Now()

	snapshot := *entry
	return &snapshot, nil
}

func (r *fakeEntryRepo) AppendConversation(ctx context.Context, id, userID string, conv models.AIConversation) error {
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	entry.AIConversations = append(entry.AIConversations, conv)
	return nil
}

func (r *fakeEntryRepo) AppendAudioURL(ctx context.Context, id, userID, url string) error {
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	entry.AudioURLs = append(entry.AudioURLs, url)
	return nil
}

func (r *fakeEntryRepo) Delete(ctx context.Context, id, userID string) error {
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	delete(r.entries, id)
	return nil
}

// fakeLinkRepo is an in-memory LinkRepository with canonical duplicate checks.
type fakeLinkRepo struct {
	links  map[string]*models.EntryLink
	nextID int
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*models.EntryLink)}
}

func (r *fakeLinkRepo) Create(ctx context.Context, link *models.EntryLink) (*models.EntryLink, error) {
	wantA, wantB := models.CanonicalPair(link.SourceEntryID, link.TargetEntryID)
	for _, existing := range r.links {
		a, b := models.CanonicalPair(existing.SourceEntryID, existing.TargetEntryID)
		if existing.UserID == link.UserID && a == wantA && b == wantB {
			snapshot := *existing
			return &snapshot, nil
		}
	}

	r.nextID++
	stored := *link
	stored.ID = "link-" + strconv.Itoa(r.nextID)
	stored.CreatedAt = time.Now()
	r.links[stored.ID] = &stored

	snapshot := stored
	return &snapshot, nil
}

func (r *fakeLinkRepo) GetForEntry(ctx context.Context, entryID, userID string) ([]models.EntryLink, []models.EntryLink, error) {
	var sourceLinks, targetLinks []models.EntryLink
	for _, link := range r.links {
		if link.UserID != userID {
			continue
		}
		if link.SourceEntryID == entryID {
			sourceLinks = append(sourceLinks, *link)
		}
		if link.TargetEntryID == entryID {
			targetLinks = append(targetLinks, *link)
		}
	}
	return sourceLinks, targetLinks, nil
}

func (r *fakeLinkRepo) GetByID(ctx context.Context, id, userID string) (*models.EntryLink, error) {
	link, ok := r.links[id]
	if !ok || link.UserID != userID {
		return nil, fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
	}
	snapshot := *link
	return &snapshot, nil
}

func (r *fakeLinkRepo) Delete(ctx context.Context, id, userID string) error {
	link, ok := r.links[id]
	if !ok || link.UserID != userID {
		return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
	}
	delete(r.links, id)
	return nil
}

// fakeTxManager runs the function directly; the fakes have no transactions.
type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeProvider returns a scripted answer or error and records the messages it
// was called with.
type fakeProvider struct {
	answer string
	err    error
	calls  [][]services.CompletionMessage
}

func (p *fakeProvider) Complete(ctx context.Context, messages []services.CompletionMessage) (string, error) {
	p.calls = append(p.calls, messages)
	if p.err != nil {
		return "", p.err
	}
	return p.answer, nil
}

// fakePassageClient returns scripted passages and records lookups.
type fakePassageClient struct {
	text    string
	err     error
	lookups []string
}

func (c *fakePassageClient) GetPassage(ctx context.Context, reference string) (*services.PassageResult, error) {
	c.lookups = append(c.lookups, reference)
	if c.err != nil {
		return nil, c.err
	}
	return &services.PassageResult{Reference: reference, Text: c.text}, nil
}

func (c *fakePassageClient) Search(ctx context.Context, query string) ([]services.PassageResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []services.PassageResult{{Reference: query, Text: c.text}}, nil
}
