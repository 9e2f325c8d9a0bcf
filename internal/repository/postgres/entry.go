package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"versekeep/internal/domain"
	"versekeep/internal/domain/models"
	"versekeep/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// entryColumns is the full column list scanned into a models.Entry.
const entryColumns = `id, user_id, type, title, content, description, category,
	bible_verses, related_verses, audio_urls, image_url,
	ai_conversations, messages, audio_segments, point_chats,
	created_at, updated_at`

// PostgresEntryRepository implements the EntryRepository interface
type PostgresEntryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(config *RepositoryConfig) repositories.EntryRepository {
	return &PostgresEntryRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create persists a new entry. The database assigns id and timestamps.
func (r *PostgresEntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, type, title, content, description, category,
			bible_verses, related_verses, audio_urls, image_url,
			ai_conversations, messages, audio_segments, point_chats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, r.tables.Entries)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		entry.UserID,
		entry.Type,
		entry.Title,
		entry.Content,
		entry.Description,
		entry.Category,
		entry.BibleVerses,
		entry.RelatedVerses,
		entry.AudioURLs,
		entry.ImageURL,
		entry.AIConversations, // pgx handles slice -> JSONB (nil becomes NULL)
		entry.Messages,
		entry.AudioSegments, // pgx handles map -> JSONB (nil becomes NULL)
		entry.PointChats,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	return nil
}

// GetByID retrieves an entry by ID, scoped to its owner
func (r *PostgresEntryRepository) GetByID(ctx context.Context, id, userID string) (*models.Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, entryColumns, r.tables.Entries)

	executor := GetExecutor(ctx, r.pool)
	entry, err := scanEntry(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return entry, nil
}

// GetByIDs batch-fetches entries by id. Ids with no matching row are absent
// from the result; callers dedupe and drop missing entries themselves.
func (r *PostgresEntryRepository) GetByIDs(ctx context.Context, ids []string, userID string) ([]models.Entry, error) {
	if len(ids) == 0 {
		return []models.Entry{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = ANY($1::uuid[]) AND user_id = $2
	`, entryColumns, r.tables.Entries)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids, userID)
	if err != nil {
		return nil, fmt.Errorf("batch get entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// ListByUser lists all entries for a user ordered by created_at descending.
// If the store reports a missing composite index for the filtered-and-sorted
// query, the same filter is retried unsorted and the descending sort is done
// client-side.
func (r *PostgresEntryRepository) ListByUser(ctx context.Context, userID string) ([]models.Entry, error) {
	sorted := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, entryColumns, r.tables.Entries)

	entries, err := r.queryEntries(ctx, sorted, userID)
	if err == nil {
		return entries, nil
	}
	if !IsMissingIndexError(err) {
		return nil, err
	}

	r.logger.Warn("list query missing index, retrying unsorted", "user_id", userID, "error", err)

	unsorted := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
	`, entryColumns, r.tables.Entries)

	entries, err = r.queryEntries(ctx, unsorted, userID)
	if err != nil {
		return nil, err
	}

	SortEntriesNewestFirst(entries)
	return entries, nil
}

// SortEntriesNewestFirst sorts entries by created_at descending in place.
// Zero timestamps sort as the epoch, i.e. last.
func SortEntriesNewestFirst(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

func (r *PostgresEntryRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]models.Entry, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// Update applies a partial update. Nil fields in the update are untouched.
// audio_segments is merged key-wise with the stored map so concurrent partial
// updates to different segments don't clobber each other; every other field
// is replaced outright.
func (r *PostgresEntryRepository) Update(ctx context.Context, id, userID string, update *repositories.EntryUpdate) (*models.Entry, error) {
	setClauses := []string{}
	args := []interface{}{}
	param := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, param))
		args = append(args, value)
		param++
	}

	if update.Title != nil {
		addSet("title", *update.Title)
	}
	if update.Content != nil {
		addSet("content", *update.Content)
	}
	if update.Description != nil {
		addSet("description", *update.Description)
	}
	if update.Category != nil {
		addSet("category", *update.Category)
	}
	if update.BibleVerses != nil {
		addSet("bible_verses", update.BibleVerses)
	}
	if update.RelatedVerses != nil {
		addSet("related_verses", update.RelatedVerses)
	}
	if update.AudioURLs != nil {
		addSet("audio_urls", update.AudioURLs)
	}
	if update.ImageURL != nil {
		addSet("image_url", *update.ImageURL)
	}
	if update.Messages != nil {
		addSet("messages", update.Messages)
	}
	if update.PointChats != nil {
		addSet("point_chats", update.PointChats)
	}
	if update.AudioSegments != nil {
		// Key-wise merge instead of replacement
		setClauses = append(setClauses,
			fmt.Sprintf("audio_segments = COALESCE(audio_segments, '{}'::jsonb) || $%d", param))
		args = append(args, update.AudioSegments)
		param++
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s
	`, r.tables.Entries, strings.Join(setClauses, ", "), param, param+1, entryColumns)
	args = append(args, id, userID)

	executor := GetExecutor(ctx, r.pool)
	entry, err := scanEntry(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update entry: %w", err)
	}

	return entry, nil
}

// AppendConversation appends one Q&A exchange to the entry's ai_conversations
func (r *PostgresEntryRepository) AppendConversation(ctx context.Context, id, userID string, conv models.AIConversation) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET ai_conversations = COALESCE(ai_conversations, '[]'::jsonb) || $3,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, r.tables.Entries)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID, []models.AIConversation{conv})
	if err != nil {
		return fmt.Errorf("append conversation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// AppendAudioURL appends an uploaded audio URL to the entry
func (r *PostgresEntryRepository) AppendAudioURL(ctx context.Context, id, userID, url string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET audio_urls = array_append(audio_urls, $3),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, r.tables.Entries)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID, url)
	if err != nil {
		return fmt.Errorf("append audio url: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete hard-deletes an entry. Link rows referencing it are removed by the
// schema's ON DELETE CASCADE.
func (r *PostgresEntryRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Entries)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var entry models.Entry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Type,
		&entry.Title,
		&entry.Content,
		&entry.Description,
		&entry.Category,
		&entry.BibleVerses,
		&entry.RelatedVerses,
		&entry.AudioURLs,
		&entry.ImageURL,
		&entry.AIConversations, // pgx handles JSONB -> slice
		&entry.Messages,
		&entry.AudioSegments, // pgx handles JSONB -> map
		&entry.PointChats,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Return empty slices instead of nil for array-valued metadata
	if entry.BibleVerses == nil {
		entry.BibleVerses = []string{}
	}
	if entry.RelatedVerses == nil {
		entry.RelatedVerses = []string{}
	}

	return &entry, nil
}
