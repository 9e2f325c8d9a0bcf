package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"versekeep/internal/domain"
	"versekeep/internal/domain/models"
	"versekeep/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLinkRepository implements the LinkRepository interface
type PostgresLinkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(config *RepositoryConfig) repositories.LinkRepository {
	return &PostgresLinkRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create persists a new link. The edge is undirected in meaning, so the
// existence check canonicalizes the pair: A->B followed by B->A returns the
// stored A->B edge instead of inserting a reverse duplicate. A concurrent
// insert losing the race against the unique pair index resolves the same
// way, by reloading the winning edge.
func (r *PostgresLinkRepository) Create(ctx context.Context, link *models.EntryLink) (*models.EntryLink, error) {
	lo, hi := models.CanonicalPair(link.SourceEntryID, link.TargetEntryID)
	executor := GetExecutor(ctx, r.pool)

	existing, err := r.findByPair(ctx, executor, link.UserID, lo, hi)
	if err == nil {
		return existing, nil
	}
	if !IsPgNoRowsError(err) {
		return nil, fmt.Errorf("check existing link: %w", err)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (source_entry_id, target_entry_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Links)

	err = executor.QueryRow(ctx, insertQuery,
		link.SourceEntryID,
		link.TargetEntryID,
		link.UserID,
	).Scan(&link.ID, &link.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return nil, fmt.Errorf("linked entry: %w", domain.ErrNotFound)
		}
		if IsPgDuplicateError(err) {
			existing, lookupErr := r.findByPair(ctx, executor, link.UserID, lo, hi)
			if lookupErr != nil {
				return nil, fmt.Errorf("load concurrent link: %w", lookupErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("create link: %w", err)
	}

	return link, nil
}

// findByPair looks up the one edge stored for a canonicalized entry pair.
// Returns pgx.ErrNoRows (wrapped by the driver) when no edge exists.
func (r *PostgresLinkRepository) findByPair(ctx context.Context, executor repositories.DBTX, userID, lo, hi string) (*models.EntryLink, error) {
	query := fmt.Sprintf(`
		SELECT id, source_entry_id, target_entry_id, user_id, created_at
		FROM %s
		WHERE user_id = $1
		  AND LEAST(source_entry_id::text, target_entry_id::text) = $2
		  AND GREATEST(source_entry_id::text, target_entry_id::text) = $3
	`, r.tables.Links)

	var link models.EntryLink
	err := executor.QueryRow(ctx, query, userID, lo, hi).Scan(
		&link.ID,
		&link.SourceEntryID,
		&link.TargetEntryID,
		&link.UserID,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &link, nil
}

// GetForEntry retrieves source-side and target-side links as two independent
// result sets, the way every caller consumes them.
func (r *PostgresLinkRepository) GetForEntry(ctx context.Context, entryID, userID string) ([]models.EntryLink, []models.EntryLink, error) {
	sourceLinks, err := r.queryLinks(ctx, "source_entry_id", entryID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get source links: %w", err)
	}

	targetLinks, err := r.queryLinks(ctx, "target_entry_id", entryID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get target links: %w", err)
	}

	return sourceLinks, targetLinks, nil
}

func (r *PostgresLinkRepository) queryLinks(ctx context.Context, column, entryID, userID string) ([]models.EntryLink, error) {
	query := fmt.Sprintf(`
		SELECT id, source_entry_id, target_entry_id, user_id, created_at
		FROM %s
		WHERE %s = $1 AND user_id = $2
		ORDER BY created_at ASC
	`, r.tables.Links, column)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, entryID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []models.EntryLink{}
	for rows.Next() {
		var link models.EntryLink
		err := rows.Scan(
			&link.ID,
			&link.SourceEntryID,
			&link.TargetEntryID,
			&link.UserID,
			&link.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}

	return links, nil
}

// GetByID retrieves a single link scoped to its owner
func (r *PostgresLinkRepository) GetByID(ctx context.Context, id, userID string) (*models.EntryLink, error) {
	query := fmt.Sprintf(`
		SELECT id, source_entry_id, target_entry_id, user_id, created_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Links)

	var link models.EntryLink
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(
		&link.ID,
		&link.SourceEntryID,
		&link.TargetEntryID,
		&link.UserID,
		&link.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get link: %w", err)
	}

	return &link, nil
}

// Delete hard-deletes one edge
func (r *PostgresLinkRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Links)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
