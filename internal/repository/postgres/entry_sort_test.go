package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"versekeep/internal/domain/models"
)

func TestSortEntriesNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	entries := []models.Entry{
		{ID: "old", CreatedAt: base},
		{ID: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "middle", CreatedAt: base.Add(time.Hour)},
	}

	SortEntriesNewestFirst(entries)

	assert.Equal(t, "newest", entries[0].ID)
	assert.Equal(t, "middle", entries[1].ID)
	assert.Equal(t, "old", entries[2].ID)
}

func TestSortEntriesNewestFirstStableOnTies(t *testing.T) {
	stamp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	entries := []models.Entry{
		{ID: "a", CreatedAt: stamp},
		{ID: "b", CreatedAt: stamp},
		{ID: "c", CreatedAt: stamp},
	}

	SortEntriesNewestFirst(entries)

	// Equal timestamps keep their original order.
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
	assert.Equal(t, "c", entries[2].ID)
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("")
	assert.Equal(t, "entries", tables.Entries)
	assert.Equal(t, "entry_links", tables.Links)

	prefixed := NewTableNames("test_")
	assert.Equal(t, "test_entries", prefixed.Entries)
	assert.Equal(t, "test_entry_links", prefixed.Links)
}
