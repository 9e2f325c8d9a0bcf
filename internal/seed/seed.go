// Package seed loads YAML fixture files and creates their entries through the
// service layer, so seeded data passes the same validation as API traffic.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"versekeep/internal/domain/models"
	"versekeep/internal/domain/services"
)

// Fixture is the root of a seed file.
type Fixture struct {
	UserID  string         `yaml:"user_id"`
	Entries []EntryFixture `yaml:"entries"`
	Links   []LinkFixture  `yaml:"links"`
}

// EntryFixture is one entry to create. Points is honored only for pathway
// entries and becomes the encoded content payload.
type EntryFixture struct {
	Type          string         `yaml:"type"`
	Title         string         `yaml:"title"`
	Content       string         `yaml:"content"`
	Description   string         `yaml:"description"`
	Category      string         `yaml:"category"`
	BibleVerses   []string       `yaml:"bible_verses"`
	RelatedVerses []string       `yaml:"related_verses"`
	Points        []PointFixture `yaml:"points"`
}

// PointFixture is one pathway study point.
type PointFixture struct {
	Title            string   `yaml:"title"`
	Description      string   `yaml:"description"`
	PrimaryVerse     string   `yaml:"primary_verse"`
	AdditionalVerses []string `yaml:"additional_verses"`
	Notes            string   `yaml:"notes"`
}

// LinkFixture connects two entries by their fixture titles.
type LinkFixture struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Load parses a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file: %w", err)
	}

	if f.UserID == "" {
		return nil, fmt.Errorf("fixture file missing user_id")
	}

	return &f, nil
}

// Apply creates the fixture's entries and links. Entries are created first so
// links can refer to them by title. Duplicate links are tolerated.
func Apply(ctx context.Context, f *Fixture, entries services.EntryService, links services.LinkService, logger *slog.Logger) error {
	byTitle := make(map[string]string, len(f.Entries))

	for _, ef := range f.Entries {
		req := &services.CreateEntryRequest{
			UserID:        f.UserID,
			Type:          models.EntryType(ef.Type),
			Title:         ef.Title,
			Content:       ef.Content,
			Description:   ef.Description,
			Category:      ef.Category,
			BibleVerses:   ef.BibleVerses,
			RelatedVerses: ef.RelatedVerses,
		}

		if models.EntryType(ef.Type) == models.EntryTypePathway && len(ef.Points) > 0 {
			points := make([]models.PathwayPoint, len(ef.Points))
			for i, pf := range ef.Points {
				points[i] = models.PathwayPoint{
					Title:            pf.Title,
					Description:      pf.Description,
					PrimaryVerse:     pf.PrimaryVerse,
					AdditionalVerses: pf.AdditionalVerses,
					Notes:            pf.Notes,
				}
			}
			content, err := models.EncodePathway(&models.PathwayPayload{Points: points})
			if err != nil {
				return fmt.Errorf("failed to encode pathway %q: %w", ef.Title, err)
			}
			req.Content = content
		}

		entry, err := entries.CreateEntry(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create entry %q: %w", ef.Title, err)
		}

		byTitle[ef.Title] = entry.ID
		logger.Info("seeded entry", "title", ef.Title, "type", ef.Type, "id", entry.ID)
	}

	for _, lf := range f.Links {
		sourceID, ok := byTitle[lf.Source]
		if !ok {
			return fmt.Errorf("link source %q not found in fixture", lf.Source)
		}
		targetID, ok := byTitle[lf.Target]
		if !ok {
			return fmt.Errorf("link target %q not found in fixture", lf.Target)
		}

		if _, err := links.CreateLink(ctx, sourceID, targetID, f.UserID); err != nil {
			return fmt.Errorf("failed to link %q -> %q: %w", lf.Source, lf.Target, err)
		}
		logger.Info("seeded link", "source", lf.Source, "target", lf.Target)
	}

	return nil
}
