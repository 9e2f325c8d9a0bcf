package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"versekeep/internal/config"
	"versekeep/internal/repository/postgres"
	"versekeep/internal/seed"
	"versekeep/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	fixtureFile := flag.String("file", "seed/entries.yaml", "YAML fixture file to load")
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	clearData := flag.Bool("clear-data", false, "Delete the fixture user's entries before seeding")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s, file: %s)", cfg.Environment, cfg.TablePrefix, *fixtureFile)

	fixture, err := seed.Load(*fixtureFile)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Ensure schema is up to date
	log.Println("Ensuring database schema is up to date...")
	if err := postgres.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Schema ready")

	// Clear the fixture user's data if requested
	if *clearData {
		log.Printf("Clearing entries for user %s...", fixture.UserID)
		if err := clearUserData(ctx, pool, tables, fixture.UserID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared")
	}

	// Create repositories and services
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	entryRepo := postgres.NewEntryRepository(repoConfig)
	linkRepo := postgres.NewLinkRepository(repoConfig)

	entryService := service.NewEntryService(entryRepo, logger)
	linkService := service.NewLinkService(linkRepo, entryRepo, logger)

	// Apply the fixture
	if err := seed.Apply(ctx, fixture, entryService, linkService, logger); err != nil {
		log.Fatalf("Failed to apply fixture: %v", err)
	}

	log.Printf("Seeding complete: %d entries, %d links", len(fixture.Entries), len(fixture.Links))
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Links,
		tables.Entries,
		"goose_db_version",
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}

	return nil
}

// clearUserData deletes one user's entries; links go with them via cascade
func clearUserData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, userID string) error {
	_, err := pool.Exec(ctx, "DELETE FROM "+tables.Entries+" WHERE user_id = $1", userID)
	return err
}
