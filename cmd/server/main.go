package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"versekeep/internal/auth"
	"versekeep/internal/config"
	"versekeep/internal/handler"
	"versekeep/internal/middleware"
	"versekeep/internal/provider/anthropic"
	"versekeep/internal/provider/bible"
	"versekeep/internal/provider/speech"
	"versekeep/internal/repository/postgres"
	"versekeep/internal/service"
	"versekeep/internal/service/task"
	"versekeep/internal/storage/s3"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

const taskTimeout = 5 * time.Minute

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Run schema migrations. Skipped when a table prefix points the server at
	// an externally managed schema.
	if cfg.TablePrefix == "" {
		if err := postgres.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("migrations applied")
	}

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	entryRepo := postgres.NewEntryRepository(repoConfig)
	linkRepo := postgres.NewLinkRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Background task registry
	taskRegistry := task.NewRegistry(taskTimeout, logger)

	// External collaborators
	completionProvider, err := anthropic.NewProvider(cfg.AnthropicAPIKey, cfg.DefaultModel)
	if err != nil {
		log.Fatalf("Failed to create completion provider: %v", err)
	}

	bibleClient := bible.NewClient(cfg.BibleAPIURL, logger)
	speechClient := speech.NewClient(cfg.SpeechAPIURL, cfg.SpeechAPIKey, logger)

	blobStore, err := s3.NewStore(ctx, s3.Config{
		Region:       cfg.S3Region,
		Bucket:       cfg.S3Bucket,
		BaseEndpoint: cfg.S3Endpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Create services
	entryService := service.NewEntryService(entryRepo, logger)
	linkService := service.NewLinkService(linkRepo, entryRepo, logger)
	pathwayService := service.NewPathwayService(entryRepo, txManager, completionProvider, logger)
	audioService := service.NewAudioService(entryRepo, blobStore, speechClient, speechClient, taskRegistry, logger)
	assistantService := service.NewAssistantService(entryRepo, completionProvider, audioService, logger)
	verseResolver := service.NewVerseResolver(bibleClient, logger)

	// Create handlers
	entryHandler := handler.NewEntryHandler(entryService, logger)
	linkHandler := handler.NewLinkHandler(linkService, logger)
	pathwayHandler := handler.NewPathwayHandler(pathwayService, logger)
	assistantHandler := handler.NewAssistantHandler(assistantService, logger)
	verseHandler := handler.NewVerseHandler(verseResolver, logger)
	audioHandler := handler.NewAudioHandler(audioService, logger)
	taskHandler := handler.NewTaskHandler(taskRegistry, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", entryHandler.HealthCheck)

	// Entry routes
	mux.HandleFunc("GET /api/entries", entryHandler.ListEntries)
	mux.HandleFunc("POST /api/entries", entryHandler.CreateEntry)
	mux.HandleFunc("GET /api/entries/{id}", entryHandler.GetEntry)
	mux.HandleFunc("PATCH /api/entries/{id}", entryHandler.UpdateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", entryHandler.DeleteEntry)

	// Link routes
	mux.HandleFunc("POST /api/entries/{id}/links", linkHandler.CreateLink)
	mux.HandleFunc("GET /api/entries/{id}/links", linkHandler.GetLinks)
	mux.HandleFunc("GET /api/entries/{id}/related", linkHandler.GetRelated)
	mux.HandleFunc("DELETE /api/links/{id}", linkHandler.DeleteLink)

	// Pathway point routes
	mux.HandleFunc("POST /api/entries/{id}/points", pathwayHandler.InsertPoint)
	mux.HandleFunc("DELETE /api/entries/{id}/points/{index}", pathwayHandler.RemovePoint)
	mux.HandleFunc("POST /api/entries/{id}/points/{index}/complete", pathwayHandler.CompletePoint)
	mux.HandleFunc("PATCH /api/entries/{id}/points/{index}/verses", pathwayHandler.EditVerses)
	mux.HandleFunc("GET /api/entries/{id}/points/{index}/chat", pathwayHandler.GetPointChat)
	mux.HandleFunc("POST /api/entries/{id}/points/{index}/chat", pathwayHandler.AskPoint)

	// Assistant routes
	mux.HandleFunc("POST /api/entries/{id}/ask", assistantHandler.Ask)

	// Verse routes
	mux.HandleFunc("GET /api/verses/resolve", verseHandler.Resolve)
	mux.HandleFunc("GET /api/verses/search", verseHandler.Search)

	// Audio and image routes
	mux.HandleFunc("POST /api/entries/{id}/audio", audioHandler.UploadAudio)
	mux.HandleFunc("POST /api/entries/{id}/image", audioHandler.UploadImage)
	mux.HandleFunc("POST /api/entries/{id}/speech", audioHandler.SynthesizeEntry)

	// Background task routes
	mux.HandleFunc("GET /api/tasks/{id}", taskHandler.GetTask)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
