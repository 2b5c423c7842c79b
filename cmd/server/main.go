package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/omkarsat/lumi-agent/internal/api"
	"github.com/omkarsat/lumi-agent/internal/config"
	"github.com/omkarsat/lumi-agent/internal/domain"
	"github.com/omkarsat/lumi-agent/internal/repository/mongo"
	"github.com/omkarsat/lumi-agent/internal/repository/redis"
	"github.com/omkarsat/lumi-agent/internal/repository/sqlite"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("backend", cfg.Storage.Backend).
		Msg("Starting Lumi support agent server")

	// Initialize record storage
	var (
		repo    domain.RecordRepository
		cleanup func()
	)
	switch cfg.Storage.Backend {
	case "mongo":
		mongoRepo, err := mongo.NewRecordRepository(context.Background(), cfg.Storage.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		repo = mongoRepo
		cleanup = func() { mongoRepo.Close(context.Background()) }
	case "sqlite":
		db, err := sqlite.NewDB(context.Background(), cfg.Storage.SQLite)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open SQLite database")
		}
		if err := sqlite.RunMigrations(cfg.Storage.SQLite.Path); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		repo = sqlite.NewRecordRepository(db)
		cleanup = func() { db.Close() }
	default:
		log.Fatal().Str("backend", cfg.Storage.Backend).Msg("Unknown storage backend")
	}
	defer cleanup()

	// Initialize Redis when rate limiting is enabled
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
	}

	// Initialize router
	router := api.NewRouter(cfg, repo, redisClient)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
