package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/fixture-engine/config"
	"github.com/Dosada05/fixture-engine/db"
	"github.com/Dosada05/fixture-engine/handlers"
	"github.com/Dosada05/fixture-engine/live"
	"github.com/Dosada05/fixture-engine/metrics"
	"github.com/Dosada05/fixture-engine/models"
	"github.com/Dosada05/fixture-engine/repositories"
	api "github.com/Dosada05/fixture-engine/routes"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/Dosada05/fixture-engine/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
)

const availabilityPollInterval = 30 * time.Second // How often idle statuses are re-evaluated

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Snapshot publishing is optional: without R2 credentials the engine
	// runs normally and skips the upload step.
	var uploader storage.SnapshotUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 credentials not set, schedule snapshot publishing disabled")
	}

	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.New(registry)

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	entryRepo := repositories.NewPostgresEntryRepository(dbConn)
	courtRepo := repositories.NewPostgresCourtRepository(dbConn)
	umpireRepo := repositories.NewPostgresUmpireRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	logger.Info("Repositories initialized")

	fixtureService := services.NewFixtureService(
		dbConn, // For advisory locks and fixture transactions
		tournamentRepo,
		entryRepo,
		courtRepo,
		umpireRepo,
		matchRepo,
		uploader,
		wsHub,
		engineMetrics,
		logger,
	)
	matchService := services.NewMatchService(
		dbConn,
		matchRepo,
		courtRepo,
		umpireRepo,
		tournamentRepo,
		wsHub,
		logger,
	)
	availabilityService := services.NewAvailabilityService(
		tournamentRepo,
		courtRepo,
		umpireRepo,
		matchRepo,
		wsHub,
		engineMetrics,
	)
	logger.Info("Services initialized")

	// Background poller: idle status is time-derived, so it has to be
	// re-evaluated on an interval, not only when a client asks.
	go func() {
		ticker := time.NewTicker(availabilityPollInterval)
		defer ticker.Stop()
		logger.Info("availability poller started", slog.Duration("interval", availabilityPollInterval))

		refresh := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()

			ids, err := tournamentRepo.ListIDsByStatus(ctx, models.TournamentStatusActive)
			if err != nil {
				logger.Error("availability poller: failed to list active tournaments", slog.Any("error", err))
				return
			}
			for _, id := range ids {
				if _, err := availabilityService.TournamentAvailability(ctx, id); err != nil {
					logger.Error("availability poller: refresh failed",
						slog.Int("tournament_id", id), slog.Any("error", err))
				}
			}
		}

		// Run once immediately at startup, then on ticker
		refresh()
		for range ticker.C {
			refresh()
		}
	}()

	fixtureHandler := handlers.NewFixtureHandler(fixtureService)
	matchHandler := handlers.NewMatchHandler(matchService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		[]byte(cfg.JWTSecretKey),
		registry,
		fixtureHandler,
		matchHandler,
		availabilityHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
