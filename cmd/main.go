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

	"github.com/Gintoki006/Sportify-sub001/brackets"
	"github.com/Gintoki006/Sportify-sub001/config"
	"github.com/Gintoki006/Sportify-sub001/db"
	"github.com/Gintoki006/Sportify-sub001/handlers"
	"github.com/Gintoki006/Sportify-sub001/repositories"
	"github.com/Gintoki006/Sportify-sub001/routes"
	"github.com/Gintoki006/Sportify-sub001/services"
	"github.com/Gintoki006/Sportify-sub001/storage"
)

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
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	// Scorecard archiving is optional. Without object storage credentials
	// completed tournaments simply keep no archive.
	var archiver storage.ScorecardArchiver
	if cfg.R2Configured() {
		uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
		archiver = storage.NewScorecardArchiver(uploader)
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("object storage not configured, scorecard archiving disabled")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository()
	matchRepo := repositories.NewPostgresMatchRepository()
	cricketRepo := repositories.NewPostgresCricketRepository()
	footballRepo := repositories.NewPostgresFootballRepository()
	statRepo := repositories.NewPostgresStatRepository()
	notificationRepo := repositories.NewPostgresNotificationRepository()

	statSyncService := services.NewStatSyncService(statRepo)
	notifier := services.NewNotificationService(dbConn, notificationRepo, logger)
	scoringService := services.NewScoringService(
		dbConn,
		tournamentRepo,
		matchRepo,
		cricketRepo,
		footballRepo,
		statSyncService,
		wsHub,
		notifier,
		archiver,
		logger,
	)
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, matchRepo, wsHub, archiver, logger)
	matchService := services.NewMatchService(dbConn, matchRepo, cricketRepo, footballRepo)
	logger.Info("services initialized")

	router := routes.InitRoutes(routes.Handlers{
		Tournaments: handlers.NewTournamentHandler(tournamentService),
		Matches:     handlers.NewMatchHandler(matchService),
		Scoring:     handlers.NewScoringHandler(scoringService),
		WebSocket:   handlers.NewWebSocketHandler(wsHub, logger),
	}, cfg.JWTSecretKey)

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
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
