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

	"github.com/Dosada05/bracket-manager/brackets"
	"github.com/Dosada05/bracket-manager/config"
	"github.com/Dosada05/bracket-manager/db"
	"github.com/Dosada05/bracket-manager/handlers"
	"github.com/Dosada05/bracket-manager/logging"
	"github.com/Dosada05/bracket-manager/repositories"
	api "github.com/Dosada05/bracket-manager/routes"
	"github.com/Dosada05/bracket-manager/services"
	"github.com/Dosada05/bracket-manager/storage"
	"github.com/Dosada05/bracket-manager/utils"
	"github.com/go-chi/chi/v5"
)

// @title bracket-manager API
// @version 1.0
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// bracket-manager hash-password <password> prints a value for OPERATOR_PASSWORD_HASH.
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := utils.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to hash password:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("state_backend", cfg.StateBackend))

	ctx := context.Background()

	stateRepo, closeRepo, err := openStateRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open state repository", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeRepo()

	// Exports go to R2 when configured, to a local directory otherwise.
	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		uploader, err = storage.NewLocalDirUploader(cfg.ExportDir)
		if err != nil {
			logger.Error("failed to initialize export directory", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("exports written to local directory", slog.String("dir", cfg.ExportDir))
	}

	// Инициализация WebSocket Hub
	stopHub := make(chan struct{})
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(stopHub)
	defer close(stopHub)

	// Инициализация сервисов
	tournamentService := services.NewTournamentService(services.TournamentConfig{
		MaxGroupSize: cfg.MaxGroupSize,
		RandomSeed:   cfg.RandomSeed,
	}, wsHub, logger)
	var snapshotUploader storage.FileUploader
	if cfg.R2.Enabled() {
		snapshotUploader = uploader
	}
	stateService := services.NewStateService(tournamentService, stateRepo, snapshotUploader, logger)
	exportService := services.NewExportService(tournamentService, uploader, logger)
	authService := services.NewAuthService(cfg.OperatorPasswordHash, cfg.JWTSecretKey)
	if cfg.OperatorPasswordHash == "" {
		logger.Warn("OPERATOR_PASSWORD_HASH is not set, mutations are disabled")
	}

	if err := stateService.Load(ctx); err != nil {
		logger.Error("failed to load saved state", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация обработчиков HTTP
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{JWTSecret: cfg.JWTSecretKey, CORSOrigins: cfg.CORSOrigins},
		handlers.NewAuthHandler(authService),
		handlers.NewTournamentHandler(tournamentService),
		handlers.NewStateHandler(stateService),
		handlers.NewExportHandler(exportService),
		handlers.NewWebSocketHandler(wsHub, cfg.CORSOrigins, logger),
	)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
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
		}
		if _, err := stateService.Save(shutdownCtx); err != nil {
			logger.Error("failed to save state on shutdown", slog.Any("error", err))
		} else {
			logger.Info("state saved on shutdown")
		}
	}
	logger.Info("application exited")
}

func openStateRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.StateRepository, func(), error) {
	switch cfg.StateBackend {
	case config.BackendPostgres, config.BackendSQLite:
		dsn := cfg.DatabaseURL
		if cfg.StateBackend == config.BackendSQLite {
			dsn = cfg.SQLitePath
		}
		dbConn, err := db.Connect(cfg.StateBackend, dsn, 5*time.Second)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}
		if err := repositories.EnsureSchema(ctx, dbConn, cfg.StateBackend); err != nil {
			closeDB()
			return nil, nil, err
		}
		logger.Info("database connection established", slog.String("driver", cfg.StateBackend))
		if cfg.StateBackend == config.BackendSQLite {
			return repositories.NewSQLiteStateRepository(dbConn, repositories.DefaultStateSlot), closeDB, nil
		}
		return repositories.NewPostgresStateRepository(dbConn, repositories.DefaultStateSlot), closeDB, nil
	default:
		repo, err := repositories.NewFileStateRepository(cfg.StateFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("state kept in file", slog.String("path", cfg.StateFile))
		return repo, func() {}, nil
	}
}
