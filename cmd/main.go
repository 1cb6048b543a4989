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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/Dosada05/club-admin/clock"
	"github.com/Dosada05/club-admin/config"
	"github.com/Dosada05/club-admin/countries"
	"github.com/Dosada05/club-admin/db"
	"github.com/Dosada05/club-admin/handlers"
	"github.com/Dosada05/club-admin/middleware"
	"github.com/Dosada05/club-admin/realtime"
	"github.com/Dosada05/club-admin/repositories"
	api "github.com/Dosada05/club-admin/routes"
	"github.com/Dosada05/club-admin/services"
	"github.com/Dosada05/club-admin/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, db.Pool{MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(ctx, dbConn, logger); err != nil {
		return err
	}

	// Redis: хранилище сессий (отзыв токенов)
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	err = redisClient.Ping(pingCtx).Err()
	cancelPing()
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("redis connection established")

	// Cloudflare R2 опционален: без него логотипы не загружаются
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("Cloudflare R2 is not configured, logo uploads are disabled")
	}

	// WebSocket Hub
	wsHub := realtime.NewHub(logger)
	go wsHub.Run(ctx)

	clk := clock.New()

	// Репозитории
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	sessionRepo := repositories.NewRedisSessionRepository(redisClient)

	// Сервисы
	logos := services.NewLogoResolver(uploader, cfg.DefaultTeamLogoURL)
	authService := services.NewAuthService(userRepo, sessionRepo, services.AuthConfig{
		JWTSecret: cfg.JWTSecretKey,
		TokenTTL:  cfg.TokenTTL,
	}, clk, logger)
	userService := services.NewUserService(userRepo, teamRepo, logos)
	teamService := services.NewTeamService(teamRepo, uploader, logos, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo, wsHub, clk, logger)
	countryService := services.NewCountryService(
		countries.NewClient(countries.Config{BaseURL: cfg.CountriesAPIURL}), logger)

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, logger),
		User:      handlers.NewUserHandler(userService),
		Team:      handlers.NewTeamHandler(teamService),
		Player:    handlers.NewPlayerHandler(playerService),
		Squad:     handlers.NewSquadHandler(clk),
		Country:   handlers.NewCountryHandler(countryService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	}, api.Options{
		Verifier:       authService,
		Profiles:       userService,
		Logger:         logger,
		Gatherer:       registry,
		Metrics:        middleware.NewMetrics(registry),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("routes configured")

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

	// Ожидание сигнала завершения
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}
