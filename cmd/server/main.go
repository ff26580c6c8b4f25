package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/khatahub/khata/internal/adapter/http"
	"github.com/khatahub/khata/internal/adapter/http/handler"
	postgresRepo "github.com/khatahub/khata/internal/adapter/repository/postgres"
	redisRepo "github.com/khatahub/khata/internal/adapter/repository/redis"
	"github.com/khatahub/khata/internal/infrastructure/auth"
	"github.com/khatahub/khata/internal/infrastructure/config"
	"github.com/khatahub/khata/internal/infrastructure/eventpublisher"
	"github.com/khatahub/khata/internal/infrastructure/logger"
	"github.com/khatahub/khata/internal/infrastructure/metrics"
	"github.com/khatahub/khata/internal/infrastructure/postgres"
	"github.com/khatahub/khata/internal/infrastructure/redis"
	"github.com/khatahub/khata/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	eventRepo := postgresRepo.NewEventRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	notifier := redisRepo.NewNotifier(redisClient)

	// Initialize use cases
	customerUC := usecase.NewCustomerUseCase(txManager, customerRepo, eventRepo, outboxRepo, idGen, cache)
	transactionUC := usecase.NewTransactionUseCase(txManager, customerRepo, eventRepo, outboxRepo, idGen, retrier, cache, appMetrics)
	entryUC := usecase.NewEntryUseCase(customerRepo, eventRepo)
	summaryUC := usecase.NewSummaryUseCase(customerRepo, cache)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	customerHandler := handler.NewCustomerHandler(customerUC)
	transactionHandler := handler.NewTransactionHandler(transactionUC)
	entryHandler := handler.NewEntryHandler(entryUC)
	summaryHandler := handler.NewSummaryHandler(summaryUC)
	watchHandler := handler.NewWatchHandler(notifier, appMetrics.WatchSessions)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        authHandler,
		CustomerHandler:    customerHandler,
		TransactionHandler: transactionHandler,
		EntryHandler:       entryHandler,
		SummaryHandler:     summaryHandler,
		WatchHandler:       watchHandler,
		HealthHandler:      healthHandler,
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Logger:             appLogger,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Outbox publisher pushes committed changes to the live watch streams
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewNotifierPublisher(notifier),
		Metrics:    appMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
