package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/vfarias/financeiro/internal/adapter/http"
	"github.com/vfarias/financeiro/internal/adapter/http/handler"
	"github.com/vfarias/financeiro/internal/adapter/http/middleware"
	postgresRepo "github.com/vfarias/financeiro/internal/adapter/repository/postgres"
	redisRepo "github.com/vfarias/financeiro/internal/adapter/repository/redis"
	"github.com/vfarias/financeiro/internal/infrastructure/amqp"
	"github.com/vfarias/financeiro/internal/infrastructure/auth"
	"github.com/vfarias/financeiro/internal/infrastructure/config"
	"github.com/vfarias/financeiro/internal/infrastructure/eventpublisher"
	"github.com/vfarias/financeiro/internal/infrastructure/logger"
	"github.com/vfarias/financeiro/internal/infrastructure/metrics"
	"github.com/vfarias/financeiro/internal/infrastructure/postgres"
	"github.com/vfarias/financeiro/internal/infrastructure/redis"
	"github.com/vfarias/financeiro/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Run migrations before opening the pool
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Event publisher: AMQP when configured, log sink otherwise
	var publisher eventpublisher.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to amqp")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to amqp")
	} else {
		publisher = eventpublisher.NewLogPublisher()
		log.Info().Msg("amqp not configured, events will be logged")
	}

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	settlementRepo := postgresRepo.NewSettlementRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	consistencyRepo := postgresRepo.NewConsistencyRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize use cases
	entryUC := usecase.NewEntryUseCase(txManager, entryRepo, settlementRepo, outboxRepo, idGen, cache, m, cfg.DefaultCategory, cfg.Categories)
	settlementUC := usecase.NewSettlementUseCase(txManager, entryRepo, settlementRepo, outboxRepo, idGen, retrier, cache, m)
	summaryUC := usecase.NewSummaryUseCase(entryRepo, cache, cfg.SummaryCacheTTL, m)
	reconcileUC := usecase.NewReconciliationUseCase(txManager, entryRepo, settlementRepo, consistencyRepo, m)

	gate := auth.NewGate(cfg.GateAllowedCallers, cfg.GateOpenAccess, m)
	facade := usecase.NewFacade(gate, entryUC, settlementUC, summaryUC)

	// Initialize handlers
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntryHandler:      handler.NewEntryHandler(entryUC),
		SettlementHandler: handler.NewSettlementHandler(settlementUC),
		SummaryHandler:    handler.NewSummaryHandler(summaryUC),
		ChatHandler:       handler.NewChatHandler(facade),
		LedgerHandler:     handler.NewLedgerHandler(reconcileUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  idempotencyStore,
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	outboxPublisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return outboxPublisher.Start(gCtx)
	})

	g.Go(func() error {
		return reconcileUC.Run(gCtx, cfg.ReconcileInterval)
	})

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("shutting down server...")
	case <-gCtx.Done():
		log.Warn().Msg("background worker stopped, shutting down")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("worker exited with error")
	}

	log.Info().Msg("server stopped")
}
