package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/2025-demo-01/svc-wallet/internal/adapter/http"
	"github.com/2025-demo-01/svc-wallet/internal/adapter/http/handler"
	postgresRepo "github.com/2025-demo-01/svc-wallet/internal/adapter/repository/postgres"
	redisStream "github.com/2025-demo-01/svc-wallet/internal/adapter/stream/redis"
	"github.com/2025-demo-01/svc-wallet/internal/consumer"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/config"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/logger"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/metrics"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/postgres"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/redis"
	"github.com/2025-demo-01/svc-wallet/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Ledger write path.
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	processedRepo := postgresRepo.NewProcessedTradeRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	resolver := usecase.NewStaticAccountResolver(cfg.AccountRoutes, cfg.DefaultAccount)

	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, processedRepo, resolver, idGen, cfg.LedgerCurrency)

	// Consumption pipeline.
	streamConsumer := redisStream.NewConsumer(redisClient, cfg.TradesStream, cfg.ConsumerGroup, cfg.ConsumerName)
	if err := streamConsumer.EnsureGroup(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure consumer group")
	}

	notifier := redisStream.NewPublisher(redisClient, cfg.NotifyStream)

	accumulator := consumer.NewAccumulator(streamConsumer, cfg.BatchSize, cfg.BatchWindow, slogger, m)
	processor := consumer.NewProcessor(ledgerUC, notifier, resolver, cfg.ProcessorWorkers, slogger, m)
	runner := consumer.NewRunner(accumulator, processor, streamConsumer, slogger, m)

	supervisor := consumer.NewSupervisor(runner, consumer.SupervisorConfig{
		InitialBackoff: cfg.RestartInitialBackoff,
		MaxBackoff:     cfg.RestartMaxBackoff,
		HealthyAfter:   cfg.RestartHealthyAfter,
	}, slogger, m)

	done := make(chan error, 1)
	go func() {
		done <- supervisor.Run(ctx)
	}()

	// Ops surface: metrics and health only.
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		HealthHandler: handler.NewHealthHandler(pool, redisClient),
		Logger:        zlog,
	})

	opsServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.OpsPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.OpsPort).Msg("starting ops server")
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ops server failed")
		}
	}()

	log.Info().
		Str("stream", cfg.TradesStream).
		Str("group", cfg.ConsumerGroup).
		Int("batch_size", cfg.BatchSize).
		Dur("batch_window", cfg.BatchWindow).
		Msg("consumer started")

	if err := <-done; err != nil {
		log.Error().Err(err).Msg("consumer stopped with error")
	}

	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server forced to shutdown")
	}

	log.Info().Msg("consumer stopped")
}
