package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/2025-demo-01/svc-wallet/internal/adapter/hsm"
	httpAdapter "github.com/2025-demo-01/svc-wallet/internal/adapter/http"
	"github.com/2025-demo-01/svc-wallet/internal/adapter/http/handler"
	redisRepo "github.com/2025-demo-01/svc-wallet/internal/adapter/repository/redis"
	redisStream "github.com/2025-demo-01/svc-wallet/internal/adapter/stream/redis"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/config"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/logger"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/metrics"
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

	ctx := context.Background()

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	idemStore := redisRepo.NewIdempotencyStore(redisClient)
	enqueuer := redisStream.NewWithdrawEnqueuer(redisClient, cfg.WithdrawStream)
	signer := hsm.NewClient(cfg.HSMEndpoint, cfg.HSMTimeout)

	withdrawUC := usecase.NewWithdrawUseCase(idemStore, enqueuer, signer, nil, cfg.IdempotencyTTL)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		WithdrawHandler: handler.NewWithdrawHandler(withdrawUC, cfg.WithdrawCcy, m),
		HealthHandler:   handler.NewHealthHandler(nil, redisClient),
		Logger:          zlog,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting intake server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
