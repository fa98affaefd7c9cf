package consumer

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/metrics"
)

// Task is a restartable unit of work.
type Task interface {
	Run(ctx context.Context) error
}

// SupervisorConfig tunes restart behavior.
type SupervisorConfig struct {
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// HealthyAfter is how long a run must survive for the backoff to reset.
	HealthyAfter time.Duration
}

// Supervisor makes the crash-and-resume recovery contract explicit: it runs
// the consumption loop, and when the loop dies on a store error it waits with
// exponential backoff and starts it again. The restarted loop resumes from
// the last committed position; re-delivered trades degrade to duplicates.
type Supervisor struct {
	task    Task
	cfg     SupervisorConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewSupervisor creates a new Supervisor.
func NewSupervisor(task Task, cfg SupervisorConfig, logger *slog.Logger, m *metrics.Metrics) *Supervisor {
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.HealthyAfter <= 0 {
		cfg.HealthyAfter = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Supervisor{
		task:    task,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// Run supervises the task until the context ends. A nil return from the task
// is a clean stop and ends supervision.
func (s *Supervisor) Run(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.cfg.InitialBackoff
	bo.MaxInterval = s.cfg.MaxBackoff
	bo.MaxElapsedTime = 0

	for {
		started := time.Now()

		err := s.task.Run(ctx)
		if err == nil || ctx.Err() != nil {
			return nil
		}

		s.metrics.ConsumerRestarts.Inc()

		if time.Since(started) >= s.cfg.HealthyAfter {
			bo.Reset()
		}

		wait := bo.NextBackOff()
		s.logger.Error("consumer run failed, restarting", "error", err, "wait", wait)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil
		}
	}
}
