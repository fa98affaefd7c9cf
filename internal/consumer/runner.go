package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/metrics"
)

// Source produces the next batch of trades.
type Source interface {
	Next(ctx context.Context) (*domain.Batch, error)
	Rewind()
}

// BatchProcessor drains one batch through the ledger store.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, batch *domain.Batch) (BatchStats, error)
}

// Committer advances the stream position past a fully processed batch.
type Committer interface {
	Commit(ctx context.Context, handles []string) error
}

// Runner is the consumption loop: accumulate, process, commit, repeat.
// Batches never overlap, so positions commit in order. A transient stream
// read error is retried with backoff; a store error ends the run (the
// supervisor restarts it, and the uncommitted batch is re-delivered).
type Runner struct {
	source    Source
	processor BatchProcessor
	committer Committer
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewRunner creates a new Runner.
func NewRunner(source Source, processor BatchProcessor, committer Committer, logger *slog.Logger, m *metrics.Metrics) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		source:    source,
		processor: processor,
		committer: committer,
		logger:    logger,
		metrics:   m,
	}
}

// Run consumes batches until the context ends or a fatal error occurs.
// Shutdown is graceful: a batch in flight finishes applying and commits
// before the loop exits.
func (r *Runner) Run(ctx context.Context) error {
	// Resume: drain entries delivered but not committed by a previous run.
	r.source.Rewind()

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		batch, err := r.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			r.metrics.StreamErrors.Inc()
			wait := bo.NextBackOff()
			r.logger.Warn("stream read failed, backing off", "error", err, "wait", wait)

			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		bo.Reset()

		// The batch finishes even if shutdown arrives mid-way: processing
		// and the position commit run detached from cancellation.
		bctx := context.WithoutCancel(ctx)

		if !batch.Empty() {
			stats, err := r.processor.ProcessBatch(bctx, batch)
			if err != nil {
				return fmt.Errorf("batch aborted, position not committed: %w", err)
			}

			r.logger.Debug("batch processed",
				"applied", stats.Applied,
				"duplicates", stats.Duplicates,
				"publish_errors", stats.PublishErrors,
				"skipped", batch.Skipped,
			)
		}

		if len(batch.Handles) > 0 {
			if err := r.committer.Commit(bctx, batch.Handles); err != nil {
				return fmt.Errorf("commit position: %w", err)
			}
		}
	}
}
