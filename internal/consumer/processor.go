package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/metrics"
)

// TradeApplier applies one trade atomically against the ledger store.
type TradeApplier interface {
	ApplyTrade(ctx context.Context, trade *domain.TradeEvent) (domain.ApplyResult, error)
}

// Notifier publishes one downstream notification per applied trade.
type Notifier interface {
	PublishApplied(ctx context.Context, n domain.TradeApplied) error
}

// Partitioner maps a trade to its sequencing key (the account it settles
// against), so same-account trades stay ordered across workers.
type Partitioner interface {
	Resolve(trade *domain.TradeEvent) string
}

// BatchStats summarizes one processed batch.
type BatchStats struct {
	Applied       int
	Duplicates    int
	PublishErrors int
}

// Processor drains a batch through the ledger store. Trades are partitioned
// by account preserving arrival order within each account; partitions run on
// a bounded worker pool so unrelated accounts apply in parallel. With one
// worker the batch is applied strictly sequentially.
//
// A store error cancels the remaining batch and propagates: the batch is not
// retried in place. Recovery is re-delivery of the whole batch after restart,
// with already-applied trades degrading to duplicates.
type Processor struct {
	applier     TradeApplier
	notifier    Notifier
	partitioner Partitioner
	workers     int
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// NewProcessor creates a new Processor.
func NewProcessor(applier TradeApplier, notifier Notifier, partitioner Partitioner, workers int, logger *slog.Logger, m *metrics.Metrics) *Processor {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Processor{
		applier:     applier,
		notifier:    notifier,
		partitioner: partitioner,
		workers:     workers,
		logger:      logger,
		metrics:     m,
	}
}

// ProcessBatch applies every trade of the batch and classifies each as
// applied or duplicate. The first store error aborts the batch.
func (p *Processor) ProcessBatch(ctx context.Context, batch *domain.Batch) (BatchStats, error) {
	start := time.Now()
	p.metrics.BatchSize.Observe(float64(len(batch.Trades)))

	var order []string

	partitions := make(map[string][]*domain.TradeEvent)
	for _, trade := range batch.Trades {
		key := p.partitioner.Resolve(trade)
		if _, ok := partitions[key]; !ok {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], trade)
	}

	var applied, duplicates, publishErrors atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, key := range order {
		trades := partitions[key]

		g.Go(func() error {
			for _, trade := range trades {
				if err := gctx.Err(); err != nil {
					return err
				}

				t0 := time.Now()
				result, err := p.applier.ApplyTrade(gctx, trade)
				p.metrics.BalanceUpdateLatency.Observe(float64(time.Since(t0).Milliseconds()))

				if err != nil {
					p.metrics.DBErrors.Inc()
					return fmt.Errorf("apply trade %s: %w", trade.TradeID, err)
				}

				switch result {
				case domain.ResultApplied:
					applied.Add(1)
					p.metrics.ProcessedTotal.WithLabelValues("applied").Inc()
					p.notify(gctx, trade, &publishErrors)
				case domain.ResultDuplicate:
					duplicates.Add(1)
					p.metrics.ProcessedTotal.WithLabelValues("idempotent").Inc()
					p.metrics.IdempotentTotal.Inc()
				}
			}

			return nil
		})
	}

	err := g.Wait()

	stats := BatchStats{
		Applied:       int(applied.Load()),
		Duplicates:    int(duplicates.Load()),
		PublishErrors: int(publishErrors.Load()),
	}

	if err != nil {
		return stats, err
	}

	p.metrics.BatchLatency.Observe(float64(time.Since(start).Milliseconds()))

	return stats, nil
}

// notify publishes the applied notification. Publishing is at-least-once and
// best effort: a failure is recorded, never fatal to the batch.
func (p *Processor) notify(ctx context.Context, trade *domain.TradeEvent, publishErrors *atomic.Int64) {
	n := domain.TradeApplied{
		TradeID: trade.TradeID,
		Status:  domain.StatusApplied,
		Ts:      time.Now().UnixMilli(),
	}

	if err := p.notifier.PublishApplied(ctx, n); err != nil {
		publishErrors.Add(1)
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("failed to publish applied notification", "trade_id", trade.TradeID, "error", err)
	}
}
