package consumer

import (
	"context"
	"log/slog"
	"time"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/metrics"
)

// Message is one raw stream message plus its position handle.
type Message struct {
	ID   string
	Body []byte
}

// Fetcher reads ready messages from the trade stream. Fetch blocks for at
// most block and returns an empty slice when nothing arrived. Rewind makes
// the next reads start from the consumer's pending (delivered, unacked)
// entries before new ones; it is called at the start of every run so a
// restarted loop resumes from the last committed position.
type Fetcher interface {
	Fetch(ctx context.Context, max int, block time.Duration) ([]Message, error)
	Rewind()
}

// idleBlock bounds how long a single Fetch may park while no batch is open.
const idleBlock = time.Second

// Accumulator converts the trade stream into bounded batches: a batch is
// dispatched once size messages are buffered or window has elapsed since the
// first message of the batch, whichever comes first. Idle periods dispatch
// nothing; an expired window with an empty buffer simply resets.
type Accumulator struct {
	fetcher Fetcher
	size    int
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewAccumulator creates a new Accumulator.
func NewAccumulator(fetcher Fetcher, size int, window time.Duration, logger *slog.Logger, m *metrics.Metrics) *Accumulator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Accumulator{
		fetcher: fetcher,
		size:    size,
		window:  window,
		logger:  logger,
		metrics: m,
	}
}

// Rewind restarts consumption from the pending entries of the stream.
func (a *Accumulator) Rewind() {
	a.fetcher.Rewind()
}

// Next blocks until a batch is ready or the context ends. A message whose
// payload does not decode is dropped from the batch but keeps its handle in
// it, so its position is committed along with the batch.
func (a *Accumulator) Next(ctx context.Context) (*domain.Batch, error) {
	batch := &domain.Batch{}

	var deadline time.Time

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		block := idleBlock
		if len(batch.Handles) > 0 {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return batch, nil
			}
			block = remaining
		}

		msgs, err := a.fetcher.Fetch(ctx, a.size-len(batch.Handles), block)
		if err != nil {
			return nil, err
		}

		if len(msgs) == 0 {
			if len(batch.Handles) > 0 && !time.Now().Before(deadline) {
				return batch, nil
			}
			continue
		}

		if len(batch.Handles) == 0 {
			deadline = time.Now().Add(a.window)
		}

		for _, msg := range msgs {
			batch.Handles = append(batch.Handles, msg.ID)

			ev, err := domain.ParseTradeEvent(msg.Body)
			if err != nil {
				batch.Skipped++
				a.metrics.DecodeErrors.Inc()
				a.logger.Warn("dropping undecodable trade message", "id", msg.ID, "error", err)
				continue
			}

			batch.Trades = append(batch.Trades, ev)
		}

		if len(batch.Handles) >= a.size || !time.Now().Before(deadline) {
			return batch, nil
		}
	}
}
