package consumer_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2025-demo-01/svc-wallet/internal/consumer"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/metrics"
)

// Shared across the package's tests: promauto registers against the default
// registry, so the metrics struct may only be built once per test binary.
var testMetrics = metrics.New()

func tradeMsg(id string) consumer.Message {
	body := fmt.Sprintf(`{"trade_id":%q,"order_id":"o-%s","symbol":"BTCUSDT","side":"buy","price":100,"qty":1,"ts":1700000000000}`, id, id)
	return consumer.Message{ID: id + "-0", Body: []byte(body)}
}

// scriptFetcher serves scripted replies, then blocks until its block
// duration (or the context) expires.
type scriptFetcher struct {
	replies [][]consumer.Message
	i       int
}

func (f *scriptFetcher) Fetch(ctx context.Context, max int, block time.Duration) ([]consumer.Message, error) {
	if f.i < len(f.replies) {
		msgs := f.replies[f.i]
		f.i++
		if len(msgs) > max {
			msgs = msgs[:max]
		}
		return msgs, nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(block):
		return nil, nil
	}
}

func (f *scriptFetcher) Rewind() {}

func TestAccumulator_SizeTrigger(t *testing.T) {
	fetcher := &scriptFetcher{replies: [][]consumer.Message{
		{tradeMsg("t-1"), tradeMsg("t-2"), tradeMsg("t-3")},
	}}
	acc := consumer.NewAccumulator(fetcher, 3, 50*time.Millisecond, nil, testMetrics)

	start := time.Now()
	batch, err := acc.Next(context.Background())
	require.NoError(t, err)

	assert.Len(t, batch.Trades, 3)
	assert.Len(t, batch.Handles, 3)
	assert.Less(t, time.Since(start), 40*time.Millisecond, "size trigger must not wait for the window")
}

func TestAccumulator_SizeTriggerAcrossFetches(t *testing.T) {
	fetcher := &scriptFetcher{replies: [][]consumer.Message{
		{tradeMsg("t-1"), tradeMsg("t-2")},
		{tradeMsg("t-3"), tradeMsg("t-4")},
	}}
	acc := consumer.NewAccumulator(fetcher, 4, time.Second, nil, testMetrics)

	batch, err := acc.Next(context.Background())
	require.NoError(t, err)

	assert.Len(t, batch.Trades, 4)
	assert.Equal(t, []string{"t-1-0", "t-2-0", "t-3-0", "t-4-0"}, batch.Handles)
}

func TestAccumulator_WindowTrigger(t *testing.T) {
	fetcher := &scriptFetcher{replies: [][]consumer.Message{
		{tradeMsg("t-1")},
	}}
	acc := consumer.NewAccumulator(fetcher, 3, 50*time.Millisecond, nil, testMetrics)

	start := time.Now()
	batch, err := acc.Next(context.Background())
	require.NoError(t, err)

	assert.Len(t, batch.Trades, 1)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond, "lone event must wait out the window")
}

func TestAccumulator_DecodeFailureKeepsHandle(t *testing.T) {
	bad := consumer.Message{ID: "bad-0", Body: []byte(`{"trade_id":`)}
	fetcher := &scriptFetcher{replies: [][]consumer.Message{
		{tradeMsg("t-1"), bad, tradeMsg("t-2")},
	}}
	acc := consumer.NewAccumulator(fetcher, 3, 50*time.Millisecond, nil, testMetrics)

	batch, err := acc.Next(context.Background())
	require.NoError(t, err)

	assert.Len(t, batch.Trades, 2)
	assert.Equal(t, []string{"t-1-0", "bad-0", "t-2-0"}, batch.Handles)
	assert.Equal(t, 1, batch.Skipped)
}

func TestAccumulator_IdleProducesNoBatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	acc := consumer.NewAccumulator(&scriptFetcher{}, 3, 50*time.Millisecond, nil, testMetrics)

	_, err := acc.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
