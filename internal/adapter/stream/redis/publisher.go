package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
)

// Publisher appends applied-trade notifications to the notification stream.
type Publisher struct {
	client *redis.Client
	stream string
}

// NewPublisher creates a new Publisher.
func NewPublisher(client *redis.Client, stream string) *Publisher {
	return &Publisher{client: client, stream: stream}
}

// PublishApplied appends one notification for an applied trade.
func (p *Publisher) PublishApplied(ctx context.Context, n domain.TradeApplied) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{"payload": body},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish notification for trade %s: %w", n.TradeID, err)
	}

	return nil
}

// WithdrawEnqueuer appends accepted withdrawals to the withdraw stream.
type WithdrawEnqueuer struct {
	client *redis.Client
	stream string
}

// NewWithdrawEnqueuer creates a new WithdrawEnqueuer.
func NewWithdrawEnqueuer(client *redis.Client, stream string) *WithdrawEnqueuer {
	return &WithdrawEnqueuer{client: client, stream: stream}
}

// Enqueue appends the withdrawal and returns the stream depth after the
// append. A depth of -1 means the withdrawal was enqueued but the depth
// could not be read.
func (e *WithdrawEnqueuer) Enqueue(ctx context.Context, msg domain.WithdrawQueued) (int64, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("marshal withdrawal: %w", err)
	}

	err = e.client.XAdd(ctx, &redis.XAddArgs{
		Stream: e.stream,
		Values: map[string]any{"payload": body},
	}).Err()
	if err != nil {
		return 0, fmt.Errorf("enqueue withdrawal %s: %w", msg.WithdrawID, err)
	}

	depth, err := e.client.XLen(ctx, e.stream).Result()
	if err != nil {
		log.Warn().Err(err).
			Str("withdraw_id", msg.WithdrawID).
			Str("stream", e.stream).
			Msg("read withdraw stream depth")

		return -1, nil
	}

	return depth, nil
}
