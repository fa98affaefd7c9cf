package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/2025-demo-01/svc-wallet/internal/consumer"
)

// Consumer reads trade messages from a Redis stream through a consumer
// group. Acknowledging a message is the position commit: unacked messages
// stay in the group's pending list and are re-delivered after a restart.
type Consumer struct {
	client *redis.Client
	stream string
	group  string
	name   string

	// draining is set while the consumer replays its own pending entries
	// after a restart. Once the backlog is empty, reads switch to new
	// messages only.
	draining bool
	cursor   string
}

// NewConsumer creates a new Consumer.
func NewConsumer(client *redis.Client, stream, group, name string) *Consumer {
	c := &Consumer{
		client: client,
		stream: stream,
		group:  group,
		name:   name,
	}
	c.Rewind()

	return c
}

// EnsureGroup creates the consumer group if it does not exist yet.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return fmt.Errorf("create consumer group %s: %w", c.group, err)
	}

	return nil
}

// Rewind makes the next reads replay this consumer's pending entries before
// any new messages.
func (c *Consumer) Rewind() {
	c.cursor = "0"
	c.draining = true
}

// Fetch reads up to max ready messages, blocking for at most block while
// none are available.
func (c *Consumer) Fetch(ctx context.Context, max int, block time.Duration) ([]consumer.Message, error) {
	cursor := ">"
	if c.draining {
		cursor = c.cursor
	}

	// The server receives BLOCK in whole milliseconds, and BLOCK 0 means
	// block forever. A sub-millisecond remainder must round up, not down.
	if block < time.Millisecond {
		block = time.Millisecond
	}

	res, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.name,
		Streams:  []string{c.stream, cursor},
		Count:    int64(max),
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// An empty reply while replaying the backlog means the
			// backlog is gone.
			c.draining = false

			return nil, nil
		}

		return nil, err
	}

	var msgs []consumer.Message

	for _, stream := range res {
		if c.draining && len(stream.Messages) == 0 {
			// Pending backlog drained, switch to new messages.
			c.draining = false
			continue
		}

		for _, m := range stream.Messages {
			msgs = append(msgs, consumer.Message{ID: m.ID, Body: payloadOf(m)})
			c.cursor = m.ID
		}
	}

	return msgs, nil
}

// Commit acknowledges the given message IDs, advancing the committed
// position past them.
func (c *Consumer) Commit(ctx context.Context, handles []string) error {
	if len(handles) == 0 {
		return nil
	}

	if err := c.client.XAck(ctx, c.stream, c.group, handles...).Err(); err != nil {
		return fmt.Errorf("ack %d messages: %w", len(handles), err)
	}

	return nil
}

func payloadOf(m redis.XMessage) []byte {
	if raw, ok := m.Values["payload"]; ok {
		if s, ok := raw.(string); ok {
			return []byte(s)
		}
	}

	return nil
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}
