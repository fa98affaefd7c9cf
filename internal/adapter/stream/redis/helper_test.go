package redis

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

const (
	testStream = "trading.trades"
	testGroup  = "wallet-ledger"
)

func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})

	return client, mr
}

func newTestConsumer(t *testing.T, client *redislib.Client) *Consumer {
	t.Helper()

	c := NewConsumer(client, testStream, testGroup, "wallet-1")
	if err := c.EnsureGroup(context.Background()); err != nil {
		t.Fatalf("EnsureGroup() error = %v", err)
	}

	return c
}

func tradePayload(id string) string {
	return fmt.Sprintf(`{"trade_id":%q,"order_id":"o-1","symbol":"BTCUSDT","side":"buy","price":65000.5,"qty":0.25,"ts":1700000000000}`, id)
}

func addTrade(t *testing.T, client *redislib.Client, id string) {
	t.Helper()

	err := client.XAdd(context.Background(), &redislib.XAddArgs{
		Stream: testStream,
		Values: map[string]any{"payload": tradePayload(id)},
	}).Err()
	if err != nil {
		t.Fatalf("XAdd() error = %v", err)
	}
}
