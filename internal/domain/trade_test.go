package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
)

func TestParseTradeEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{
			name:    "numeric price and qty",
			payload: `{"trade_id":"t-1","order_id":"o-1","symbol":"BTCUSDT","side":"buy","price":65000.5,"qty":0.25,"ts":1700000000000}`,
		},
		{
			name:    "string price and qty",
			payload: `{"trade_id":"t-2","order_id":"o-2","symbol":"BTCUSDT","side":"sell","price":"65000.5","qty":"0.25","ts":1700000000000}`,
		},
		{
			name:    "optional account id",
			payload: `{"trade_id":"t-3","order_id":"o-3","symbol":"BTCUSDT","side":"buy","price":1,"qty":1,"ts":1,"account_id":"acc-7"}`,
		},
		{
			name:    "missing trade id",
			payload: `{"order_id":"o-1","symbol":"BTCUSDT","side":"buy","price":1,"qty":1,"ts":1}`,
			wantErr: domain.ErrMissingTradeID,
		},
		{
			name:    "unknown side",
			payload: `{"trade_id":"t-1","symbol":"BTCUSDT","side":"long","price":1,"qty":1,"ts":1}`,
			wantErr: domain.ErrUnknownSide,
		},
		{
			name:    "zero qty",
			payload: `{"trade_id":"t-1","symbol":"BTCUSDT","side":"buy","price":1,"qty":0,"ts":1}`,
			wantErr: domain.ErrNonPositiveQty,
		},
		{
			name:    "negative qty",
			payload: `{"trade_id":"t-1","symbol":"BTCUSDT","side":"sell","price":1,"qty":-3,"ts":1}`,
			wantErr: domain.ErrNonPositiveQty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := domain.ParseTradeEvent([]byte(tt.payload))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseTradeEvent() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseTradeEvent() error = %v", err)
			}
			if ev.TradeID == "" {
				t.Error("decoded event has empty trade_id")
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		if _, err := domain.ParseTradeEvent([]byte(`{"trade_id":`)); err == nil {
			t.Fatal("expected decode error")
		}
	})
}

func TestTradeEvent_Delta(t *testing.T) {
	qty := decimal.RequireFromString("2.5")

	buy := domain.TradeEvent{Side: domain.SideBuy, Qty: qty}
	if !buy.Delta().Equal(qty) {
		t.Errorf("buy delta = %s, want %s", buy.Delta(), qty)
	}

	sell := domain.TradeEvent{Side: domain.SideSell, Qty: qty}
	if !sell.Delta().Equal(qty.Neg()) {
		t.Errorf("sell delta = %s, want %s", sell.Delta(), qty.Neg())
	}
}
