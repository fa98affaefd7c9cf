package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
	"github.com/2025-demo-01/svc-wallet/internal/usecase"
)

func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBegin()
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return tx
}

func marker() *domain.ProcessedTrade {
	return &domain.ProcessedTrade{
		TradeID:   "t-1001",
		AccountID: "acc-main",
		Qty:       decimal.NewFromInt(3),
		Price:     decimal.RequireFromString("27100.5"),
		TsMs:      time.Now().UnixMilli(),
	}
}

func TestProcessedTradeCreate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectExec("INSERT INTO processed_trades").
		WithArgs("t-1001", "acc-main", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewProcessedTradeRepository(nil)
	if err := repo.Create(context.Background(), tx, marker()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestProcessedTradeCreateUniqueViolation(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectExec("INSERT INTO processed_trades").
		WithArgs("t-1001", "acc-main", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	repo := NewProcessedTradeRepository(nil)
	err := repo.Create(context.Background(), tx, marker())
	if !errors.Is(err, domain.ErrTradeAlreadyProcessed) {
		t.Fatalf("expected ErrTradeAlreadyProcessed, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestProcessedTradeExists(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectQuery("SELECT EXISTS").
		WithArgs("t-1001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewProcessedTradeRepository(nil)
	exists, err := repo.Exists(context.Background(), tx, "t-1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatalf("expected marker to exist")
	}

	assertExpectations(t, mockPool)
}
