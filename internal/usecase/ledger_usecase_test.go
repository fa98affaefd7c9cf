package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
	"github.com/2025-demo-01/svc-wallet/internal/usecase"
	"github.com/2025-demo-01/svc-wallet/internal/usecase/mocks"
)

type ledgerFixture struct {
	txMgr     *mocks.MockTransactionManager
	accounts  *mocks.MockAccountRepository
	entries   *mocks.MockEntryRepository
	processed *mocks.MockProcessedTradeRepository
	uc        *usecase.LedgerUseCase
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		txMgr:     mocks.NewMockTransactionManager(),
		accounts:  mocks.NewMockAccountRepository(),
		entries:   mocks.NewMockEntryRepository(),
		processed: mocks.NewMockProcessedTradeRepository(),
	}

	resolver := usecase.NewStaticAccountResolver(nil, "acc-main")
	f.uc = usecase.NewLedgerUseCase(f.txMgr, f.accounts, f.entries, f.processed, resolver, mocks.NewMockIDGenerator(), "USDT")

	return f
}

func trade(id string, side domain.Side, qty int64) *domain.TradeEvent {
	return &domain.TradeEvent{
		TradeID: id,
		OrderID: "o-" + id,
		Symbol:  "BTCUSDT",
		Side:    side,
		Price:   decimal.NewFromInt(65000),
		Qty:     decimal.NewFromInt(qty),
		Ts:      1700000000000,
	}
}

func TestLedgerUseCase_ApplyTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a new trade", func(t *testing.T) {
		f := newLedgerFixture()

		res, err := f.uc.ApplyTrade(ctx, trade("t-1", domain.SideBuy, 10))
		require.NoError(t, err)
		assert.Equal(t, domain.ResultApplied, res)

		require.Len(t, f.entries.Entries, 1)
		entry := f.entries.Entries[0]
		assert.Equal(t, "acc-main", entry.AccountID)
		assert.Equal(t, domain.RefTypeTrade, entry.RefType)
		assert.Equal(t, "t-1", entry.RefID)
		assert.True(t, entry.Delta.Equal(decimal.NewFromInt(10)))
		assert.True(t, f.accounts.Balance("acc-main").Equal(decimal.NewFromInt(10)))
	})

	t.Run("second application is a duplicate with no side effects", func(t *testing.T) {
		f := newLedgerFixture()

		res, err := f.uc.ApplyTrade(ctx, trade("t-1", domain.SideBuy, 10))
		require.NoError(t, err)
		require.Equal(t, domain.ResultApplied, res)

		res, err = f.uc.ApplyTrade(ctx, trade("t-1", domain.SideBuy, 10))
		require.NoError(t, err)
		assert.Equal(t, domain.ResultDuplicate, res)

		assert.Len(t, f.entries.Entries, 1)
		assert.True(t, f.accounts.Balance("acc-main").Equal(decimal.NewFromInt(10)))
	})

	t.Run("marker conflict after the check is a duplicate", func(t *testing.T) {
		f := newLedgerFixture()
		f.processed.ExistsFunc = func(ctx context.Context, tx usecase.Transaction, tradeID string) (bool, error) {
			return false, nil
		}
		f.processed.CreateFunc = func(ctx context.Context, tx usecase.Transaction, marker *domain.ProcessedTrade) error {
			return domain.ErrTradeAlreadyProcessed
		}

		res, err := f.uc.ApplyTrade(ctx, trade("t-1", domain.SideBuy, 10))
		require.NoError(t, err)
		assert.Equal(t, domain.ResultDuplicate, res)

		// The transaction must have rolled back, not committed.
		require.Len(t, f.txMgr.Transactions, 1)
		assert.False(t, f.txMgr.Transactions[0].Committed)
	})

	t.Run("single account ordering and balance reconstruction", func(t *testing.T) {
		f := newLedgerFixture()

		seq := []*domain.TradeEvent{
			trade("t-1", domain.SideBuy, 10),
			trade("t-2", domain.SideSell, 3),
			trade("t-3", domain.SideBuy, 2),
		}
		for _, tr := range seq {
			res, err := f.uc.ApplyTrade(ctx, tr)
			require.NoError(t, err)
			require.Equal(t, domain.ResultApplied, res)
		}

		require.Len(t, f.entries.Entries, 3)
		wantDeltas := []int64{10, -3, 2}
		for i, want := range wantDeltas {
			assert.True(t, f.entries.Entries[i].Delta.Equal(decimal.NewFromInt(want)),
				"entry %d delta = %s", i, f.entries.Entries[i].Delta)
		}

		assert.True(t, f.accounts.Balance("acc-main").Equal(decimal.NewFromInt(9)))
		assert.True(t, f.entries.SumDeltas("acc-main").Equal(f.accounts.Balance("acc-main")))
	})

	t.Run("routes to the account named by the event", func(t *testing.T) {
		f := newLedgerFixture()

		tr := trade("t-9", domain.SideBuy, 5)
		tr.AccountID = "acc-override"

		res, err := f.uc.ApplyTrade(ctx, tr)
		require.NoError(t, err)
		require.Equal(t, domain.ResultApplied, res)

		assert.True(t, f.accounts.Balance("acc-override").Equal(decimal.NewFromInt(5)))
		assert.True(t, f.accounts.Balance("acc-main").Equal(decimal.Zero))
	})

	t.Run("store failure rolls back and propagates", func(t *testing.T) {
		f := newLedgerFixture()
		storeErr := errors.New("connection reset")
		f.entries.CreateFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
			return storeErr
		}

		_, err := f.uc.ApplyTrade(ctx, trade("t-1", domain.SideBuy, 10))
		require.ErrorIs(t, err, storeErr)

		require.Len(t, f.txMgr.Transactions, 1)
		assert.True(t, f.txMgr.Transactions[0].RolledBack)
	})

	t.Run("rejects invalid events before opening a transaction", func(t *testing.T) {
		f := newLedgerFixture()

		bad := trade("t-1", domain.SideBuy, 10)
		bad.Side = "short"

		_, err := f.uc.ApplyTrade(ctx, bad)
		require.ErrorIs(t, err, domain.ErrUnknownSide)
		assert.Empty(t, f.txMgr.Transactions)
	})
}
