package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
)

// LedgerUseCase applies trade executions to the ledger. ApplyTrade is the
// single write path: one transaction per trade, idempotent on trade_id.
type LedgerUseCase struct {
	txManager     TransactionManager
	accountRepo   AccountRepository
	entryRepo     EntryRepository
	processedRepo ProcessedTradeRepository
	resolver      AccountResolver
	idGen         IDGenerator
	currency      string
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	processedRepo ProcessedTradeRepository,
	resolver AccountResolver,
	idGen IDGenerator,
	currency string,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:     txManager,
		accountRepo:   accountRepo,
		entryRepo:     entryRepo,
		processedRepo: processedRepo,
		resolver:      resolver,
		idGen:         idGen,
		currency:      currency,
	}
}

// ApplyTrade applies one trade as an atomic balance mutation. It reports
// ResultDuplicate when the trade has already taken effect, with no side
// effects. Any returned error means the transaction rolled back and nothing
// is visible; the caller must not retry in place (recovery is re-delivery
// after restart, made safe by the idempotency marker).
func (uc *LedgerUseCase) ApplyTrade(ctx context.Context, trade *domain.TradeEvent) (domain.ApplyResult, error) {
	if err := trade.Validate(); err != nil {
		return 0, err
	}

	accountID := uc.resolver.Resolve(trade)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// 1. Idempotency marker check: bail out before touching the account row.
	seen, err := uc.processedRepo.Exists(ctx, tx, trade.TradeID)
	if err != nil {
		return 0, err
	}

	if seen {
		return domain.ResultDuplicate, nil
	}

	// 2. Lock the account row, creating it at zero balance on first reference.
	now := time.Now().UTC()

	account, err := uc.accountRepo.GetForUpdate(ctx, tx, accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		account = &domain.Account{ID: accountID, Currency: uc.currency, UpdatedAt: now}
		if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
			return 0, err
		}

		// Re-lock: a concurrent creator may have won the insert.
		account, err = uc.accountRepo.GetForUpdate(ctx, tx, accountID)
	}
	if err != nil {
		return 0, err
	}

	// 3. Append the ledger entry and move the balance.
	delta := trade.Delta()
	entry := &domain.LedgerEntry{
		ID:        uc.idGen.Generate(),
		AccountID: account.ID,
		Currency:  account.Currency,
		Delta:     delta,
		RefType:   domain.RefTypeTrade,
		RefID:     trade.TradeID,
		TsMs:      trade.Ts,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return 0, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, account.ApplyDelta(delta), now); err != nil {
		return 0, err
	}

	// 4. Record the marker. A unique-violation here means a concurrent
	// writer applied the same trade after our check; that race is the
	// normal idempotent-skip outcome, not a failure.
	marker := &domain.ProcessedTrade{
		TradeID:   trade.TradeID,
		AccountID: account.ID,
		Qty:       trade.Qty,
		Price:     trade.Price,
		TsMs:      trade.Ts,
	}

	err = uc.processedRepo.Create(ctx, tx, marker)
	if errors.Is(err, domain.ErrTradeAlreadyProcessed) {
		return domain.ResultDuplicate, nil
	}
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return domain.ResultApplied, nil
}
