package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// GetForUpdate locks the account row for the duration of the transaction.
	GetForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
}

// ProcessedTradeRepository defines data access for idempotency markers.
type ProcessedTradeRepository interface {
	Exists(ctx context.Context, tx Transaction, tradeID string) (bool, error)
	// Create returns domain.ErrTradeAlreadyProcessed when the marker's
	// uniqueness constraint is violated by a concurrent writer.
	Create(ctx context.Context, tx Transaction, marker *domain.ProcessedTrade) error
}

// LedgerRepository defines ledger-wide operations.
type LedgerRepository interface {
	// CheckBalances returns every account whose balance does not equal the
	// sum of its ledger deltas.
	CheckBalances(ctx context.Context) ([]domain.BalanceDrift, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// AccountResolver maps a trade event to the account it settles against.
type AccountResolver interface {
	Resolve(trade *domain.TradeEvent) string
}

// IdempotencyStore handles idempotency key storage for the intake service.
type IdempotencyStore interface {
	// SetIfAbsent marks the key, returning true when this caller was first.
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// WithdrawEnqueuer publishes an accepted withdrawal onto the withdraw stream.
type WithdrawEnqueuer interface {
	// Enqueue returns the approximate queue depth after the append.
	Enqueue(ctx context.Context, msg domain.WithdrawQueued) (int64, error)
}

// Signer requests a co-signature from the signing service.
type Signer interface {
	Sign(ctx context.Context, payload []byte) (string, error)
}
