package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a running balance for one currency. It is created lazily at
// zero balance the first time a trade references it, and mutated only inside
// the ledger store's apply transaction under a row lock.
type Account struct {
	ID        string
	Currency  string
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

// ApplyDelta returns the balance after applying a signed delta.
func (a *Account) ApplyDelta(delta decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(delta)
}

// BalanceDrift reports an account whose stored balance disagrees with the
// sum of its ledger deltas.
type BalanceDrift struct {
	AccountID string
	Balance   decimal.Decimal
	LedgerSum decimal.Decimal
}
