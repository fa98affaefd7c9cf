package domain

import (
	"github.com/shopspring/decimal"
)

// Reference types for ledger entries.
const (
	RefTypeTrade = "trade"
)

// LedgerEntry is a single immutable balance delta. Entries are append-only;
// summing all deltas for an account reconstructs its balance exactly.
type LedgerEntry struct {
	ID        string
	AccountID string
	Currency  string
	Delta     decimal.Decimal
	RefType   string
	RefID     string
	TsMs      int64
}

// ProcessedTrade is the idempotency marker for one trade. Its primary-key
// uniqueness is the sole source of truth for "has this trade taken effect".
type ProcessedTrade struct {
	TradeID   string
	AccountID string
	Qty       decimal.Decimal
	Price     decimal.Decimal
	TsMs      int64
}
