package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade execution.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ApplyResult classifies the outcome of applying a trade to the ledger.
type ApplyResult int

const (
	// ResultApplied means the trade mutated the balance and produced a ledger entry.
	ResultApplied ApplyResult = iota
	// ResultDuplicate means the trade had already taken effect; nothing changed.
	ResultDuplicate
)

func (r ApplyResult) String() string {
	if r == ResultDuplicate {
		return "duplicate"
	}
	return "applied"
}

// TradeEvent is one trade execution as consumed from the trades stream.
// It is immutable once decoded.
type TradeEvent struct {
	TradeID   string          `json:"trade_id"`
	OrderID   string          `json:"order_id"`
	Symbol    string          `json:"symbol"`
	Side      Side            `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Qty       decimal.Decimal `json:"qty"`
	Ts        int64           `json:"ts"`
	AccountID string          `json:"account_id,omitempty"`
}

// ParseTradeEvent decodes and validates a trade event payload.
func ParseTradeEvent(data []byte) (*TradeEvent, error) {
	var ev TradeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}

	if err := ev.Validate(); err != nil {
		return nil, err
	}

	return &ev, nil
}

// Validate checks the event against the wire contract.
func (e *TradeEvent) Validate() error {
	if e.TradeID == "" {
		return ErrMissingTradeID
	}

	if e.Side != SideBuy && e.Side != SideSell {
		return ErrUnknownSide
	}

	if e.Qty.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveQty
	}

	return nil
}

// Delta is the signed balance change for this trade: +qty for buy, -qty for sell.
func (e *TradeEvent) Delta() decimal.Decimal {
	if e.Side == SideSell {
		return e.Qty.Neg()
	}
	return e.Qty
}
