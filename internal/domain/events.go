package domain

import "github.com/shopspring/decimal"

// Notification statuses.
const (
	StatusApplied = "applied"
)

// TradeApplied is the downstream notification published once per applied
// trade. Delivery is at-least-once; downstream consumers dedupe on trade_id.
type TradeApplied struct {
	TradeID string `json:"trade_id"`
	Status  string `json:"status"`
	Ts      int64  `json:"ts"`
}

// WithdrawQueued is the message the intake service enqueues on the withdraw
// stream after accepting a withdrawal request.
type WithdrawQueued struct {
	WithdrawID string          `json:"withdraw_id"`
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	CreatedAt  int64           `json:"created_at"`
	HSMStatus  string          `json:"hsm_status"`
}
