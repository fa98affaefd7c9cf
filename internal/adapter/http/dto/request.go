package dto

import (
	"github.com/shopspring/decimal"

	"github.com/2025-demo-01/svc-wallet/internal/usecase"
)

// SubmitWithdrawRequest represents a withdrawal request.
type SubmitWithdrawRequest struct {
	UserID         string          `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// ToUseCaseInput converts to use case input, filling in the default currency
// when none was supplied.
func (r *SubmitWithdrawRequest) ToUseCaseInput(defaultCurrency string) usecase.SubmitWithdrawInput {
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return usecase.SubmitWithdrawInput{
		UserID:         r.UserID,
		Amount:         r.Amount,
		Currency:       currency,
		IdempotencyKey: r.IdempotencyKey,
	}
}
