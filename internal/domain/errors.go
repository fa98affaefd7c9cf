package domain

import "errors"

var (
	// Trade event validation errors
	ErrMissingTradeID = errors.New("trade event has no trade_id")
	ErrUnknownSide    = errors.New("trade side must be buy or sell")
	ErrNonPositiveQty = errors.New("trade qty must be positive")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Idempotency marker errors
	ErrTradeAlreadyProcessed = errors.New("trade already processed")

	// Withdraw intake errors
	ErrMissingIdempotencyKey = errors.New("idempotency_key required")
	ErrInvalidAmount         = errors.New("amount must be positive")
)
