package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
)

// Withdraw receipt statuses.
const (
	WithdrawStatusQueued    = "queued"
	WithdrawStatusDuplicate = "duplicate"
)

// WithdrawUseCase accepts withdrawal requests, deduplicates them by the
// client-supplied idempotency key and enqueues them for asynchronous
// processing. The consumer side of the withdraw stream is a separate system.
type WithdrawUseCase struct {
	idem     IdempotencyStore
	enqueuer WithdrawEnqueuer
	signer   Signer
	logger   *slog.Logger
	ttl      time.Duration
}

// NewWithdrawUseCase creates a new WithdrawUseCase.
func NewWithdrawUseCase(idem IdempotencyStore, enqueuer WithdrawEnqueuer, signer Signer, logger *slog.Logger, ttl time.Duration) *WithdrawUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &WithdrawUseCase{
		idem:     idem,
		enqueuer: enqueuer,
		signer:   signer,
		logger:   logger,
		ttl:      ttl,
	}
}

// SubmitWithdrawInput is one withdrawal request.
type SubmitWithdrawInput struct {
	UserID         string
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
}

// WithdrawReceipt is returned to the caller once the request is accepted.
type WithdrawReceipt struct {
	WithdrawID string
	Status     string
	HSMStatus  string
	QueueDepth int64
}

// Submit validates, deduplicates, co-signs and enqueues one withdrawal.
// A repeated idempotency key yields a duplicate receipt with no side effects.
func (uc *WithdrawUseCase) Submit(ctx context.Context, input SubmitWithdrawInput) (*WithdrawReceipt, error) {
	if input.IdempotencyKey == "" {
		return nil, domain.ErrMissingIdempotencyKey
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	first, err := uc.idem.SetIfAbsent(ctx, input.IdempotencyKey, uc.ttl)
	if err != nil {
		return nil, err
	}

	if !first {
		return &WithdrawReceipt{Status: WithdrawStatusDuplicate}, nil
	}

	msg := domain.WithdrawQueued{
		WithdrawID: uuid.NewString(),
		UserID:     input.UserID,
		Amount:     input.Amount,
		Currency:   input.Currency,
		CreatedAt:  time.Now().UnixMilli(),
	}

	// Co-signing is best effort: the signer being down must not block the
	// intake path, only mark the message.
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	status, err := uc.signer.Sign(ctx, payload)
	if err != nil {
		uc.logger.Warn("hsm signing failed", "withdraw_id", msg.WithdrawID, "error", err)
		status = "error"
	}
	msg.HSMStatus = status

	depth, err := uc.enqueuer.Enqueue(ctx, msg)
	if err != nil {
		return nil, err
	}

	return &WithdrawReceipt{
		WithdrawID: msg.WithdrawID,
		Status:     WithdrawStatusQueued,
		HSMStatus:  status,
		QueueDepth: depth,
	}, nil
}
