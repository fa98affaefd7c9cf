package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/2025-demo-01/svc-wallet/internal/adapter/http/dto"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/metrics"
	"github.com/2025-demo-01/svc-wallet/internal/usecase"
)

// WithdrawHandler handles withdrawal intake requests.
type WithdrawHandler struct {
	withdrawUC      *usecase.WithdrawUseCase
	defaultCurrency string
	metrics         *metrics.Metrics
}

// NewWithdrawHandler creates a new WithdrawHandler.
func NewWithdrawHandler(withdrawUC *usecase.WithdrawUseCase, defaultCurrency string, m *metrics.Metrics) *WithdrawHandler {
	return &WithdrawHandler{
		withdrawUC:      withdrawUC,
		defaultCurrency: defaultCurrency,
		metrics:         m,
	}
}

// Submit accepts one withdrawal request. The idempotency key comes from the
// body or, failing that, the Idempotency-Key header.
func (h *WithdrawHandler) Submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.metrics.WithdrawRequests.Inc()

	var req dto.SubmitWithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}

	receipt, err := h.withdrawUC.Submit(r.Context(), req.ToUseCaseInput(h.defaultCurrency))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to submit withdrawal", err.Error())

		return
	}

	h.metrics.WithdrawQueueTime.Observe(time.Since(start).Seconds())
	if receipt.Status == usecase.WithdrawStatusQueued && receipt.QueueDepth >= 0 {
		h.metrics.WithdrawQueueDepth.Set(float64(receipt.QueueDepth))
	}

	status := http.StatusAccepted
	if receipt.Status == usecase.WithdrawStatusDuplicate {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.WithdrawFromReceipt(receipt))
}
