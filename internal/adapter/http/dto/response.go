package dto

import (
	"github.com/2025-demo-01/svc-wallet/internal/usecase"
)

// WithdrawResponse represents an accepted or deduplicated withdrawal.
type WithdrawResponse struct {
	WithdrawID string `json:"withdraw_id,omitempty"`
	Status     string `json:"status"`
	HSMStatus  string `json:"hsm_status,omitempty"`
	QueueDepth int64  `json:"queue_depth,omitempty"`
}

// WithdrawFromReceipt converts a use case receipt to a response. A negative
// queue depth means the depth was unavailable and is omitted.
func WithdrawFromReceipt(r *usecase.WithdrawReceipt) WithdrawResponse {
	resp := WithdrawResponse{
		WithdrawID: r.WithdrawID,
		Status:     r.Status,
		HSMStatus:  r.HSMStatus,
	}
	if r.QueueDepth > 0 {
		resp.QueueDepth = r.QueueDepth
	}

	return resp
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
