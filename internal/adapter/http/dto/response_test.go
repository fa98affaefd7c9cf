package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/2025-demo-01/svc-wallet/internal/usecase"
)

func TestWithdrawFromReceipt(t *testing.T) {
	resp := WithdrawFromReceipt(&usecase.WithdrawReceipt{
		WithdrawID: "w-1",
		Status:     usecase.WithdrawStatusQueued,
		HSMStatus:  "signed",
		QueueDepth: 7,
	})

	if resp.QueueDepth != 7 {
		t.Fatalf("expected queue depth 7, got %d", resp.QueueDepth)
	}
}

func TestWithdrawFromReceipt_UnknownDepthOmitted(t *testing.T) {
	resp := WithdrawFromReceipt(&usecase.WithdrawReceipt{
		WithdrawID: "w-1",
		Status:     usecase.WithdrawStatusQueued,
		QueueDepth: -1,
	})

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	if strings.Contains(string(body), "queue_depth") {
		t.Fatalf("expected queue_depth omitted, got %s", body)
	}
}
