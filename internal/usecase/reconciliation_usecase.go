package usecase

import (
	"context"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
)

// ReconciliationUseCase verifies the ledger invariant: every account balance
// equals the sum of its ledger deltas.
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{ledgerRepo: ledgerRepo}
}

// CheckBalances returns every account that drifted from its ledger sum.
// An empty slice means the ledger is consistent.
func (uc *ReconciliationUseCase) CheckBalances(ctx context.Context) ([]domain.BalanceDrift, error) {
	return uc.ledgerRepo.CheckBalances(ctx)
}
