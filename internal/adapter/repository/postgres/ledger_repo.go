package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckBalances returns every account whose stored balance drifted from the
// sum of its ledger deltas.
func (r *LedgerRepository) CheckBalances(ctx context.Context) ([]domain.BalanceDrift, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.balance, COALESCE(SUM(l.delta), 0) AS ledger_sum
		 FROM accounts a
		 LEFT JOIN ledger l ON l.account_id = a.id
		 GROUP BY a.id, a.balance
		 HAVING a.balance <> COALESCE(SUM(l.delta), 0)
		 ORDER BY a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []domain.BalanceDrift

	for rows.Next() {
		var (
			drift     domain.BalanceDrift
			balance   pgtype.Numeric
			ledgerSum pgtype.Numeric
		)

		if err := rows.Scan(&drift.AccountID, &balance, &ledgerSum); err != nil {
			return nil, err
		}

		drift.Balance = numericToDecimal(balance)
		drift.LedgerSum = numericToDecimal(ledgerSum)
		drifts = append(drifts, drift)
	}

	return drifts, rows.Err()
}
