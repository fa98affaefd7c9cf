package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
	"github.com/2025-demo-01/svc-wallet/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create appends a ledger entry inside the given transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO ledger (id, account_id, currency, delta, ref_type, ref_id, ts_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID,
		entry.AccountID,
		entry.Currency,
		decimalToNumeric(entry.Delta),
		entry.RefType,
		entry.RefID,
		entry.TsMs,
	)

	return err
}
