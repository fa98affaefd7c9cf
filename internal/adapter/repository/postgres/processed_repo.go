package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
	"github.com/2025-demo-01/svc-wallet/internal/usecase"
)

const uniqueViolationCode = "23505"

// ProcessedTradeRepository implements usecase.ProcessedTradeRepository.
type ProcessedTradeRepository struct {
	pool *pgxpool.Pool
}

// NewProcessedTradeRepository creates a new ProcessedTradeRepository.
func NewProcessedTradeRepository(pool *pgxpool.Pool) *ProcessedTradeRepository {
	return &ProcessedTradeRepository{pool: pool}
}

// Exists reports whether a marker for the trade is already present.
func (r *ProcessedTradeRepository) Exists(ctx context.Context, tx usecase.Transaction, tradeID string) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var exists bool

	err := pgxTx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM processed_trades WHERE trade_id = $1)`,
		tradeID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Create inserts the idempotency marker. A unique violation means a
// concurrent writer recorded the trade first and maps to
// domain.ErrTradeAlreadyProcessed.
func (r *ProcessedTradeRepository) Create(ctx context.Context, tx usecase.Transaction, marker *domain.ProcessedTrade) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO processed_trades (trade_id, account_id, qty, price, ts_ms)
		 VALUES ($1, $2, $3, $4, $5)`,
		marker.TradeID,
		marker.AccountID,
		decimalToNumeric(marker.Qty),
		decimalToNumeric(marker.Price),
		marker.TsMs,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.ErrTradeAlreadyProcessed
		}

		return err
	}

	return nil
}
