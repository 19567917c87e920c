package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// TotalsBySide sums a period's stored balances grouped by the accounts' natural side.
func (r *LedgerRepository) TotalsBySide(ctx context.Context, periodID string) (domain.SideTotals, error) {
	row, err := r.queries.SumBalancesBySide(ctx, periodID)
	if err != nil {
		return domain.SideTotals{}, err
	}

	return domain.SideTotals{
		Debit:  numericToDecimal(row.DebitSide),
		Credit: numericToDecimal(row.CreditSide),
	}, nil
}
