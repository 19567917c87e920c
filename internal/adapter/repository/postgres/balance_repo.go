package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/infrastructure/postgres/generated"
	"github.com/contaledger/contaledger/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	queries *generated.Queries
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return newBalanceRepository(pool)
}

func newBalanceRepository(db generated.DBTX) *BalanceRepository {
	return &BalanceRepository{queries: generated.New(db)}
}

// Get returns the stored balance for an account in a period.
// The boolean is false when no balance row exists.
func (r *BalanceRepository) Get(ctx context.Context, tx usecase.Transaction, periodID, accountID string) (decimal.Decimal, bool, error) {
	n, err := queriesFor(tx).GetAccountPeriodBalance(ctx, generated.GetAccountPeriodBalanceParams{
		PeriodID:  periodID,
		AccountID: accountID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, false, nil
		}

		return decimal.Zero, false, err
	}

	return numericToDecimal(n), true, nil
}

// Upsert writes the balance, replacing any earlier value for the same pair.
func (r *BalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.AccountPeriodBalance) error {
	return queriesFor(tx).UpsertAccountPeriodBalance(ctx, generated.UpsertAccountPeriodBalanceParams{
		PeriodID:  balance.PeriodID,
		AccountID: balance.AccountID,
		Balance:   decimalToNumeric(balance.Balance),
		UpdatedAt: timeToPgTimestamptz(balance.UpdatedAt),
	})
}

// ListByPeriod returns the stored balances of a period ordered by account code.
func (r *BalanceRepository) ListByPeriod(ctx context.Context, periodID string) ([]*domain.AccountPeriodBalance, error) {
	rows, err := r.queries.ListBalancesByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	balances := make([]*domain.AccountPeriodBalance, len(rows))
	for i, row := range rows {
		balances[i] = &domain.AccountPeriodBalance{
			PeriodID:    row.PeriodID,
			AccountID:   row.AccountID,
			Code:        row.Code,
			Name:        row.Name,
			BalanceSide: domain.BalanceSide(row.BalanceSide),
			Balance:     numericToDecimal(row.Balance),
			UpdatedAt:   row.UpdatedAt.Time,
		}
	}

	return balances, nil
}
