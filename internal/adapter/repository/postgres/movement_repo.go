package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/infrastructure/postgres/generated"
	"github.com/contaledger/contaledger/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository over journal entry lines.
type MovementRepository struct{}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(_ *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{}
}

// SumByAccount totals the debit and credit lines posted to an account in a period.
// Voided entries are excluded.
func (r *MovementRepository) SumByAccount(ctx context.Context, tx usecase.Transaction, periodID, accountID string) (domain.Movement, error) {
	row, err := queriesFor(tx).SumAccountMovements(ctx, generated.SumAccountMovementsParams{
		PeriodID:  periodID,
		AccountID: accountID,
	})
	if err != nil {
		return domain.Movement{}, err
	}

	return domain.Movement{
		Debit:  numericToDecimal(row.TotalDebit),
		Credit: numericToDecimal(row.TotalCredit),
	}, nil
}
