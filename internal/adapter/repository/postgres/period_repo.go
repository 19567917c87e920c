package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/infrastructure/postgres/generated"
	"github.com/contaledger/contaledger/internal/usecase"
)

// PeriodRepository implements usecase.PeriodRepository.
type PeriodRepository struct {
	queries *generated.Queries
}

// NewPeriodRepository creates a new PeriodRepository.
func NewPeriodRepository(pool *pgxpool.Pool) *PeriodRepository {
	return newPeriodRepository(pool)
}

func newPeriodRepository(db generated.DBTX) *PeriodRepository {
	return &PeriodRepository{queries: generated.New(db)}
}

// List returns periods newest first, optionally filtered by state.
func (r *PeriodRepository) List(ctx context.Context, filter domain.PeriodFilter) ([]*domain.Period, error) {
	var (
		rows []generated.AccountingPeriod
		err  error
	)

	if filter.State != "" {
		rows, err = r.queries.ListPeriodsByState(ctx, string(filter.State))
	} else {
		rows, err = r.queries.ListPeriods(ctx)
	}
	if err != nil {
		return nil, err
	}

	return rowsToPeriods(rows), nil
}

// GetByID retrieves a period by ID.
func (r *PeriodRepository) GetByID(ctx context.Context, id string) (*domain.Period, error) {
	row, err := r.queries.GetPeriodByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPeriodNotFound
		}

		return nil, err
	}

	return rowToPeriod(row), nil
}

// periodSetLockKey identifies the transaction-scoped advisory lock held by
// every writer of the period set. FOR UPDATE does not cover rows that another
// transaction is about to insert.
const periodSetLockKey int64 = 0x50455249

// ListForUpdate takes the period set lock and then locks every period row,
// oldest first.
func (r *PeriodRepository) ListForUpdate(ctx context.Context, tx usecase.Transaction) ([]*domain.Period, error) {
	q := queriesFor(tx)
	if err := q.LockPeriodSet(ctx, periodSetLockKey); err != nil {
		return nil, err
	}

	rows, err := q.ListPeriodsForUpdate(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToPeriods(rows), nil
}

// Create inserts a new period.
func (r *PeriodRepository) Create(ctx context.Context, tx usecase.Transaction, period *domain.Period) error {
	err := queriesFor(tx).CreatePeriod(ctx, generated.CreatePeriodParams{
		ID:        period.ID,
		Year:      int32(period.Year),
		Month:     int32(period.Month),
		State:     string(period.State),
		IsActive:  period.IsActive,
		ClosedBy:  stringPtrToPgText(period.ClosedBy),
		ClosedAt:  timePtrToPgTimestamptz(period.ClosedAt),
		CreatedAt: timeToPgTimestamptz(period.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(period.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrPeriodExists
	}

	return err
}

// Update persists year, month, state and the closing stamp.
// The active marker is managed separately through SetActive.
func (r *PeriodRepository) Update(ctx context.Context, tx usecase.Transaction, period *domain.Period) error {
	n, err := queriesFor(tx).UpdatePeriod(ctx, generated.UpdatePeriodParams{
		ID:        period.ID,
		Year:      int32(period.Year),
		Month:     int32(period.Month),
		State:     string(period.State),
		ClosedBy:  stringPtrToPgText(period.ClosedBy),
		ClosedAt:  timePtrToPgTimestamptz(period.ClosedAt),
		UpdatedAt: timeToPgTimestamptz(period.UpdatedAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPeriodExists
		}
		return err
	}
	if n == 0 {
		return domain.ErrPeriodNotFound
	}

	return nil
}

// Delete removes a period.
func (r *PeriodRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := queriesFor(tx).DeletePeriod(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrPeriodNotFound
	}

	return nil
}

// HasDependents reports whether journal entries or stored balances reference the period.
func (r *PeriodRepository) HasDependents(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	return queriesFor(tx).PeriodHasDependents(ctx, id)
}

// SetActive moves the active marker to id. An empty id clears it.
func (r *PeriodRepository) SetActive(ctx context.Context, tx usecase.Transaction, id string) error {
	q := queriesFor(tx)
	if err := q.ClearActivePeriods(ctx, id); err != nil {
		return err
	}
	if id == "" {
		return nil
	}

	return q.SetActivePeriod(ctx, id)
}

func rowsToPeriods(rows []generated.AccountingPeriod) []*domain.Period {
	periods := make([]*domain.Period, len(rows))
	for i, row := range rows {
		periods[i] = rowToPeriod(row)
	}
	return periods
}

func rowToPeriod(row generated.AccountingPeriod) *domain.Period {
	return &domain.Period{
		ID:        row.ID,
		Year:      int(row.Year),
		Month:     int(row.Month),
		State:     domain.PeriodState(row.State),
		IsActive:  row.IsActive,
		ClosedBy:  pgTextToStringPtr(row.ClosedBy),
		ClosedAt:  pgTimestamptzToTimePtr(row.ClosedAt),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
