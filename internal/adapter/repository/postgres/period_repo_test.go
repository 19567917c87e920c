package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/usecase"
)

var periodColumns = []string{"id", "year", "month", "state", "is_active", "closed_by", "closed_at", "created_at", "updated_at"}

func beginMockTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBegin()
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx
}

func TestPeriodRepositoryListByState(t *testing.T) {
	mockPool := newMockPool(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	closedAt := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery("WHERE upper\\(state\\) = upper\\(\\$1\\)").
		WithArgs("CERRADO").
		WillReturnRows(pgxmock.NewRows(periodColumns).AddRow(
			"p1", int32(2024), int32(1), "CERRADO", false,
			pgtype.Text{String: "ana", Valid: true},
			timeToPgTimestamptz(closedAt),
			timeToPgTimestamptz(created),
			timeToPgTimestamptz(closedAt),
		))

	repo := newPeriodRepository(mockPool)
	periods, err := repo.List(context.Background(), domain.PeriodFilter{State: domain.PeriodStateClosed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}

	p := periods[0]
	if p.ID != "p1" || p.Year != 2024 || p.Month != 1 || p.State != domain.PeriodStateClosed {
		t.Fatalf("unexpected period: %+v", p)
	}
	if p.ClosedBy == nil || *p.ClosedBy != "ana" {
		t.Fatalf("expected closed_by ana, got %v", p.ClosedBy)
	}
	if p.ClosedAt == nil || !p.ClosedAt.Equal(closedAt) {
		t.Fatalf("expected closed_at %v, got %v", closedAt, p.ClosedAt)
	}

	assertExpectations(t, mockPool)
}

func TestPeriodRepositoryListAll(t *testing.T) {
	mockPool := newMockPool(t)
	now := timeToPgTimestamptz(time.Now())

	mockPool.ExpectQuery("FROM accounting_periods ORDER BY year DESC, month DESC").
		WillReturnRows(pgxmock.NewRows(periodColumns).
			AddRow("p2", int32(2024), int32(2), "ABIERTO", true, pgtype.Text{}, pgtype.Timestamptz{}, now, now).
			AddRow("p1", int32(2024), int32(1), "ABIERTO", false, pgtype.Text{}, pgtype.Timestamptz{}, now, now))

	periods, err := newPeriodRepository(mockPool).List(context.Background(), domain.PeriodFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 2 || periods[0].ID != "p2" || !periods[0].IsActive {
		t.Fatalf("unexpected periods: %+v", periods)
	}
	if periods[1].ClosedBy != nil || periods[1].ClosedAt != nil {
		t.Fatalf("expected open period without closing stamp")
	}

	assertExpectations(t, mockPool)
}

func TestPeriodRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("FROM accounting_periods WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(periodColumns))

	_, err := newPeriodRepository(mockPool).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrPeriodNotFound) {
		t.Fatalf("expected ErrPeriodNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestPeriodRepositoryListForUpdate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	now := timeToPgTimestamptz(time.Now())

	mockPool.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(periodSetLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mockPool.ExpectQuery("FOR UPDATE").
		WillReturnRows(pgxmock.NewRows(periodColumns).
			AddRow("p1", int32(2024), int32(1), "ABIERTO", true, pgtype.Text{}, pgtype.Timestamptz{}, now, now))

	periods, err := newPeriodRepository(mockPool).ListForUpdate(context.Background(), tx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 1 || periods[0].ID != "p1" {
		t.Fatalf("unexpected periods: %+v", periods)
	}

	assertExpectations(t, mockPool)
}

func TestPeriodRepositoryListForUpdateLockError(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	boom := errors.New("lock timeout")

	mockPool.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(periodSetLockKey).
		WillReturnError(boom)

	_, err := newPeriodRepository(mockPool).ListForUpdate(context.Background(), tx)
	if !errors.Is(err, boom) {
		t.Fatalf("expected lock error, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestPeriodRepositoryCreate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	now := time.Now()

	mockPool.ExpectExec("INSERT INTO accounting_periods").
		WithArgs("p1", int32(2024), int32(3), "ABIERTO", true, pgtype.Text{}, pgtype.Timestamptz{}, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := newPeriodRepository(mockPool).Create(context.Background(), tx, &domain.Period{
		ID: "p1", Year: 2024, Month: 3, State: domain.PeriodStateOpen, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestPeriodRepositoryCreateDuplicate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectExec("INSERT INTO accounting_periods").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := newPeriodRepository(mockPool).Create(context.Background(), tx, &domain.Period{ID: "p1", Year: 2024, Month: 3})
	if !errors.Is(err, domain.ErrPeriodExists) {
		t.Fatalf("expected ErrPeriodExists, got %v", err)
	}
}

func TestPeriodRepositoryUpdate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	closedAt := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	user := "ana"

	mockPool.ExpectExec("UPDATE accounting_periods").
		WithArgs("p1", int32(2024), int32(1), "CERRADO", pgtype.Text{String: "ana", Valid: true}, timeToPgTimestamptz(closedAt), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := newPeriodRepository(mockPool).Update(context.Background(), tx, &domain.Period{
		ID: "p1", Year: 2024, Month: 1, State: domain.PeriodStateClosed,
		ClosedBy: &user, ClosedAt: &closedAt, UpdatedAt: closedAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestPeriodRepositoryUpdateMissing(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectExec("UPDATE accounting_periods").
		WithArgs("gone", int32(2024), int32(1), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := newPeriodRepository(mockPool).Update(context.Background(), tx, &domain.Period{ID: "gone", Year: 2024, Month: 1})
	if !errors.Is(err, domain.ErrPeriodNotFound) {
		t.Fatalf("expected ErrPeriodNotFound, got %v", err)
	}
}

func TestPeriodRepositoryDelete(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectExec("DELETE FROM accounting_periods").
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectExec("DELETE FROM accounting_periods").
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := newPeriodRepository(mockPool)
	if err := repo.Delete(context.Background(), tx, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(context.Background(), tx, "p1"); !errors.Is(err, domain.ErrPeriodNotFound) {
		t.Fatalf("expected ErrPeriodNotFound on second delete, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestPeriodRepositoryHasDependents(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectQuery("has_dependents").
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"has_dependents"}).AddRow(true))

	has, err := newPeriodRepository(mockPool).HasDependents(context.Background(), tx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !has {
		t.Fatalf("expected dependents")
	}

	assertExpectations(t, mockPool)
}

func TestPeriodRepositorySetActive(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectExec("SET is_active = FALSE").
		WithArgs("p2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec("SET is_active = TRUE").
		WithArgs("p2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := newPeriodRepository(mockPool).SetActive(context.Background(), tx, "p2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestPeriodRepositorySetActiveClears(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectExec("SET is_active = FALSE").
		WithArgs("").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := newPeriodRepository(mockPool).SetActive(context.Background(), tx, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}
