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
)

var accountColumns = []string{"id", "code", "name", "type", "balance_side", "accepts_movements", "parent_id", "active", "created_at", "updated_at"}

func TestAccountRepositoryCreate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	parent := "root"
	now := time.Now()

	mockPool.ExpectExec("INSERT INTO accounts").
		WithArgs("a1", "1.1", "Caja", "Activo", "deudor", true, pgtype.Text{String: "root", Valid: true}, true, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := newAccountRepository(mockPool).Create(context.Background(), tx, &domain.Account{
		ID: "a1", Code: "1.1", Name: "Caja", Type: domain.AccountTypeAsset,
		BalanceSide: domain.BalanceSideDebit, AcceptsMovements: true, ParentID: &parent,
		Active: true, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryCreateDuplicateCode(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	mockPool.ExpectExec("INSERT INTO accounts").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := newAccountRepository(mockPool).Create(context.Background(), tx, &domain.Account{ID: "a1", Code: "1.1"})
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryUpdate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	now := time.Now()

	mockPool.ExpectExec("UPDATE accounts").
		WithArgs("a1", "Caja chica", "Activo", "deudor", true, pgtype.Text{}, false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := newAccountRepository(mockPool).Update(context.Background(), tx, &domain.Account{
		ID: "a1", Code: "1.1", Name: "Caja chica", Type: domain.AccountTypeAsset,
		BalanceSide: domain.BalanceSideDebit, AcceptsMovements: true, Active: false, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryUpdateMissing(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)

	mockPool.ExpectExec("UPDATE accounts").
		WithArgs("gone", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := newAccountRepository(mockPool).Update(context.Background(), tx, &domain.Account{ID: "gone"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryClearAcceptsMovements(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	at := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectExec("SET accepts_movements = false").
		WithArgs("root", timeToPgTimestamptz(at)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec("SET accepts_movements = false").
		WithArgs("gone", timeToPgTimestamptz(at)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := newAccountRepository(mockPool)
	if err := repo.ClearAcceptsMovements(context.Background(), tx, "root", at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.ClearAcceptsMovements(context.Background(), tx, "gone", at); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryGetByID(t *testing.T) {
	mockPool := newMockPool(t)
	now := timeToPgTimestamptz(time.Now())

	mockPool.ExpectQuery("FROM accounts WHERE id = \\$1").
		WithArgs("a2").
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("a2", "3.1", "Capital social", "Capital", "acreedor", true, pgtype.Text{}, true, now, now))

	account, err := newAccountRepository(mockPool).GetByID(context.Background(), "a2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.BalanceSide != domain.BalanceSideCredit || account.Type != domain.AccountTypeEquity {
		t.Fatalf("unexpected account: %+v", account)
	}
	if account.ParentID != nil {
		t.Fatalf("expected no parent, got %v", *account.ParentID)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("FROM accounts WHERE id = \\$1").
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows(accountColumns))

	_, err := newAccountRepository(mockPool).GetByID(context.Background(), "nope")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryList(t *testing.T) {
	mockPool := newMockPool(t)
	now := timeToPgTimestamptz(time.Now())

	mockPool.ExpectQuery("ORDER BY code LIMIT \\$1 OFFSET \\$2").
		WithArgs(int32(10), int32(20)).
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("a1", "1.1", "Caja", "Activo", "deudor", true, pgtype.Text{}, true, now, now))

	accounts, err := newAccountRepository(mockPool).List(context.Background(), 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Code != "1.1" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryListActive(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginMockTx(t, mockPool)
	now := timeToPgTimestamptz(time.Now())

	mockPool.ExpectQuery("WHERE active ORDER BY code").
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("a1", "1.1", "Caja", "Activo", "deudor", true, pgtype.Text{}, true, now, now).
			AddRow("a2", "3.1", "Capital social", "Capital", "acreedor", true, pgtype.Text{}, true, now, now))

	accounts, err := newAccountRepository(mockPool).ListActive(context.Background(), tx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || !accounts[1].Active {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}

	assertExpectations(t, mockPool)
}
