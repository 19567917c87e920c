package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/infrastructure/postgres/generated"
	"github.com/contaledger/contaledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create inserts a new account inside tx.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	err := queriesFor(tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:               account.ID,
		Code:             account.Code,
		Name:             account.Name,
		Type:             string(account.Type),
		BalanceSide:      string(account.BalanceSide),
		AcceptsMovements: account.AcceptsMovements,
		ParentID:         stringPtrToPgText(account.ParentID),
		Active:           account.Active,
		CreatedAt:        timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:        timeToPgTimestamptz(account.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrAccountExists
	}

	return err
}

// Update rewrites the mutable fields of an account. The code never changes.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	n, err := queriesFor(tx).UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:               account.ID,
		Name:             account.Name,
		Type:             string(account.Type),
		BalanceSide:      string(account.BalanceSide),
		AcceptsMovements: account.AcceptsMovements,
		ParentID:         stringPtrToPgText(account.ParentID),
		Active:           account.Active,
		UpdatedAt:        timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// ClearAcceptsMovements marks an account as a grouping account that takes no postings.
func (r *AccountRepository) ClearAcceptsMovements(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	n, err := queriesFor(tx).ClearAccountAcceptsMovements(ctx, generated.ClearAccountAcceptsMovementsParams{
		ID:        id,
		UpdatedAt: timeToPgTimestamptz(at),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// List returns accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// ListActive returns the active accounts inside tx, ordered by code.
func (r *AccountRepository) ListActive(ctx context.Context, tx usecase.Transaction) ([]*domain.Account, error) {
	rows, err := queriesFor(tx).ListActiveAccounts(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, len(rows))
	for i, row := range rows {
		accounts[i] = rowToAccount(row)
	}
	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:               row.ID,
		Code:             row.Code,
		Name:             row.Name,
		Type:             domain.AccountType(row.Type),
		BalanceSide:      domain.BalanceSide(row.BalanceSide),
		AcceptsMovements: row.AcceptsMovements,
		ParentID:         pgTextToStringPtr(row.ParentID),
		Active:           row.Active,
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
	}
}
