package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contaledger/contaledger/internal/domain"
)

//go:generate mockgen -destination=mockgen/mock_interfaces.go -package=mockgen github.com/contaledger/contaledger/internal/usecase AccountRepository,AuditRepository,BalanceRepository,MovementRepository,PeriodRepository,Transaction,TransactionManager

// PeriodRepository defines data access for accounting periods.
type PeriodRepository interface {
	List(ctx context.Context, filter domain.PeriodFilter) ([]*domain.Period, error)
	GetByID(ctx context.Context, id string) (*domain.Period, error)
	// ListForUpdate returns every period and holds an exclusive lock on the
	// whole period set, including future inserts, for the rest of tx.
	ListForUpdate(ctx context.Context, tx Transaction) ([]*domain.Period, error)
	Create(ctx context.Context, tx Transaction, period *domain.Period) error
	Update(ctx context.Context, tx Transaction, period *domain.Period) error
	Delete(ctx context.Context, tx Transaction, id string) error
	HasDependents(ctx context.Context, tx Transaction, id string) (bool, error)
	// SetActive marks id as the only active period. An empty id clears the marker.
	SetActive(ctx context.Context, tx Transaction, id string) error
}

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	// Update rewrites every mutable field. ErrAccountNotFound when id is unknown.
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	// ClearAcceptsMovements turns an account into a grouping account.
	ClearAcceptsMovements(ctx context.Context, tx Transaction, id string, at time.Time) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	// ListActive returns active accounts ordered by code.
	ListActive(ctx context.Context, tx Transaction) ([]*domain.Account, error)
}

// BalanceRepository defines data access for stored period balances.
type BalanceRepository interface {
	// Get returns the stored balance and whether a row exists.
	Get(ctx context.Context, tx Transaction, periodID, accountID string) (decimal.Decimal, bool, error)
	Upsert(ctx context.Context, tx Transaction, balance *domain.AccountPeriodBalance) error
	ListByPeriod(ctx context.Context, periodID string) ([]*domain.AccountPeriodBalance, error)
}

// MovementRepository sums journal-entry movements.
type MovementRepository interface {
	// SumByAccount excludes voided entries.
	SumByAccount(ctx context.Context, tx Transaction, periodID, accountID string) (domain.Movement, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	TotalsBySide(ctx context.Context, periodID string) (domain.SideTotals, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Retrier re-runs operations that failed with a transient storage conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Observer records operation outcomes.
type Observer interface {
	ObserveClosing(outcome string, duration time.Duration)
	ObservePeriodOperation(operation, outcome string)
}
