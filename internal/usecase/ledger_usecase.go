package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/contaledger/contaledger/internal/domain"
)

// PeriodConsistency reports whether the stored balances of a period still balance.
type PeriodConsistency struct {
	PeriodID        string
	TotalDebitSide  decimal.Decimal
	TotalCreditSide decimal.Decimal
	Balanced        bool
}

// LedgerUseCase handles read-only checks over stored balances.
type LedgerUseCase struct {
	periodRepo  PeriodRepository
	balanceRepo BalanceRepository
	ledgerRepo  LedgerRepository
	logger      zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(periodRepo PeriodRepository, balanceRepo BalanceRepository, ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		periodRepo:  periodRepo,
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
		logger:      log.Logger,
	}
}

// WithLogger sets the logger used for technical failures.
func (uc *LedgerUseCase) WithLogger(l zerolog.Logger) *LedgerUseCase {
	uc.logger = l
	return uc
}

// ListPeriodBalances returns the stored balances of a period ordered by account code.
func (uc *LedgerUseCase) ListPeriodBalances(ctx context.Context, periodID string) ([]*domain.AccountPeriodBalance, error) {
	if _, err := uc.periodRepo.GetByID(ctx, periodID); err != nil {
		return nil, technicalError(uc.logger, "ledger.balances", err)
	}
	balances, err := uc.balanceRepo.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, technicalError(uc.logger, "ledger.balances", err)
	}
	return balances, nil
}

// CheckPeriodBalances re-totals the stored balances of a period by natural side.
func (uc *LedgerUseCase) CheckPeriodBalances(ctx context.Context, periodID string) (*PeriodConsistency, error) {
	if _, err := uc.periodRepo.GetByID(ctx, periodID); err != nil {
		return nil, technicalError(uc.logger, "ledger.consistency", err)
	}

	totals, err := uc.ledgerRepo.TotalsBySide(ctx, periodID)
	if err != nil {
		return nil, technicalError(uc.logger, "ledger.consistency", err)
	}

	return &PeriodConsistency{
		PeriodID:        periodID,
		TotalDebitSide:  totals.Debit,
		TotalCreditSide: totals.Credit,
		Balanced:        totals.Balanced(),
	}, nil
}
