package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/contaledger/contaledger/internal/domain"
)

// ClosingUseCase runs the month-end closing of a period.
type ClosingUseCase struct {
	txManager    TransactionManager
	periodRepo   PeriodRepository
	accountRepo  AccountRepository
	balanceRepo  BalanceRepository
	movementRepo MovementRepository
	retrier      Retrier
	cache        *OpenPeriodsCache
	observer     Observer
	audit        *auditRecorder
	logger       zerolog.Logger
	now          func() time.Time
}

// NewClosingUseCase creates a new ClosingUseCase.
func NewClosingUseCase(
	txManager TransactionManager,
	periodRepo PeriodRepository,
	accountRepo AccountRepository,
	balanceRepo BalanceRepository,
	movementRepo MovementRepository,
	auditRepo AuditRepository,
) *ClosingUseCase {
	uc := &ClosingUseCase{
		txManager:    txManager,
		periodRepo:   periodRepo,
		accountRepo:  accountRepo,
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		observer:     nopObserver{},
		logger:       log.Logger,
		now:          time.Now,
	}
	uc.audit = &auditRecorder{repo: auditRepo, logger: uc.logger, now: uc.now}
	return uc
}

// WithRetrier enables retries of transient storage conflicts.
func (uc *ClosingUseCase) WithRetrier(r Retrier) *ClosingUseCase {
	uc.retrier = r
	return uc
}

// WithCache sets the open-period cache.
func (uc *ClosingUseCase) WithCache(c *OpenPeriodsCache) *ClosingUseCase {
	uc.cache = c
	return uc
}

// WithObserver sets the outcome observer.
func (uc *ClosingUseCase) WithObserver(o Observer) *ClosingUseCase {
	if o != nil {
		uc.observer = o
	}
	return uc
}

// WithLogger sets the logger used for technical failures.
func (uc *ClosingUseCase) WithLogger(l zerolog.Logger) *ClosingUseCase {
	uc.logger = l
	uc.audit.logger = l
	return uc
}

// WithNow overrides the clock for deterministic tests.
func (uc *ClosingUseCase) WithNow(now func() time.Time) *ClosingUseCase {
	if now != nil {
		uc.now = now
		uc.audit.now = now
	}
	return uc
}

// ObtainOpenPeriods returns open periods ordered by (year, month) descending.
func (uc *ClosingUseCase) ObtainOpenPeriods(ctx context.Context) ([]*domain.Period, error) {
	periods, err := uc.cache.Load(ctx, func(ctx context.Context) ([]*domain.Period, error) {
		open, err := uc.periodRepo.List(ctx, domain.PeriodFilter{State: domain.PeriodStateOpen})
		if err != nil {
			return nil, err
		}
		return domain.SortPeriodsDesc(open), nil
	})
	if err != nil {
		uc.logger.Error().Err(err).Msg("loading open periods failed")
		return nil, domain.ErrTechnical
	}
	return periods, nil
}

type closingRequest struct {
	PeriodID string `json:"period_id"`
	User     string `json:"user"`
}

// ExecuteClose closes an open period and rolls every active account forward.
// An unbalanced closing returns the computed result together with an error
// wrapping domain.ErrClosingUnbalanced; nothing is persisted in that case.
func (uc *ClosingUseCase) ExecuteClose(ctx context.Context, periodID, user string) (*domain.ClosingResult, error) {
	start := uc.now()
	req := closingRequest{PeriodID: periodID, User: user}

	uc.audit.record(ctx, domain.AuditActionClosingAttempt, domain.AuditStatusAttempt,
		"Closing attempt for period "+periodID, req)

	var result *domain.ClosingResult
	closedBy, err := domain.ValidateClosedBy(user)
	if err == nil {
		err = runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
			var err error
			result, err = uc.closeInTx(ctx, tx, periodID, closedBy)
			return err
		})
	}

	switch {
	case err == nil:
		uc.cache.Invalidate(ctx)
		uc.audit.record(ctx, domain.AuditActionClosingSuccess, domain.AuditStatusSuccess,
			"Closing of period "+periodID+" executed correctly", result)
		uc.observer.ObserveClosing(OutcomeSuccess, uc.now().Sub(start))
		return result, nil

	case errors.Is(err, domain.ErrClosingUnbalanced):
		uc.audit.record(ctx, domain.AuditActionClosingAttempt, domain.AuditStatusFailure, err.Error(), req)
		uc.observer.ObserveClosing(OutcomeUnbalanced, uc.now().Sub(start))
		return result, err

	case IsBusinessError(err):
		uc.audit.record(ctx, domain.AuditActionClosingAttempt, domain.AuditStatusFailure, err.Error(), req)
		uc.observer.ObserveClosing(OutcomeRejected, uc.now().Sub(start))
		return nil, err

	default:
		uc.logger.Error().Err(err).Str("period_id", periodID).Msg("closing failed")
		uc.audit.record(ctx, domain.AuditActionClosingError, domain.AuditStatusError,
			"Technical error while closing period "+periodID, req)
		uc.observer.ObserveClosing(OutcomeError, uc.now().Sub(start))
		return nil, domain.ErrTechnical
	}
}

func (uc *ClosingUseCase) closeInTx(ctx context.Context, tx Transaction, periodID, user string) (*domain.ClosingResult, error) {
	periods, err := uc.periodRepo.ListForUpdate(ctx, tx)
	if err != nil {
		return nil, err
	}

	target := domain.FindPeriod(periods, periodID)
	if target == nil {
		return nil, domain.ErrPeriodNotFound
	}
	if !target.IsOpen() {
		return nil, domain.ErrPeriodNotOpen
	}
	if domain.HasEarlierOpen(periods, target) {
		return nil, domain.ErrEarlierPeriodsOpen
	}

	accounts, err := uc.accountRepo.ListActive(ctx, tx)
	if err != nil {
		return nil, err
	}

	predecessor := domain.Predecessor(periods, target)
	result := domain.NewClosingResult(target)

	for _, account := range accounts {
		prior := decimal.Zero
		if predecessor != nil {
			stored, found, err := uc.balanceRepo.Get(ctx, tx, predecessor.ID, account.ID)
			if err != nil {
				return nil, err
			}
			if found {
				prior = stored
			}
		}

		movement, err := uc.movementRepo.SumByAccount(ctx, tx, target.ID, account.ID)
		if err != nil {
			return nil, err
		}

		result.AddLine(account, prior, movement)
	}

	if !result.Balanced() {
		return result, result.UnbalancedError()
	}

	at := uc.now().UTC()
	for _, line := range result.Lines {
		err := uc.balanceRepo.Upsert(ctx, tx, &domain.AccountPeriodBalance{
			PeriodID:    target.ID,
			AccountID:   line.AccountID,
			Code:        line.Code,
			Name:        line.Name,
			BalanceSide: line.BalanceSide,
			Balance:     line.NewBalance.RoundBank(domain.BalanceScale),
			UpdatedAt:   at,
		})
		if err != nil {
			return nil, err
		}
	}

	target.Close(user, at)
	if err := uc.periodRepo.Update(ctx, tx, target); err != nil {
		return nil, err
	}

	domain.ApplyActive(periods)
	if err := uc.periodRepo.SetActive(ctx, tx, domain.ActivePeriodID(periods)); err != nil {
		return nil, err
	}

	return result, nil
}
