package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/contaledger/contaledger/internal/domain"
)

// PeriodUseCase manages the accounting period lifecycle.
type PeriodUseCase struct {
	txManager  TransactionManager
	periodRepo PeriodRepository
	idGen      IDGenerator
	retrier    Retrier
	cache      *OpenPeriodsCache
	observer   Observer
	audit      *auditRecorder
	logger     zerolog.Logger
	now        func() time.Time
}

// NewPeriodUseCase creates a new PeriodUseCase.
func NewPeriodUseCase(
	txManager TransactionManager,
	periodRepo PeriodRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *PeriodUseCase {
	uc := &PeriodUseCase{
		txManager:  txManager,
		periodRepo: periodRepo,
		idGen:      idGen,
		observer:   nopObserver{},
		logger:     log.Logger,
		now:        time.Now,
	}
	uc.audit = &auditRecorder{repo: auditRepo, logger: uc.logger, now: uc.now}
	return uc
}

// WithRetrier enables retries of transient storage conflicts.
func (uc *PeriodUseCase) WithRetrier(r Retrier) *PeriodUseCase {
	uc.retrier = r
	return uc
}

// WithCache sets the open-period cache invalidated by every mutation.
func (uc *PeriodUseCase) WithCache(c *OpenPeriodsCache) *PeriodUseCase {
	uc.cache = c
	return uc
}

// WithObserver sets the outcome observer.
func (uc *PeriodUseCase) WithObserver(o Observer) *PeriodUseCase {
	if o != nil {
		uc.observer = o
	}
	return uc
}

// WithLogger sets the logger used for technical failures.
func (uc *PeriodUseCase) WithLogger(l zerolog.Logger) *PeriodUseCase {
	uc.logger = l
	uc.audit.logger = l
	return uc
}

// WithNow overrides the clock for deterministic tests.
func (uc *PeriodUseCase) WithNow(now func() time.Time) *PeriodUseCase {
	if now != nil {
		uc.now = now
		uc.audit.now = now
	}
	return uc
}

// ListPeriods lists periods, optionally filtered by state.
func (uc *PeriodUseCase) ListPeriods(ctx context.Context, filter domain.PeriodFilter) ([]*domain.Period, error) {
	periods, err := uc.periodRepo.List(ctx, filter)
	if err != nil {
		return nil, uc.fail(ctx, "list", err)
	}
	return periods, nil
}

// GetPeriod retrieves a period by ID.
func (uc *PeriodUseCase) GetPeriod(ctx context.Context, id string) (*domain.Period, error) {
	period, err := uc.periodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, uc.fail(ctx, "get", err)
	}
	return period, nil
}

// CreatePeriod opens a new period. When any period is open, only the month
// following the most recent open period is accepted.
func (uc *PeriodUseCase) CreatePeriod(ctx context.Context, year, month int) (*domain.Period, error) {
	if err := domain.ValidateYearMonth(year, month); err != nil {
		return nil, uc.finish(ctx, "create", err)
	}

	var created *domain.Period
	err := runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		periods, err := uc.periodRepo.ListForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		ym := domain.YearMonth{Year: year, Month: month}
		if err := domain.CanCreate(periods, ym); err != nil {
			return err
		}

		now := uc.now().UTC()
		created = &domain.Period{
			ID:        uc.idGen.Generate(),
			Year:      year,
			Month:     month,
			State:     domain.PeriodStateOpen,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.periodRepo.Create(ctx, tx, created); err != nil {
			return err
		}

		return uc.syncActive(ctx, tx, append(periods, created))
	})
	if err != nil {
		return nil, uc.finish(ctx, "create", err)
	}

	uc.audit.record(ctx, domain.AuditActionPeriodCreate, domain.AuditStatusSuccess,
		"Period "+created.YearMonth().String()+" created", created)
	return created, uc.finish(ctx, "create", nil)
}

// EditPeriod changes the year and month of an open period.
func (uc *PeriodUseCase) EditPeriod(ctx context.Context, id string, year, month int) (*domain.Period, error) {
	if err := domain.ValidateYearMonth(year, month); err != nil {
		return nil, uc.finish(ctx, "edit", err)
	}

	var edited *domain.Period
	err := runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		periods, err := uc.periodRepo.ListForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		target := domain.FindPeriod(periods, id)
		if target == nil {
			return domain.ErrPeriodNotFound
		}
		if !target.IsOpen() {
			return domain.ErrPeriodClosed
		}

		ym := domain.YearMonth{Year: year, Month: month}
		if domain.FindByYearMonth(periods, ym, id) != nil {
			return domain.ErrPeriodExists
		}

		// Contiguity is checked on a candidate snapshot so nothing is written on failure.
		candidate := *target
		candidate.Year, candidate.Month = year, month
		snapshot := replacePeriod(periods, &candidate)
		if !domain.IsContiguous(snapshot) {
			return domain.ErrOpenPeriodsGap
		}

		candidate.UpdatedAt = uc.now().UTC()
		if err := uc.periodRepo.Update(ctx, tx, &candidate); err != nil {
			return err
		}
		edited = &candidate

		return uc.syncActive(ctx, tx, snapshot)
	})
	if err != nil {
		return nil, uc.finish(ctx, "edit", err)
	}

	uc.audit.record(ctx, domain.AuditActionPeriodEdit, domain.AuditStatusSuccess,
		"Period "+id+" changed to "+edited.YearMonth().String(), edited)
	return edited, uc.finish(ctx, "edit", nil)
}

// DeletePeriod removes a period without journal entries or stored balances.
func (uc *PeriodUseCase) DeletePeriod(ctx context.Context, id string) error {
	err := runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		periods, err := uc.periodRepo.ListForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		if domain.FindPeriod(periods, id) == nil {
			return domain.ErrPeriodNotFound
		}

		related, err := uc.periodRepo.HasDependents(ctx, tx, id)
		if err != nil {
			return err
		}
		if related {
			return domain.ErrPeriodHasDependents
		}

		remaining := removePeriod(periods, id)
		if !domain.IsContiguous(remaining) {
			return domain.ErrOpenPeriodsGap
		}

		if err := uc.periodRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		return uc.syncActive(ctx, tx, remaining)
	})
	if err != nil {
		return uc.finish(ctx, "delete", err)
	}

	uc.audit.record(ctx, domain.AuditActionPeriodDelete, domain.AuditStatusSuccess,
		"Period "+id+" deleted", map[string]string{"id": id})
	return uc.finish(ctx, "delete", nil)
}

// ClosePeriod closes the target and every open period before it with the same stamp.
func (uc *PeriodUseCase) ClosePeriod(ctx context.Context, id, closedBy string) ([]*domain.Period, error) {
	user, err := domain.ValidateClosedBy(closedBy)
	if err != nil {
		return nil, uc.finish(ctx, "close", err)
	}

	var closed []*domain.Period
	err = runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		closed = nil

		periods, err := uc.periodRepo.ListForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		target := domain.FindPeriod(periods, id)
		if target == nil {
			return domain.ErrPeriodNotFound
		}
		if !target.IsOpen() {
			return domain.ErrPeriodAlreadyClosed
		}

		at := uc.now().UTC()
		for _, p := range domain.PeriodsToClose(periods, target) {
			p.Close(user, at)
			if err := uc.periodRepo.Update(ctx, tx, p); err != nil {
				return err
			}
			closed = append(closed, p)
		}

		return uc.syncActive(ctx, tx, periods)
	})
	if err != nil {
		return nil, uc.finish(ctx, "close", err)
	}

	uc.audit.record(ctx, domain.AuditActionPeriodClose, domain.AuditStatusSuccess,
		"Periods closed up to "+id+" by "+user, closed)
	return closed, uc.finish(ctx, "close", nil)
}

// ReopenPeriod reopens the target and every period up to the most recent closed one.
func (uc *PeriodUseCase) ReopenPeriod(ctx context.Context, id string) ([]*domain.Period, error) {
	var reopened []*domain.Period
	err := runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		reopened = nil

		periods, err := uc.periodRepo.ListForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		target := domain.FindPeriod(periods, id)
		if target == nil {
			return domain.ErrPeriodNotFound
		}
		if target.IsOpen() {
			return domain.ErrPeriodAlreadyOpen
		}

		latest := domain.MostRecentClosed(periods)
		if latest == nil {
			return domain.ErrNoClosedPeriods
		}

		at := uc.now().UTC()
		var changed []*domain.Period
		for _, p := range domain.PeriodsToReopen(periods, target, latest) {
			if p.IsOpen() {
				continue
			}
			p.Reopen(at)
			changed = append(changed, p)
		}

		if !domain.IsContiguous(periods) {
			return domain.ErrOpenPeriodsGap
		}

		for _, p := range changed {
			if err := uc.periodRepo.Update(ctx, tx, p); err != nil {
				return err
			}
		}
		reopened = changed

		return uc.syncActive(ctx, tx, periods)
	})
	if err != nil {
		return nil, uc.finish(ctx, "reopen", err)
	}

	uc.audit.record(ctx, domain.AuditActionPeriodReopen, domain.AuditStatusSuccess,
		"Periods reopened from "+id, reopened)
	return reopened, uc.finish(ctx, "reopen", nil)
}

// syncActive recomputes the active marker on the snapshot and persists it.
func (uc *PeriodUseCase) syncActive(ctx context.Context, tx Transaction, periods []*domain.Period) error {
	domain.ApplyActive(periods)
	return uc.periodRepo.SetActive(ctx, tx, domain.ActivePeriodID(periods))
}

// finish reports the outcome, invalidates the cache on success and maps unexpected errors.
func (uc *PeriodUseCase) finish(ctx context.Context, op string, err error) error {
	if err == nil {
		uc.cache.Invalidate(ctx)
		uc.observer.ObservePeriodOperation(op, OutcomeSuccess)
		return nil
	}
	return uc.fail(ctx, op, err)
}

func (uc *PeriodUseCase) fail(ctx context.Context, op string, err error) error {
	if IsBusinessError(err) {
		uc.observer.ObservePeriodOperation(op, OutcomeRejected)
		return err
	}
	uc.observer.ObservePeriodOperation(op, OutcomeError)
	uc.logger.Error().Err(err).Str("operation", op).Msg("period operation failed")
	return domain.ErrTechnical
}

func replacePeriod(periods []*domain.Period, p *domain.Period) []*domain.Period {
	out := make([]*domain.Period, 0, len(periods))
	for _, existing := range periods {
		if existing.ID == p.ID {
			out = append(out, p)
			continue
		}
		out = append(out, existing)
	}
	return out
}

func removePeriod(periods []*domain.Period, id string) []*domain.Period {
	out := make([]*domain.Period, 0, len(periods))
	for _, p := range periods {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
