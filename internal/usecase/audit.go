package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/contaledger/contaledger/internal/domain"
)

// auditRecorder writes best-effort audit entries. Failures are logged and swallowed.
type auditRecorder struct {
	repo   AuditRepository
	logger zerolog.Logger
	now    func() time.Time
}

func (a *auditRecorder) record(
	ctx context.Context,
	action domain.AuditAction,
	status domain.AuditStatus,
	description string,
	payload any,
) {
	if a.repo == nil {
		return
	}

	entry := &domain.AuditLog{
		OccurredAt:  a.now().UTC(),
		Action:      action,
		Status:      status,
		Description: description,
		Payload:     domain.MarshalState(payload),
	}
	if userID, ok := domain.UserIDFromContext(ctx); ok {
		entry.UserID = &userID
	}

	if err := a.repo.Create(ctx, entry); err != nil {
		a.logger.Warn().Err(err).Str("action", string(action)).Msg("audit write failed")
	}
}

var businessErrors = []error{
	domain.ErrPeriodNotFound,
	domain.ErrPeriodExists,
	domain.ErrPeriodNotConsecutive,
	domain.ErrOpenPeriodsGap,
	domain.ErrPeriodClosed,
	domain.ErrPeriodAlreadyClosed,
	domain.ErrPeriodAlreadyOpen,
	domain.ErrNoClosedPeriods,
	domain.ErrPeriodHasDependents,
	domain.ErrClosedByRequired,
	domain.ErrPeriodNotOpen,
	domain.ErrEarlierPeriodsOpen,
	domain.ErrClosingUnbalanced,
	domain.ErrAccountNotFound,
	domain.ErrAccountExists,
	domain.ErrInvalidYear,
	domain.ErrInvalidMonth,
	domain.ErrInvalidPeriodState,
	domain.ErrInvalidAccountCode,
	domain.ErrInvalidAccountName,
	domain.ErrInvalidAccountType,
	domain.ErrInvalidBalanceSide,
	domain.ErrInvalidParent,
}

// IsBusinessError reports whether err is an expected rule violation rather than a failure.
func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// technicalError passes business errors through and logs anything else,
// replacing it with domain.ErrTechnical.
func technicalError(logger zerolog.Logger, op string, err error) error {
	if err == nil || IsBusinessError(err) {
		return err
	}
	logger.Error().Err(err).Str("operation", op).Msg("operation failed")
	return domain.ErrTechnical
}

// runInTx runs fn in a transaction, retrying transient conflicts when a Retrier is set.
func runInTx(ctx context.Context, txManager TransactionManager, retrier Retrier, fn func(tx Transaction) error) error {
	op := func() error {
		tx, err := txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if retrier == nil {
		return op()
	}
	return retrier.Retry(ctx, op)
}

type nopObserver struct{}

func (nopObserver) ObserveClosing(string, time.Duration)  {}
func (nopObserver) ObservePeriodOperation(string, string) {}
