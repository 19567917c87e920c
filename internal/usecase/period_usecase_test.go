package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/usecase"
	"github.com/contaledger/contaledger/internal/usecase/mocks"
)

var fixedNow = time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC)

type periodFixture struct {
	repo     *mocks.MockPeriodRepository
	audit    *mocks.MockAuditRepository
	cache    *mocks.MockCache
	observer *mocks.MockObserver
	uc       *usecase.PeriodUseCase
}

func newPeriodFixture(t *testing.T, seed ...*domain.Period) *periodFixture {
	t.Helper()

	f := &periodFixture{
		repo:     mocks.NewMockPeriodRepository(),
		audit:    mocks.NewMockAuditRepository(),
		cache:    mocks.NewMockCache(),
		observer: mocks.NewMockObserver(),
	}
	// Seeds start from a consistent active marker, as persisted rows would.
	domain.ApplyActive(seed)
	f.repo.Seed(seed...)
	f.uc = usecase.NewPeriodUseCase(mocks.NewMockTransactionManager(), f.repo, f.audit, mocks.NewMockIDGenerator()).
		WithCache(usecase.NewOpenPeriodsCache(f.cache, time.Minute)).
		WithObserver(f.observer).
		WithNow(func() time.Time { return fixedNow })
	return f
}

func open(id string, year, month int) *domain.Period {
	return &domain.Period{ID: id, Year: year, Month: month, State: domain.PeriodStateOpen}
}

func closed(id string, year, month int) *domain.Period {
	user := "seed"
	at := fixedNow.Add(-24 * time.Hour)
	return &domain.Period{ID: id, Year: year, Month: month, State: domain.PeriodStateClosed, ClosedBy: &user, ClosedAt: &at}
}

func (f *periodFixture) byID(t *testing.T, id string) *domain.Period {
	t.Helper()
	p, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *periodFixture) requireInvariants(t *testing.T) {
	t.Helper()
	snapshot := f.repo.Snapshot()
	require.True(t, domain.IsContiguous(snapshot), "open periods must stay contiguous")

	active := 0
	for _, p := range snapshot {
		if p.IsActive {
			active++
			require.Equal(t, domain.ActivePeriodID(snapshot), p.ID)
		}
		if p.IsOpen() {
			require.Nil(t, p.ClosedBy)
			require.Nil(t, p.ClosedAt)
		} else {
			require.NotNil(t, p.ClosedBy)
			require.NotNil(t, p.ClosedAt)
		}
	}
	if domain.MostRecentOpen(snapshot) != nil {
		require.Equal(t, 1, active)
	} else {
		require.Zero(t, active)
	}
}

func TestPeriodUseCase_CreatePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		seed  []*domain.Period
		year  int
		month int
		want  error
	}{
		{name: "first period any month", year: 2024, month: 7},
		{name: "next month after open run", seed: []*domain.Period{open("jan", 2024, 1)}, year: 2024, month: 2},
		{name: "year rollover", seed: []*domain.Period{open("dec", 2023, 12)}, year: 2024, month: 1},
		{name: "only closed periods", seed: []*domain.Period{closed("jan", 2024, 1)}, year: 2024, month: 5},
		{name: "skipping a month", seed: []*domain.Period{open("jan", 2024, 1)}, year: 2024, month: 3, want: domain.ErrPeriodNotConsecutive},
		{name: "duplicate", seed: []*domain.Period{open("jan", 2024, 1)}, year: 2024, month: 1, want: domain.ErrPeriodExists},
		{name: "duplicate of closed", seed: []*domain.Period{closed("jan", 2024, 1)}, year: 2024, month: 1, want: domain.ErrPeriodExists},
		{name: "year too small", year: 1899, month: 1, want: domain.ErrInvalidYear},
		{name: "month out of range", year: 2024, month: 13, want: domain.ErrInvalidMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newPeriodFixture(t, tt.seed...)

			p, err := f.uc.CreatePeriod(context.Background(), tt.year, tt.month)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
				require.Len(t, f.repo.Snapshot(), len(tt.seed))
				require.Equal(t, 1, f.observer.Periods["create:rejected"])
				return
			}

			require.NoError(t, err)
			require.Equal(t, domain.PeriodStateOpen, p.State)
			require.True(t, f.byID(t, p.ID).IsActive)
			require.Equal(t, 1, f.cache.Deletes)
			require.Len(t, f.audit.Entries(), 1)
			f.requireInvariants(t)
		})
	}
}

func TestPeriodUseCase_EditPeriod(t *testing.T) {
	t.Parallel()

	t.Run("moves the only open period", func(t *testing.T) {
		f := newPeriodFixture(t, closed("jan", 2024, 1), open("feb", 2024, 2))

		p, err := f.uc.EditPeriod(context.Background(), "feb", 2024, 3)
		require.NoError(t, err)
		require.Equal(t, 3, p.Month)
		require.True(t, f.byID(t, "feb").IsActive)
		f.requireInvariants(t)
	})

	t.Run("closed period rejected", func(t *testing.T) {
		f := newPeriodFixture(t, closed("jan", 2024, 1), open("feb", 2024, 2))

		_, err := f.uc.EditPeriod(context.Background(), "jan", 2023, 12)
		require.ErrorIs(t, err, domain.ErrPeriodClosed)
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		f := newPeriodFixture(t, open("jan", 2024, 1), open("feb", 2024, 2))

		_, err := f.uc.EditPeriod(context.Background(), "feb", 2024, 1)
		require.ErrorIs(t, err, domain.ErrPeriodExists)
	})

	t.Run("gap rejected before persisting", func(t *testing.T) {
		f := newPeriodFixture(t, open("jan", 2024, 1), open("feb", 2024, 2), open("mar", 2024, 3))

		_, err := f.uc.EditPeriod(context.Background(), "feb", 2024, 5)
		require.ErrorIs(t, err, domain.ErrOpenPeriodsGap)
		require.Equal(t, 2, f.byID(t, "feb").Month)
		f.requireInvariants(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newPeriodFixture(t)

		_, err := f.uc.EditPeriod(context.Background(), "nope", 2024, 1)
		require.ErrorIs(t, err, domain.ErrPeriodNotFound)
	})
}

func TestPeriodUseCase_DeletePeriod(t *testing.T) {
	t.Parallel()

	t.Run("deletes and recomputes active", func(t *testing.T) {
		f := newPeriodFixture(t, open("jan", 2024, 1), open("feb", 2024, 2))
		require.True(t, f.byID(t, "feb").IsActive)

		require.NoError(t, f.uc.DeletePeriod(context.Background(), "feb"))
		require.Len(t, f.repo.Snapshot(), 1)
		require.True(t, f.byID(t, "jan").IsActive)
		f.requireInvariants(t)
	})

	t.Run("related data blocks deletion", func(t *testing.T) {
		f := newPeriodFixture(t, open("jan", 2024, 1))
		f.repo.MarkDependents("jan")

		err := f.uc.DeletePeriod(context.Background(), "jan")
		require.ErrorIs(t, err, domain.ErrPeriodHasDependents)
		require.EqualError(t, err, "cannot delete a record with related data")
		require.Len(t, f.repo.Snapshot(), 1)
	})

	t.Run("middle of the open run rejected", func(t *testing.T) {
		f := newPeriodFixture(t, open("jan", 2024, 1), open("feb", 2024, 2), open("mar", 2024, 3))

		require.ErrorIs(t, f.uc.DeletePeriod(context.Background(), "feb"), domain.ErrOpenPeriodsGap)
		require.Len(t, f.repo.Snapshot(), 3)
	})

	t.Run("not found", func(t *testing.T) {
		f := newPeriodFixture(t)
		require.ErrorIs(t, f.uc.DeletePeriod(context.Background(), "x"), domain.ErrPeriodNotFound)
	})
}

func TestPeriodUseCase_ClosePeriod(t *testing.T) {
	t.Parallel()

	t.Run("cascades to earlier open periods", func(t *testing.T) {
		f := newPeriodFixture(t, open("jan", 2024, 1), open("feb", 2024, 2), open("mar", 2024, 3))

		closedPeriods, err := f.uc.ClosePeriod(context.Background(), "feb", "  ana  ")
		require.NoError(t, err)
		require.Len(t, closedPeriods, 2)

		for _, id := range []string{"jan", "feb"} {
			p := f.byID(t, id)
			require.Equal(t, domain.PeriodStateClosed, p.State)
			require.Equal(t, "ana", *p.ClosedBy)
			require.True(t, p.ClosedAt.Equal(fixedNow))
		}
		require.True(t, f.byID(t, "mar").IsOpen())
		require.True(t, f.byID(t, "mar").IsActive)
		f.requireInvariants(t)
	})

	t.Run("closing the last open period clears active", func(t *testing.T) {
		f := newPeriodFixture(t, open("jan", 2024, 1))

		_, err := f.uc.ClosePeriod(context.Background(), "jan", "ana")
		require.NoError(t, err)
		require.False(t, f.byID(t, "jan").IsActive)
		f.requireInvariants(t)
	})

	t.Run("closed by is required", func(t *testing.T) {
		f := newPeriodFixture(t, open("jan", 2024, 1))

		_, err := f.uc.ClosePeriod(context.Background(), "jan", "   ")
		require.ErrorIs(t, err, domain.ErrClosedByRequired)
		require.True(t, f.byID(t, "jan").IsOpen())
	})

	t.Run("already closed", func(t *testing.T) {
		f := newPeriodFixture(t, closed("jan", 2024, 1))

		_, err := f.uc.ClosePeriod(context.Background(), "jan", "ana")
		require.ErrorIs(t, err, domain.ErrPeriodAlreadyClosed)
	})
}

func TestPeriodUseCase_ReopenPeriod(t *testing.T) {
	t.Parallel()

	t.Run("reopens up to the most recent closed period", func(t *testing.T) {
		f := newPeriodFixture(t, closed("jan", 2024, 1), closed("feb", 2024, 2), closed("mar", 2024, 3), open("apr", 2024, 4))

		reopened, err := f.uc.ReopenPeriod(context.Background(), "feb")
		require.NoError(t, err)
		require.Len(t, reopened, 2)
		require.False(t, f.byID(t, "jan").IsOpen())
		require.True(t, f.byID(t, "feb").IsOpen())
		require.True(t, f.byID(t, "mar").IsOpen())
		require.Nil(t, f.byID(t, "mar").ClosedBy)
		require.True(t, f.byID(t, "apr").IsActive)
		f.requireInvariants(t)
	})

	t.Run("already open", func(t *testing.T) {
		f := newPeriodFixture(t, open("jan", 2024, 1))

		_, err := f.uc.ReopenPeriod(context.Background(), "jan")
		require.ErrorIs(t, err, domain.ErrPeriodAlreadyOpen)
	})

	t.Run("gap rolls back", func(t *testing.T) {
		// No February period exists, so reopening Nov..Jan leaves a hole before March.
		f := newPeriodFixture(t, closed("nov", 2023, 11), closed("jan", 2024, 1), open("mar", 2024, 3))

		_, err := f.uc.ReopenPeriod(context.Background(), "nov")
		require.ErrorIs(t, err, domain.ErrOpenPeriodsGap)
		require.False(t, f.byID(t, "nov").IsOpen())
		require.False(t, f.byID(t, "jan").IsOpen())
	})
}

func TestPeriodUseCase_TechnicalErrorsAreMasked(t *testing.T) {
	t.Parallel()

	f := newPeriodFixture(t, open("jan", 2024, 1))
	f.repo.SetActiveFunc = func(context.Context, usecase.Transaction, string) error {
		return errors.New("connection reset")
	}

	_, err := f.uc.CreatePeriod(context.Background(), 2024, 2)
	require.ErrorIs(t, err, domain.ErrTechnical)
	require.Equal(t, 1, f.observer.Periods["create:error"])
	require.Zero(t, f.cache.Deletes)
}

func TestPeriodUseCase_AuditFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	f := newPeriodFixture(t)
	f.audit.CreateFunc = func(context.Context, *domain.AuditLog) error {
		return errors.New("audit table missing")
	}

	_, err := f.uc.CreatePeriod(context.Background(), 2024, 1)
	require.NoError(t, err)
}

func TestPeriodUseCase_ListAndGet(t *testing.T) {
	t.Parallel()

	f := newPeriodFixture(t, closed("jan", 2024, 1), open("feb", 2024, 2))

	all, err := f.uc.ListPeriods(context.Background(), domain.PeriodFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	openOnly, err := f.uc.ListPeriods(context.Background(), domain.PeriodFilter{State: domain.PeriodStateOpen})
	require.NoError(t, err)
	require.Len(t, openOnly, 1)

	_, err = f.uc.GetPeriod(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrPeriodNotFound)
}
