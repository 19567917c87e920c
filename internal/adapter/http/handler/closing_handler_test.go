package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/contaledger/contaledger/internal/adapter/http/dto"
	"github.com/contaledger/contaledger/internal/domain"
)

type closingServiceStub struct {
	openFn    func(ctx context.Context) ([]*domain.Period, error)
	executeFn func(ctx context.Context, periodID, user string) (*domain.ClosingResult, error)
}

func (s *closingServiceStub) ObtainOpenPeriods(ctx context.Context) ([]*domain.Period, error) {
	return s.openFn(ctx)
}

func (s *closingServiceStub) ExecuteClose(ctx context.Context, periodID, user string) (*domain.ClosingResult, error) {
	return s.executeFn(ctx, periodID, user)
}

func TestClosingHandler_OpenPeriods(t *testing.T) {
	handler := NewClosingHandler(&closingServiceStub{
		openFn: func(ctx context.Context) ([]*domain.Period, error) {
			return []*domain.Period{
				{ID: "p2", Year: 2024, Month: 2, State: domain.PeriodStateOpen},
				{ID: "p1", Year: 2024, Month: 1, State: domain.PeriodStateOpen},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.OpenPeriods(rec, httptest.NewRequest(http.MethodGet, "/closings/periods", nil))

	var periods []dto.PeriodResponse
	decodeData(t, rec, &periods)
	if rec.Code != http.StatusOK || len(periods) != 2 || periods[0].ID != "p2" {
		t.Fatalf("unexpected response %d %+v", rec.Code, periods)
	}
}

func TestClosingHandler_Execute_Success(t *testing.T) {
	var gotPeriod, gotUser string
	handler := NewClosingHandler(&closingServiceStub{
		executeFn: func(ctx context.Context, periodID, user string) (*domain.ClosingResult, error) {
			gotPeriod, gotUser = periodID, user
			return &domain.ClosingResult{
				PeriodID:        periodID,
				TotalDebitSide:  decimal.NewFromInt(150),
				TotalCreditSide: decimal.NewFromInt(150),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/closings", bytes.NewBufferString(`{"period_id":"p2"}`))
	req = req.WithContext(domain.WithUserID(req.Context(), "ana"))
	rec := httptest.NewRecorder()

	handler.Execute(rec, req)

	var result domain.ClosingResult
	env := decodeData(t, rec, &result)
	if rec.Code != http.StatusOK || !env.OK || env.Message != "closing executed correctly" {
		t.Fatalf("unexpected response %d %+v", rec.Code, env)
	}
	if gotPeriod != "p2" || gotUser != "ana" {
		t.Fatalf("expected p2 by ana, got %s by %s", gotPeriod, gotUser)
	}
	if !result.TotalDebitSide.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected totals %+v", result)
	}
}

func TestClosingHandler_Execute_UnbalancedCarriesResult(t *testing.T) {
	handler := NewClosingHandler(&closingServiceStub{
		executeFn: func(ctx context.Context, periodID, user string) (*domain.ClosingResult, error) {
			result := &domain.ClosingResult{
				PeriodID:        periodID,
				TotalDebitSide:  decimal.NewFromInt(100),
				TotalCreditSide: decimal.NewFromInt(90),
			}
			return result, result.UnbalancedError()
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/closings", bytes.NewBufferString(`{"period_id":"p2","user":"ana"}`))
	rec := httptest.NewRecorder()

	handler.Execute(rec, req)

	var result domain.ClosingResult
	env := decodeData(t, rec, &result)
	if rec.Code != http.StatusConflict || env.OK {
		t.Fatalf("expected 409 not ok, got %d %+v", rec.Code, env)
	}
	if result.PeriodID != "p2" || !result.TotalCreditSide.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected result in body, got %+v", result)
	}
}

func TestClosingHandler_Execute_Rejected(t *testing.T) {
	handler := NewClosingHandler(&closingServiceStub{
		executeFn: func(ctx context.Context, periodID, user string) (*domain.ClosingResult, error) {
			return nil, fmt.Errorf("%w", domain.ErrEarlierPeriodsOpen)
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/closings", bytes.NewBufferString(`{"period_id":"p2","user":"ana"}`))
	rec := httptest.NewRecorder()

	handler.Execute(rec, req)

	resp := decodeEnvelope(t, rec)
	if rec.Code != http.StatusConflict || resp.Message != domain.ErrEarlierPeriodsOpen.Error() {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestClosingHandler_Execute_Technical(t *testing.T) {
	handler := NewClosingHandler(&closingServiceStub{
		executeFn: func(ctx context.Context, periodID, user string) (*domain.ClosingResult, error) {
			return nil, domain.ErrTechnical
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/closings", bytes.NewBufferString(`{"period_id":"p2","user":"ana"}`))
	rec := httptest.NewRecorder()

	handler.Execute(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestClosingHandler_Execute_MissingPeriod(t *testing.T) {
	handler := NewClosingHandler(&closingServiceStub{
		executeFn: func(ctx context.Context, periodID, user string) (*domain.ClosingResult, error) {
			t.Fatal("ExecuteClose should not be called without a period")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/closings", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	handler.Execute(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
