package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/contaledger/contaledger/internal/adapter/http/dto"
	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/usecase"
)

type ledgerServiceStub struct {
	balancesFn    func(ctx context.Context, periodID string) ([]*domain.AccountPeriodBalance, error)
	consistencyFn func(ctx context.Context, periodID string) (*usecase.PeriodConsistency, error)
}

func (s *ledgerServiceStub) ListPeriodBalances(ctx context.Context, periodID string) ([]*domain.AccountPeriodBalance, error) {
	return s.balancesFn(ctx, periodID)
}

func (s *ledgerServiceStub) CheckPeriodBalances(ctx context.Context, periodID string) (*usecase.PeriodConsistency, error) {
	return s.consistencyFn(ctx, periodID)
}

func TestLedgerHandler_Balances(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		balancesFn: func(ctx context.Context, periodID string) ([]*domain.AccountPeriodBalance, error) {
			if periodID != "p1" {
				t.Fatalf("expected p1, got %s", periodID)
			}
			return []*domain.AccountPeriodBalance{
				{PeriodID: "p1", AccountID: "a1", Code: "1.1", Name: "Caja", BalanceSide: domain.BalanceSideDebit, Balance: decimal.RequireFromString("10.505")},
			}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/periods/p1/balances", nil), "id", "p1")
	rec := httptest.NewRecorder()

	handler.Balances(rec, req)

	var balances []dto.BalanceResponse
	decodeData(t, rec, &balances)
	if rec.Code != http.StatusOK || len(balances) != 1 || balances[0].Code != "1.1" {
		t.Fatalf("unexpected response %d %+v", rec.Code, balances)
	}
}

func TestLedgerHandler_Balances_PeriodNotFound(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		balancesFn: func(ctx context.Context, periodID string) ([]*domain.AccountPeriodBalance, error) {
			return nil, domain.ErrPeriodNotFound
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/periods/x/balances", nil), "id", "x")
	rec := httptest.NewRecorder()

	handler.Balances(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLedgerHandler_Consistency(t *testing.T) {
	tests := []struct {
		name     string
		balanced bool
		expected int
	}{
		{"balanced", true, http.StatusOK},
		{"unbalanced", false, http.StatusConflict},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(&ledgerServiceStub{
				consistencyFn: func(ctx context.Context, periodID string) (*usecase.PeriodConsistency, error) {
					return &usecase.PeriodConsistency{PeriodID: periodID, Balanced: tt.balanced}, nil
				},
			})

			req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/periods/p1/consistency", nil), "id", "p1")
			rec := httptest.NewRecorder()

			handler.Consistency(rec, req)

			var body dto.ConsistencyResponse
			env := decodeData(t, rec, &body)
			if rec.Code != tt.expected || env.OK != tt.balanced || body.PeriodID != "p1" {
				t.Fatalf("unexpected response %d %+v %+v", rec.Code, env, body)
			}
		})
	}
}
