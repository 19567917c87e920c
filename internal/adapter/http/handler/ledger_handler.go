package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contaledger/contaledger/internal/adapter/http/dto"
	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	ListPeriodBalances(ctx context.Context, periodID string) ([]*domain.AccountPeriodBalance, error)
	CheckPeriodBalances(ctx context.Context, periodID string) (*usecase.PeriodConsistency, error)
}

// LedgerHandler handles read-only views over stored balances.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Balances lists the stored balances of a period.
func (h *LedgerHandler) Balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledgerUC.ListPeriodBalances(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "", dto.BalancesFromDomain(balances))
}

// Consistency checks that a period's stored balances still balance.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledgerUC.CheckPeriodBalances(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if !result.Balanced {
		writeJSON(w, http.StatusConflict, dto.Response{
			OK:      false,
			Message: "stored balances do not balance",
			Data:    dto.ConsistencyFromUseCase(result),
		})
		return
	}

	writeOK(w, http.StatusOK, "stored balances are consistent", dto.ConsistencyFromUseCase(result))
}
