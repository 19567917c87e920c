package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/contaledger/contaledger/internal/adapter/http/dto"
	"github.com/contaledger/contaledger/internal/domain"
)

// ClosingService defines the behavior needed by ClosingHandler.
type ClosingService interface {
	ObtainOpenPeriods(ctx context.Context) ([]*domain.Period, error)
	ExecuteClose(ctx context.Context, periodID, user string) (*domain.ClosingResult, error)
}

// ClosingHandler handles month-end closing requests.
type ClosingHandler struct {
	closingUC ClosingService
}

// NewClosingHandler creates a new ClosingHandler.
func NewClosingHandler(closingUC ClosingService) *ClosingHandler {
	return &ClosingHandler{closingUC: closingUC}
}

// OpenPeriods lists the periods that can be selected for closing, newest first.
func (h *ClosingHandler) OpenPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.closingUC.ObtainOpenPeriods(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "", dto.PeriodsFromDomain(periods))
}

// Execute runs the month-end closing of a period.
// An unbalanced computation answers 409 and still carries the computed result.
func (h *ClosingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req dto.ExecuteClosingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user := req.User
	if user == "" {
		user = actingUser(r)
	}

	result, err := h.closingUC.ExecuteClose(r.Context(), req.PeriodID, user)
	if err != nil {
		if errors.Is(err, domain.ErrClosingUnbalanced) && result != nil {
			writeJSON(w, http.StatusConflict, dto.Response{OK: false, Message: err.Error(), Data: result})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "closing executed correctly", result)
}
