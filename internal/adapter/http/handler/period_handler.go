package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contaledger/contaledger/internal/adapter/http/dto"
	"github.com/contaledger/contaledger/internal/domain"
)

// PeriodService defines the behavior needed by PeriodHandler.
type PeriodService interface {
	ListPeriods(ctx context.Context, filter domain.PeriodFilter) ([]*domain.Period, error)
	GetPeriod(ctx context.Context, id string) (*domain.Period, error)
	CreatePeriod(ctx context.Context, year, month int) (*domain.Period, error)
	EditPeriod(ctx context.Context, id string, year, month int) (*domain.Period, error)
	DeletePeriod(ctx context.Context, id string) error
	ClosePeriod(ctx context.Context, id, closedBy string) ([]*domain.Period, error)
	ReopenPeriod(ctx context.Context, id string) ([]*domain.Period, error)
}

// PeriodHandler handles accounting period HTTP requests.
type PeriodHandler struct {
	periodUC PeriodService
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodUC PeriodService) *PeriodHandler {
	return &PeriodHandler{periodUC: periodUC}
}

// List lists periods, optionally filtered by ?state=.
func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.PeriodFilter
	if raw := r.URL.Query().Get("state"); raw != "" {
		state, err := domain.ParsePeriodState(raw)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		filter.State = state
	}

	periods, err := h.periodUC.ListPeriods(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "", dto.PeriodsFromDomain(periods))
}

// Get retrieves a period by ID.
func (h *PeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodUC.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "", dto.PeriodFromDomain(period))
}

// Create creates a new open period.
func (h *PeriodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PeriodRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	period, err := h.periodUC.CreatePeriod(r.Context(), req.Year, req.Month)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusCreated, "period created", dto.PeriodFromDomain(period))
}

// Edit changes the year and month of an open period.
func (h *PeriodHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req dto.PeriodRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	period, err := h.periodUC.EditPeriod(r.Context(), chi.URLParam(r, "id"), req.Year, req.Month)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "period updated", dto.PeriodFromDomain(period))
}

// Delete removes a period.
func (h *PeriodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.periodUC.DeletePeriod(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "period deleted", nil)
}

// Close closes the period and every earlier open period.
func (h *PeriodHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req dto.ClosePeriodRequest
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, &req) {
			return
		}
	}

	closedBy := req.ClosedBy
	if closedBy == "" {
		closedBy = actingUser(r)
	}

	closed, err := h.periodUC.ClosePeriod(r.Context(), chi.URLParam(r, "id"), closedBy)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "periods closed", dto.PeriodsFromDomain(closed))
}

// Reopen reopens the period and every later closed period.
func (h *PeriodHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	reopened, err := h.periodUC.ReopenPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "periods reopened", dto.PeriodsFromDomain(reopened))
}
