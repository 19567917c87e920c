package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/contaledger/contaledger/internal/adapter/http/dto"
	"github.com/contaledger/contaledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeOK writes a successful envelope.
func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, dto.Response{OK: true, Message: message, Data: data})
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, message string, fieldErrors map[string]string) {
	writeJSON(w, status, dto.Response{OK: false, Message: message, Errors: fieldErrors})
}

// writeDomainError renders err with the status mapDomainError picks.
// Server errors never expose their detail.
func writeDomainError(w http.ResponseWriter, err error) {
	status := mapDomainError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = domain.ErrTechnical.Error()
	}
	writeError(w, status, message, nil)
}

// decodeAndValidate decodes the JSON body into dst and validates it.
// It writes the error response itself and reports false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	if errs := dto.Validate(dst); errs != nil {
		writeError(w, http.StatusBadRequest, "validation failed", errs)
		return false
	}
	return true
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrPeriodNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPeriodExists),
		errors.Is(err, domain.ErrPeriodNotConsecutive),
		errors.Is(err, domain.ErrOpenPeriodsGap),
		errors.Is(err, domain.ErrPeriodClosed),
		errors.Is(err, domain.ErrPeriodAlreadyClosed),
		errors.Is(err, domain.ErrPeriodAlreadyOpen),
		errors.Is(err, domain.ErrNoClosedPeriods),
		errors.Is(err, domain.ErrPeriodHasDependents),
		errors.Is(err, domain.ErrPeriodNotOpen),
		errors.Is(err, domain.ErrEarlierPeriodsOpen),
		errors.Is(err, domain.ErrClosingUnbalanced),
		errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidYear),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidPeriodState),
		errors.Is(err, domain.ErrClosedByRequired),
		errors.Is(err, domain.ErrInvalidAccountCode),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrInvalidBalanceSide),
		errors.Is(err, domain.ErrInvalidParent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// actingUser returns the identity placed in the request context by the identity middleware.
func actingUser(r *http.Request) string {
	user, _ := domain.UserIDFromContext(r.Context())
	return user
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
