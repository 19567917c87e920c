package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/contaledger/contaledger/internal/adapter/http/dto"
	"github.com/contaledger/contaledger/internal/domain"
)

// AuditService defines the behavior needed by AuditHandler.
type AuditService interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AuditHandler serves the audit trail.
type AuditHandler struct {
	auditUC AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC AuditService) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// List returns audit entries filtered by user_id, action, from and to (RFC 3339).
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AuditFilter{
		UserID: q.Get("user_id"),
		Action: q.Get("action"),
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}

	var err error
	if filter.StartDate, err = parseTimeQuery(q.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", map[string]string{"from": "must be an RFC 3339 timestamp"})
		return
	}
	if filter.EndDate, err = parseTimeQuery(q.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", map[string]string{"to": "must be an RFC 3339 timestamp"})
		return
	}

	logs, err := h.auditUC.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeOK(w, http.StatusOK, "", dto.AuditLogsFromDomain(logs))
}

func parseTimeQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
