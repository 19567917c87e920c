package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is a free-text trail entry of a period or closing operation.
type AuditLog struct {
	OccurredAt  time.Time
	UserID      *string // nil when the acting user is unknown
	ID          string
	Action      AuditAction
	Status      AuditStatus
	Description string
	Payload     JSON
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionPeriodCreate AuditAction = "period.create"
	AuditActionPeriodEdit   AuditAction = "period.edit"
	AuditActionPeriodDelete AuditAction = "period.delete"
	AuditActionPeriodClose  AuditAction = "period.close"
	AuditActionPeriodReopen AuditAction = "period.reopen"

	AuditActionClosingAttempt AuditAction = "closing.attempt"
	AuditActionClosingSuccess AuditAction = "closing.success"
	AuditActionClosingError   AuditAction = "closing.error"

	AuditActionAccountCreate AuditAction = "account.create"
	AuditActionAccountUpdate AuditAction = "account.update"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusAttempt AuditStatus = "attempt"
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	UserID    string
	Action    string
	Limit     int
	Offset    int
}
