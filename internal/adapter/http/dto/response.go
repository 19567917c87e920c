package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/usecase"
)

// Response is the envelope of every API response.
type Response struct {
	OK      bool              `json:"ok"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// PeriodResponse represents an accounting period in API responses.
type PeriodResponse struct {
	ID        string     `json:"id"`
	Year      int        `json:"year"`
	Month     int        `json:"month"`
	Label     string     `json:"label"`
	State     string     `json:"state"`
	IsActive  bool       `json:"is_active"`
	ClosedBy  *string    `json:"closed_by,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PeriodFromDomain converts a domain period to response.
func PeriodFromDomain(p *domain.Period) *PeriodResponse {
	return &PeriodResponse{
		ID:        p.ID,
		Year:      p.Year,
		Month:     p.Month,
		Label:     p.YearMonth().String(),
		State:     string(p.State),
		IsActive:  p.IsActive,
		ClosedBy:  p.ClosedBy,
		ClosedAt:  p.ClosedAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PeriodsFromDomain converts domain periods to responses.
func PeriodsFromDomain(periods []*domain.Period) []*PeriodResponse {
	result := make([]*PeriodResponse, len(periods))
	for i, p := range periods {
		result[i] = PeriodFromDomain(p)
	}
	return result
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID               string    `json:"id"`
	ParentID         *string   `json:"parent_id,omitempty"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	BalanceSide      string    `json:"balance_side"`
	AcceptsMovements bool      `json:"accepts_movements"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:               a.ID,
		ParentID:         a.ParentID,
		Code:             a.Code,
		Name:             a.Name,
		Type:             string(a.Type),
		BalanceSide:      string(a.BalanceSide),
		AcceptsMovements: a.AcceptsMovements,
		Active:           a.Active,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// BalanceResponse represents a stored account balance of a period.
type BalanceResponse struct {
	AccountID   string          `json:"account_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	BalanceSide string          `json:"balance_side"`
	Balance     decimal.Decimal `json:"balance"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BalancesFromDomain converts stored balances to responses.
func BalancesFromDomain(balances []*domain.AccountPeriodBalance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = &BalanceResponse{
			AccountID:   b.AccountID,
			Code:        b.Code,
			Name:        b.Name,
			BalanceSide: string(b.BalanceSide),
			Balance:     b.Balance.Round(domain.BalanceScale),
			UpdatedAt:   b.UpdatedAt,
		}
	}
	return result
}

// ConsistencyResponse reports the side totals of a period's stored balances.
type ConsistencyResponse struct {
	PeriodID        string          `json:"period_id"`
	TotalDebitSide  decimal.Decimal `json:"total_debit_side"`
	TotalCreditSide decimal.Decimal `json:"total_credit_side"`
	Balanced        bool            `json:"balanced"`
}

// ConsistencyFromUseCase converts a consistency check to response.
func ConsistencyFromUseCase(c *usecase.PeriodConsistency) *ConsistencyResponse {
	return &ConsistencyResponse{
		PeriodID:        c.PeriodID,
		TotalDebitSide:  c.TotalDebitSide,
		TotalCreditSide: c.TotalCreditSide,
		Balanced:        c.Balanced,
	}
}

// AuditLogResponse represents an audit log entry.
type AuditLogResponse struct {
	ID          string         `json:"id"`
	UserID      *string        `json:"user_id,omitempty"`
	Action      string         `json:"action"`
	Status      string         `json:"status"`
	Description string         `json:"description"`
	Payload     map[string]any `json:"payload,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// AuditLogsFromDomain converts audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:          l.ID,
			UserID:      l.UserID,
			Action:      string(l.Action),
			Status:      string(l.Status),
			Description: l.Description,
			Payload:     l.Payload,
			OccurredAt:  l.OccurredAt,
		}
	}
	return result
}
