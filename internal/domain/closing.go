package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClosingLine is the roll-forward of a single account.
type ClosingLine struct {
	AccountID    string          `json:"account_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	BalanceSide  BalanceSide     `json:"balance_side"`
	PriorBalance decimal.Decimal `json:"prior_balance"`
	PeriodDebit  decimal.Decimal `json:"period_debit"`
	PeriodCredit decimal.Decimal `json:"period_credit"`
	NewBalance   decimal.Decimal `json:"new_balance"`
}

// ClosingResult is the outcome of a month-end closing computation.
type ClosingResult struct {
	PeriodID        string          `json:"period_id"`
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	TotalDebitSide  decimal.Decimal `json:"total_debit_side"`
	TotalCreditSide decimal.Decimal `json:"total_credit_side"`
	Lines           []ClosingLine   `json:"lines"`
}

// NewClosingResult starts an empty result for p.
func NewClosingResult(p *Period) *ClosingResult {
	return &ClosingResult{
		PeriodID:        p.ID,
		Year:            p.Year,
		Month:           p.Month,
		TotalDebitSide:  decimal.Zero,
		TotalCreditSide: decimal.Zero,
	}
}

// AddLine computes the new balance of account, appends the line and accumulates its side total.
func (r *ClosingResult) AddLine(account *Account, prior decimal.Decimal, m Movement) ClosingLine {
	line := ClosingLine{
		AccountID:    account.ID,
		Code:         account.Code,
		Name:         account.Name,
		BalanceSide:  account.BalanceSide,
		PriorBalance: prior,
		PeriodDebit:  m.Debit,
		PeriodCredit: m.Credit,
		NewBalance:   account.NewBalance(prior, m),
	}

	if account.BalanceSide == BalanceSideCredit {
		r.TotalCreditSide = r.TotalCreditSide.Add(line.NewBalance)
	} else {
		r.TotalDebitSide = r.TotalDebitSide.Add(line.NewBalance)
	}

	r.Lines = append(r.Lines, line)
	return line
}

// Balanced reports whether debit-side and credit-side totals agree to two decimals.
func (r *ClosingResult) Balanced() bool {
	return SideTotals{Debit: r.TotalDebitSide, Credit: r.TotalCreditSide}.Balanced()
}

// UnbalancedError wraps ErrClosingUnbalanced with both totals.
func (r *ClosingResult) UnbalancedError() error {
	return fmt.Errorf("%w: debit-side total %s, credit-side total %s",
		ErrClosingUnbalanced,
		r.TotalDebitSide.StringFixedBank(BalanceScale),
		r.TotalCreditSide.StringFixedBank(BalanceScale),
	)
}
