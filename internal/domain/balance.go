package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceScale is the number of decimal places stored for balances.
const BalanceScale = 2

// AccountPeriodBalance is the stored closing balance of an account for a period.
type AccountPeriodBalance struct {
	UpdatedAt   time.Time
	PeriodID    string
	AccountID   string
	Code        string
	Name        string
	BalanceSide BalanceSide
	Balance     decimal.Decimal
}

// Movement holds the debit and credit sums of an account within a period.
// Voided entries are never included.
type Movement struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// SideTotals holds balances accumulated per natural side.
type SideTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Balanced reports whether both totals agree to BalanceScale decimals.
func (t SideTotals) Balanced() bool {
	return t.Debit.RoundBank(BalanceScale).Equal(t.Credit.RoundBank(BalanceScale))
}

// TotalsBySide accumulates stored balances by their account's natural side.
func TotalsBySide(balances []*AccountPeriodBalance) SideTotals {
	totals := SideTotals{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, b := range balances {
		if b.BalanceSide == BalanceSideCredit {
			totals.Credit = totals.Credit.Add(b.Balance)
		} else {
			totals.Debit = totals.Debit.Add(b.Balance)
		}
	}
	return totals
}
