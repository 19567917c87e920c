package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSide is the natural side on which an account's balance grows.
type BalanceSide string

const (
	BalanceSideDebit  BalanceSide = "deudor"
	BalanceSideCredit BalanceSide = "acreedor"
)

// ParseBalanceSide parses a side case-insensitively. English aliases are accepted.
func ParseBalanceSide(s string) (BalanceSide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deudor", "debit":
		return BalanceSideDebit, nil
	case "acreedor", "credit":
		return BalanceSideCredit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBalanceSide, s)
	}
}

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "Activo"
	AccountTypeLiability AccountType = "Pasivo"
	AccountTypeEquity    AccountType = "Capital"
	AccountTypeExpense   AccountType = "Gasto"
	AccountTypeIncome    AccountType = "Ingreso"
)

var accountTypes = map[string]AccountType{
	"activo":  AccountTypeAsset,
	"pasivo":  AccountTypeLiability,
	"capital": AccountTypeEquity,
	"gasto":   AccountTypeExpense,
	"ingreso": AccountTypeIncome,
}

// ParseAccountType parses an account type case-insensitively.
func ParseAccountType(s string) (AccountType, error) {
	if t, ok := accountTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
}

// Account is an entry of the chart of accounts.
type Account struct {
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ParentID         *string
	ID               string
	Code             string
	Name             string
	Type             AccountType
	BalanceSide      BalanceSide
	AcceptsMovements bool
	Active           bool
}

// NewBalance rolls a balance forward by the period movement, signed by the natural side.
func (a *Account) NewBalance(prior decimal.Decimal, m Movement) decimal.Decimal {
	if a.BalanceSide == BalanceSideCredit {
		return prior.Sub(m.Debit).Add(m.Credit)
	}
	return prior.Add(m.Debit).Sub(m.Credit)
}
