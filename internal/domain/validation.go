package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidYear        = errors.New("year must be between 1900 and 2100")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrInvalidPeriodState = errors.New("invalid period state")
	ErrInvalidAccountCode = errors.New("invalid account code")
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidBalanceSide = errors.New("invalid balance side")
	ErrInvalidParent      = errors.New("invalid parent account")
)

// Validation constants
const (
	MinPeriodYear        = 1900
	MaxPeriodYear        = 2100
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxAccountCodeLength = 50
	MaxUserLength        = 100
)

var accountCodeRegex = regexp.MustCompile(`^\d+(\.\d+)*$`)

// ValidateYearMonth validates the calendar bounds of a period.
func ValidateYearMonth(year, month int) error {
	if year < MinPeriodYear || year > MaxPeriodYear {
		return ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// ValidateClosedBy trims the closing user and rejects blanks.
func ValidateClosedBy(user string) (string, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return "", ErrClosedByRequired
	}
	if len(user) > MaxUserLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrClosedByRequired, MaxUserLength)
	}
	return user, nil
}

// ValidateAccountCode validates a dot-separated hierarchical code such as 1.1.2.
func ValidateAccountCode(code string) error {
	code = strings.TrimSpace(code)

	if len(code) > MaxAccountCodeLength {
		return fmt.Errorf("%w: code exceeds %d characters", ErrInvalidAccountCode, MaxAccountCodeLength)
	}

	if !accountCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q must be digits separated by dots", ErrInvalidAccountCode, code)
	}

	return nil
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
