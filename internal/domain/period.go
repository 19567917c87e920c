package domain

import (
	"fmt"
	"strings"
	"time"
)

// PeriodState is the persisted lifecycle state of an accounting period.
type PeriodState string

const (
	PeriodStateOpen   PeriodState = "ABIERTO"
	PeriodStateClosed PeriodState = "CERRADO"
)

// IsValid reports whether s is a known state.
func (s PeriodState) IsValid() bool {
	return s == PeriodStateOpen || s == PeriodStateClosed
}

// ParsePeriodState parses a state case-insensitively. English aliases are accepted.
func ParsePeriodState(s string) (PeriodState, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ABIERTO", "OPEN":
		return PeriodStateOpen, nil
	case "CERRADO", "CLOSED":
		return PeriodStateClosed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriodState, s)
	}
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month int
}

// Next returns the following calendar month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Compare returns -1, 0 or 1 ordering by year then month.
func (ym YearMonth) Compare(other YearMonth) int {
	switch {
	case ym.Year < other.Year:
		return -1
	case ym.Year > other.Year:
		return 1
	case ym.Month < other.Month:
		return -1
	case ym.Month > other.Month:
		return 1
	default:
		return 0
	}
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Compare(other) < 0
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Period is a monthly accounting period.
type Period struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedBy  *string
	ClosedAt  *time.Time
	ID        string
	State     PeriodState
	Year      int
	Month     int
	IsActive  bool
}

// YearMonth returns the calendar month covered by the period.
func (p *Period) YearMonth() YearMonth {
	return YearMonth{Year: p.Year, Month: p.Month}
}

// IsOpen reports whether the period accepts movements.
func (p *Period) IsOpen() bool {
	return p.State == PeriodStateOpen
}

// Close stamps the period as closed by user at the given time.
func (p *Period) Close(user string, at time.Time) {
	p.State = PeriodStateClosed
	p.ClosedBy = &user
	p.ClosedAt = &at
	p.IsActive = false
	p.UpdatedAt = at
}

// Reopen returns the period to the open state and clears the close stamp.
func (p *Period) Reopen(at time.Time) {
	p.State = PeriodStateOpen
	p.ClosedBy = nil
	p.ClosedAt = nil
	p.UpdatedAt = at
}

// PeriodFilter narrows period listings. An empty State lists every period.
type PeriodFilter struct {
	State PeriodState
}
