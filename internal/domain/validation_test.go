package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateYearMonth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		year  int
		month int
		want  error
	}{
		{name: "lower bound", year: 1900, month: 1},
		{name: "upper bound", year: 2100, month: 12},
		{name: "year too small", year: 1899, month: 6, want: ErrInvalidYear},
		{name: "year too large", year: 2101, month: 6, want: ErrInvalidYear},
		{name: "month zero", year: 2024, month: 0, want: ErrInvalidMonth},
		{name: "month thirteen", year: 2024, month: 13, want: ErrInvalidMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateYearMonth(tt.year, tt.month)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ValidateYearMonth(%d, %d) = %v, want %v", tt.year, tt.month, err, tt.want)
			}
		})
	}
}

func TestValidateClosedBy(t *testing.T) {
	t.Parallel()

	got, err := ValidateClosedBy("  maria  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "maria" {
		t.Fatalf("expected trimmed user, got %q", got)
	}

	if _, err := ValidateClosedBy("   "); !errors.Is(err, ErrClosedByRequired) {
		t.Fatalf("expected ErrClosedByRequired, got %v", err)
	}

	if _, err := ValidateClosedBy(strings.Repeat("u", MaxUserLength+1)); !errors.Is(err, ErrClosedByRequired) {
		t.Fatalf("expected ErrClosedByRequired for long user, got %v", err)
	}
}

func TestValidateAccountCode(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"1", "1.1", "1.1.2", "10.20.300"} {
		if err := ValidateAccountCode(code); err != nil {
			t.Fatalf("expected %q to be valid, got %v", code, err)
		}
	}

	for _, code := range []string{"", "1.", ".1", "1..2", "a.1", "1-2"} {
		if err := ValidateAccountCode(code); !errors.Is(err, ErrInvalidAccountCode) {
			t.Fatalf("expected ErrInvalidAccountCode for %q, got %v", code, err)
		}
	}
}

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateAccountName("Caja general"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateAccountName("   ")
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		tooLong := strings.Repeat("a", MaxAccountNameLength+1)
		err := ValidateAccountName(tooLong)
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
	})
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset, err := ValidatePagination(0, -5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if limit != 50 || offset != 0 {
		t.Fatalf("expected defaults (50, 0), got (%d, %d)", limit, offset)
	}

	limit, _, _ = ValidatePagination(5000, 10)
	if limit != 1000 {
		t.Fatalf("expected limit clamp to 1000, got %d", limit)
	}
}
