package dto

import (
	"testing"

	"github.com/contaledger/contaledger/internal/usecase"
)

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	parent := "root"
	req := &CreateAccountRequest{
		ParentID:         &parent,
		Code:             "1.1",
		Name:             "Caja",
		Type:             "Activo",
		BalanceSide:      "deudor",
		AcceptsMovements: true,
	}

	got := req.ToUseCaseInput()
	want := usecase.CreateAccountInput{
		ParentID:         &parent,
		Code:             "1.1",
		Name:             "Caja",
		Type:             "Activo",
		BalanceSide:      "deudor",
		AcceptsMovements: true,
	}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestUpdateAccountRequest_ToUseCaseInput(t *testing.T) {
	name := "Caja general"
	active := false
	req := &UpdateAccountRequest{Name: &name, Active: &active}

	got := req.ToUseCaseInput()
	if got.Name != &name || got.Active != &active {
		t.Fatalf("ToUseCaseInput() = %+v", got)
	}
	if got.Type != nil || got.BalanceSide != nil || got.ParentID != nil || got.AcceptsMovements != nil {
		t.Fatalf("omitted fields must stay nil, got %+v", got)
	}
}

func TestValidatePeriodRequest(t *testing.T) {
	tests := []struct {
		name   string
		req    PeriodRequest
		fields []string
	}{
		{"valid", PeriodRequest{Year: 2024, Month: 12}, nil},
		{"missing both", PeriodRequest{}, []string{"year", "month"}},
		{"year too small", PeriodRequest{Year: 1899, Month: 1}, []string{"year"}},
		{"year too large", PeriodRequest{Year: 2101, Month: 1}, []string{"year"}},
		{"month out of range", PeriodRequest{Year: 2024, Month: 13}, []string{"month"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.req)
			if len(errs) != len(tt.fields) {
				t.Fatalf("expected %d errors, got %v", len(tt.fields), errs)
			}
			for _, f := range tt.fields {
				if _, ok := errs[f]; !ok {
					t.Fatalf("expected error for %s, got %v", f, errs)
				}
			}
		})
	}
}

func TestValidateMessages(t *testing.T) {
	errs := Validate(ExecuteClosingRequest{})
	if errs["period_id"] != "is required" {
		t.Fatalf("expected required message for period_id, got %v", errs)
	}

	errs = Validate(PeriodRequest{Year: 2024, Month: 13})
	if errs["month"] != "must be at most 12" {
		t.Fatalf("unexpected month message: %v", errs)
	}
}

func TestValidateCreateAccountRequest(t *testing.T) {
	errs := Validate(CreateAccountRequest{Code: "1.1", Name: "Caja"})
	if _, ok := errs["balance_side"]; !ok {
		t.Fatalf("expected balance_side error, got %v", errs)
	}
	if _, ok := errs["type"]; !ok {
		t.Fatalf("expected type error, got %v", errs)
	}
}
