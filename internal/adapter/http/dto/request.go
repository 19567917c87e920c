package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/contaledger/contaledger/internal/usecase"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks v against its `validate` tags and returns one message per failing field.
// The map is nil when v is valid.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"request": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// PeriodRequest is the body of period create and edit requests.
type PeriodRequest struct {
	Year  int `json:"year"  validate:"required,min=1900,max=2100"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

// ClosePeriodRequest is the body of a period close request.
// ClosedBy falls back to the caller identity when empty.
type ClosePeriodRequest struct {
	ClosedBy string `json:"closed_by" validate:"max=100"`
}

// ExecuteClosingRequest asks the closing engine to close a period.
type ExecuteClosingRequest struct {
	PeriodID string `json:"period_id" validate:"required"`
	User     string `json:"user"      validate:"max=100"`
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	ParentID         *string `json:"parent_id,omitempty"`
	Code             string  `json:"code"         validate:"required,max=50"`
	Name             string  `json:"name"         validate:"required,max=255"`
	Type             string  `json:"type"         validate:"required"`
	BalanceSide      string  `json:"balance_side" validate:"required"`
	AcceptsMovements bool    `json:"accepts_movements"`
}

// UpdateAccountRequest represents a partial account update. Omitted fields
// keep their value; an empty parent_id detaches the account.
type UpdateAccountRequest struct {
	Name             *string `json:"name,omitempty"              validate:"omitempty,max=255"`
	Type             *string `json:"type,omitempty"`
	BalanceSide      *string `json:"balance_side,omitempty"`
	AcceptsMovements *bool   `json:"accepts_movements,omitempty"`
	Active           *bool   `json:"active,omitempty"`
	ParentID         *string `json:"parent_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		Name:             r.Name,
		Type:             r.Type,
		BalanceSide:      r.BalanceSide,
		AcceptsMovements: r.AcceptsMovements,
		Active:           r.Active,
		ParentID:         r.ParentID,
	}
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		ParentID:         r.ParentID,
		Code:             r.Code,
		Name:             r.Name,
		Type:             r.Type,
		BalanceSide:      r.BalanceSide,
		AcceptsMovements: r.AcceptsMovements,
	}
}
