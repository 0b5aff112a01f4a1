package salary

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
)

// Form holds a salary entry as a user typed it.
type Form struct {
	EmployeeID    string
	Basic         string
	Allowances    string
	Deductions    string
	PaymentMethod string
	PaymentDate   string // DD-MM-YYYY
}

// Params validates the form and converts it. Every field must be filled in;
// zero is a valid amount.
func (f Form) Params() (CreateParams, error) {
	required := []struct {
		field string
		value string
	}{
		{"employee_id", f.EmployeeID},
		{"basic_salary", f.Basic},
		{"allowances", f.Allowances},
		{"deductions", f.Deductions},
		{"payment_method", f.PaymentMethod},
		{"payment_date", f.PaymentDate},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return CreateParams{}, apperror.MissingField(r.field)
		}
	}

	employeeID, err := uuid.Parse(strings.TrimSpace(f.EmployeeID))
	if err != nil {
		return CreateParams{}, apperror.InvalidFormat("employee_id", fmt.Sprintf("%q is not a valid id", f.EmployeeID))
	}

	amounts := make([]decimal.Decimal, 3)
	for i, a := range []struct{ field, value string }{
		{"basic_salary", f.Basic},
		{"allowances", f.Allowances},
		{"deductions", f.Deductions},
	} {
		if amounts[i], err = payroll.ParseAmount(a.field, a.value); err != nil {
			return CreateParams{}, err
		}
	}

	method, err := ParsePaymentMethod(f.PaymentMethod)
	if err != nil {
		return CreateParams{}, err
	}

	paid, err := datefmt.ParseDisplay(strings.TrimSpace(f.PaymentDate))
	if err != nil {
		return CreateParams{}, err
	}

	return CreateParams{
		EmployeeID:    employeeID,
		Basic:         amounts[0],
		Allowances:    amounts[1],
		Deductions:    amounts[2],
		PaymentMethod: method,
		PaymentDate:   paid,
	}, nil
}

// PreviewNet is the live net figure shown while the form is being filled in.
func (f Form) PreviewNet() decimal.Decimal {
	return payroll.ComputeNet(f.Basic, f.Allowances, f.Deductions)
}

// FormFrom fills a form from an existing record for editing.
func FormFrom(r *Record) Form {
	return Form{
		EmployeeID:    r.EmployeeID.String(),
		Basic:         r.Basic.StringFixed(2),
		Allowances:    r.Allowances.StringFixed(2),
		Deductions:    r.Deductions.StringFixed(2),
		PaymentMethod: string(r.PaymentMethod),
		PaymentDate:   r.PaymentDate.Display(),
	}
}
