// Package payroll holds the salary arithmetic shared by the salary records,
// the monthly generator and the presentation layers.
package payroll

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
)

// MonthsPerYear converts between monthly and annual basic salary.
var MonthsPerYear = decimal.NewFromInt(12)

// Net returns basic + allowances - deductions rounded half-up to 2 places.
// A negative result is returned as is.
func Net(basic, allowances, deductions decimal.Decimal) decimal.Decimal {
	return basic.Add(allowances).Sub(deductions).Round(2)
}

// ParseNet coerces the three amounts from text and computes the net salary.
// Empty input counts as zero.
func ParseNet(basic, allowances, deductions string) (decimal.Decimal, error) {
	b, err := ParseAmount("basic_salary", basic)
	if err != nil {
		return decimal.Zero, err
	}

	a, err := ParseAmount("allowances", allowances)
	if err != nil {
		return decimal.Zero, err
	}

	d, err := ParseAmount("deductions", deductions)
	if err != nil {
		return decimal.Zero, err
	}

	return Net(b, a, d), nil
}

// ComputeNet is ParseNet without the error: any input that is not a number
// yields zero. Only suitable for previews where "0.00" is an acceptable
// placeholder; callers that persist must use ParseNet or Net.
func ComputeNet(basic, allowances, deductions string) decimal.Decimal {
	net, err := ParseNet(basic, allowances, deductions)
	if err != nil {
		return decimal.Zero
	}

	return net
}

// Bounds of the NUMERIC(14,4) amount columns.
const (
	MaxIntegerDigits = 10
	MaxDecimalPlaces = 4
)

// ParseAmount parses a decimal amount typed by a user. Empty input is zero.
// Amounts that do not fit the amount columns are rejected before any
// arithmetic touches them.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperror.InvalidFormat(field, fmt.Sprintf("%q is not a number", s))
	}

	if d.IsZero() {
		return decimal.Zero, nil
	}

	exp := int64(d.Exponent())
	if exp < -MaxDecimalPlaces {
		return decimal.Zero, apperror.InvalidFormat(field, fmt.Sprintf("%q has more than %d decimal places", s, MaxDecimalPlaces))
	}

	if int64(d.NumDigits())+exp > MaxIntegerDigits {
		return decimal.Zero, apperror.InvalidFormat(field, fmt.Sprintf("%q has more than %d integer digits", s, MaxIntegerDigits))
	}

	return d, nil
}

func MonthlyFromAnnual(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(MonthsPerYear)
}

func AnnualFromMonthly(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(MonthsPerYear)
}

// Field names which half of the monthly/annual pair a user edited.
type Field int

const (
	FieldMonthly Field = iota
	FieldAnnual
)

func (f Field) String() string {
	switch f {
	case FieldMonthly:
		return "monthly"
	case FieldAnnual:
		return "annual"
	}

	return "unknown"
}

// ParseField accepts "monthly" or "annual".
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly":
		return FieldMonthly, nil
	case "annual":
		return FieldAnnual, nil
	}

	return 0, apperror.InvalidFormat("changed", fmt.Sprintf("%q is neither monthly nor annual", s))
}

// SyncBasicSalary derives both basic salary figures from whichever one changed.
// Both results are rounded to 2 places for display.
func SyncBasicSalary(changed Field, value string) (monthly, annual decimal.Decimal, err error) {
	v, err := ParseAmount(changed.String()+"_basic_salary", value)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	switch changed {
	case FieldMonthly:
		return v.Round(2), AnnualFromMonthly(v).Round(2), nil
	case FieldAnnual:
		return MonthlyFromAnnual(v).Round(2), v.Round(2), nil
	}

	return decimal.Zero, decimal.Zero, fmt.Errorf("unknown salary field %d", changed)
}
