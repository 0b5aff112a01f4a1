package salary

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
)

// PaymentMethod is how a salary was paid out.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentBankTransfer, PaymentCash}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentBankTransfer, PaymentCash:
		return true
	}

	return false
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentBankTransfer:
		return "Bank transfer"
	case PaymentCash:
		return "Cash"
	}

	return string(m)
}

// ParsePaymentMethod accepts either the stored value or the label.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperror.MissingField("payment_method")
	}

	for _, m := range PaymentMethods {
		if strings.EqualFold(s, string(m)) || strings.EqualFold(s, m.Label()) {
			return m, nil
		}
	}

	return "", apperror.InvalidFormat("payment_method", fmt.Sprintf("unknown payment method %q", s))
}

// Record is one salary payment. Net is derived from the other amounts and
// is recomputed on every write.
type Record struct {
	ID            uuid.UUID
	EmployeeID    uuid.UUID
	EmployeeName  string // Loaded via JOIN
	Department    string // Loaded via JOIN
	Basic         decimal.Decimal
	Allowances    decimal.Decimal
	Deductions    decimal.Decimal
	Net           decimal.Decimal
	PaymentMethod PaymentMethod
	PaymentDate   datefmt.Date
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

func (r *Record) AnnualBasic() decimal.Decimal {
	return payroll.AnnualFromMonthly(r.Basic)
}

func (r *Record) Period() payroll.Period {
	return payroll.PeriodOf(r.PaymentDate)
}
