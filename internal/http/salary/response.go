package salary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/docket/internal/salary"
)

// amount renders money with the two decimal places shown to users.
func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type recordResponse struct {
	ID            uuid.UUID       `json:"id"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	Department    string          `json:"department,omitempty"`
	BasicSalary   string          `json:"basic_salary"`
	AnnualSalary  string          `json:"annual_salary"`
	Allowances    string          `json:"allowances"`
	Deductions    string          `json:"deductions"`
	NetSalary     string          `json:"net_salary"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   string          `json:"payment_date"`
	Period        string          `json:"period"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(r *salary.Record) recordResponse {
	return recordResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		Department:    r.Department,
		BasicSalary:   amount(r.Basic),
		AnnualSalary:  amount(r.AnnualBasic()),
		Allowances:    amount(r.Allowances),
		Deductions:    amount(r.Deductions),
		NetSalary:     amount(r.Net),
		PaymentMethod: string(r.PaymentMethod),
		PaymentDate:   r.PaymentDate.Display(),
		Period:        r.Period().String(),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toResponseList(rs []*salary.Record) []recordResponse {
	resp := make([]recordResponse, len(rs))
	for i, r := range rs {
		resp[i] = toResponse(r)
	}

	return resp
}

type syncResponse struct {
	Monthly string `json:"monthly"`
	Annual  string `json:"annual"`
}

type previewResponse struct {
	Net string `json:"net"`
}
