// Package payrun generates the monthly salary records for every employee.
package payrun

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/employee"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
	"github.com/MrJamesThe3rd/docket/internal/salary"
)

// DefaultPaymentMethod is used for every generated record.
const DefaultPaymentMethod = salary.PaymentBankTransfer

type Employees interface {
	List(ctx context.Context, filter employee.ListFilter) ([]*employee.Employee, error)
}

type Salaries interface {
	ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period payroll.Period) (bool, error)
	LatestFor(ctx context.Context, employeeID uuid.UUID) (*salary.Record, error)
	Create(ctx context.Context, params salary.CreateParams) (*salary.Record, error)
}

type Auditor interface {
	Record(ctx context.Context, action, details string)
}

type Generator struct {
	employees Employees
	salaries  Salaries
	audit     Auditor
	now       func() time.Time
}

type Option func(*Generator)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(employees Employees, salaries Salaries, audit Auditor, opts ...Option) *Generator {
	g := &Generator{
		employees: employees,
		salaries:  salaries,
		audit:     audit,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

type Request struct {
	// Period to generate. The zero value means the current month.
	Period payroll.Period
}

type Result struct {
	Period  payroll.Period
	Created []*salary.Record
	Skipped int // employees that already had a record in the period
}

func (r *Result) Count() int {
	return len(r.Created)
}

// Generate creates one salary record for every employee that has none in the
// requested period, copying amounts from the employee's latest record. Running
// it again for the same period creates nothing.
//
// The check and the insert are separate statements, so two concurrent runs
// could both create a record for the same employee.
//
// On a store failure Generate stops and returns what it created so far
// together with the error.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	today := datefmt.Today(g.now)

	period := req.Period
	if period == (payroll.Period{}) {
		period = payroll.PeriodOf(today)
	}

	employees, err := g.employees.List(ctx, employee.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}

	result := &Result{Period: period}
	paymentDate := PaymentDate(period, today)

	for _, e := range employees {
		exists, err := g.salaries.ExistsForPeriod(ctx, e.ID, period)
		if err != nil {
			return result, fmt.Errorf("checking %s for employee %s: %w", period, e.Number, err)
		}

		if exists {
			result.Skipped++
			continue
		}

		params := salary.CreateParams{
			EmployeeID:    e.ID,
			PaymentMethod: DefaultPaymentMethod,
			PaymentDate:   paymentDate,
		}

		last, err := g.salaries.LatestFor(ctx, e.ID)
		if err != nil {
			return result, fmt.Errorf("loading latest salary for employee %s: %w", e.Number, err)
		}

		if last != nil {
			params.Basic = last.Basic
			params.Allowances = last.Allowances
			params.Deductions = last.Deductions
		}

		rec, err := g.salaries.Create(ctx, params)
		if err != nil {
			return result, fmt.Errorf("creating salary for employee %s: %w", e.Number, err)
		}

		if rec.EmployeeName == "" {
			rec.EmployeeName = e.Name
		}

		result.Created = append(result.Created, rec)

		g.audit.Record(ctx, "payroll.generate", fmt.Sprintf("generated %s salary for employee %s (%s), net %s",
			period, e.Number, e.Name, rec.Net.StringFixed(2)))
	}

	return result, nil
}

// PaymentDate is the date stamped on generated records: today, unless today
// lies outside the period, in which case the nearest day of the period is used
// so the record still counts toward it.
//
// This departs from always stamping today. With today's date, a run for any
// month other than the current one would file its records under the current
// month, and a rerun for the same month would create them again.
func PaymentDate(period payroll.Period, today datefmt.Date) datefmt.Date {
	switch {
	case period.Contains(today):
		return today
	case today.Before(period.Start()):
		return period.Start()
	default:
		return period.End()
	}
}
