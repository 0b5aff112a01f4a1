package salary

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=salary
type Repository interface {
	CreateRecord(ctx context.Context, r *Record) error
	GetRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	UpdateRecord(ctx context.Context, r *Record) error
	DeleteRecord(ctx context.Context, id uuid.UUID) error

	ListRecords(ctx context.Context, filter ListFilter) ([]*Record, error)
	ListForEmployee(ctx context.Context, employeeID uuid.UUID) ([]*Record, error)
	// LatestFor returns nil, nil when the employee has no records.
	LatestFor(ctx context.Context, employeeID uuid.UUID) (*Record, error)
	ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period payroll.Period) (bool, error)
}

type Auditor interface {
	Record(ctx context.Context, action, details string)
}

type Service struct {
	repo  Repository
	audit Auditor
}

func NewService(repo Repository, audit Auditor) *Service {
	return &Service{repo: repo, audit: audit}
}

type CreateParams struct {
	EmployeeID    uuid.UUID
	Basic         decimal.Decimal
	Allowances    decimal.Decimal
	Deductions    decimal.Decimal
	PaymentMethod PaymentMethod
	PaymentDate   datefmt.Date
}

type ListFilter struct {
	Department string
}

func (p CreateParams) validate() error {
	if p.EmployeeID == uuid.Nil {
		return apperror.MissingField("employee_id")
	}

	if p.PaymentMethod == "" {
		return apperror.MissingField("payment_method")
	}

	if !p.PaymentMethod.Valid() {
		return apperror.InvalidFormat("payment_method", fmt.Sprintf("unknown payment method %q", p.PaymentMethod))
	}

	if p.PaymentDate.IsZero() {
		return apperror.MissingField("payment_date")
	}

	for _, a := range []struct {
		field string
		value decimal.Decimal
	}{
		{"basic_salary", p.Basic},
		{"allowances", p.Allowances},
		{"deductions", p.Deductions},
	} {
		if a.value.IsNegative() {
			return apperror.InvalidFormat(a.field, "must not be negative")
		}
	}

	return nil
}

func (p CreateParams) record() *Record {
	return &Record{
		EmployeeID:    p.EmployeeID,
		Basic:         p.Basic,
		Allowances:    p.Allowances,
		Deductions:    p.Deductions,
		Net:           payroll.Net(p.Basic, p.Allowances, p.Deductions),
		PaymentMethod: p.PaymentMethod,
		PaymentDate:   p.PaymentDate,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Record, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	r := params.record()
	if err := s.repo.CreateRecord(ctx, r); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "salary.create", fmt.Sprintf("salary %s for employee %s, net %s paid %s",
		r.ID, r.EmployeeID, r.Net.StringFixed(2), r.PaymentDate.Display()))

	return r, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Record, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	r := params.record()
	r.ID = id

	if err := s.repo.UpdateRecord(ctx, r); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "salary.update", fmt.Sprintf("salary %s for employee %s, net %s",
		r.ID, r.EmployeeID, r.Net.StringFixed(2)))

	return r, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, "salary.delete", fmt.Sprintf("salary %s", id))

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetRecord(ctx, id)
}

// List returns records newest payment first, optionally limited to one department.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	return s.repo.ListRecords(ctx, filter)
}

func (s *Service) History(ctx context.Context, employeeID uuid.UUID) ([]*Record, error) {
	return s.repo.ListForEmployee(ctx, employeeID)
}

func (s *Service) LatestFor(ctx context.Context, employeeID uuid.UUID) (*Record, error) {
	return s.repo.LatestFor(ctx, employeeID)
}

func (s *Service) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period payroll.Period) (bool, error) {
	return s.repo.ExistsForPeriod(ctx, employeeID, period)
}
