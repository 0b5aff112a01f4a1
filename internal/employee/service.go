package employee

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=employee
type Repository interface {
	CreateEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error)
	UpdateEmployee(ctx context.Context, e *Employee) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	ListEmployees(ctx context.Context, filter ListFilter) ([]*Employee, error)
	ListDepartments(ctx context.Context) ([]string, error)

	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx creates employees inside one store transaction.
type ImportTx interface {
	// CreateIfAbsent inserts e unless its number is taken, reporting whether it did.
	CreateIfAbsent(ctx context.Context, e *Employee) (bool, error)
	Commit() error
	Rollback() error
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

type ListFilter struct {
	Department string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Employee, error) {
	params = params.normalize()
	if err := params.validate(); err != nil {
		return nil, err
	}

	e := &Employee{
		Number:      params.Number,
		Name:        params.Name,
		Department:  params.Department,
		ContactInfo: params.ContactInfo,
		HireDate:    params.HireDate,
	}
	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "employee.create", fmt.Sprintf("employee %s (%s)", e.Number, e.Name))

	return e, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Employee, error) {
	params = params.normalize()
	if err := params.validate(); err != nil {
		return nil, err
	}

	e := &Employee{
		ID:          id,
		Number:      params.Number,
		Name:        params.Name,
		Department:  params.Department,
		ContactInfo: params.ContactInfo,
		HireDate:    params.HireDate,
	}
	if err := s.repo.UpdateEmployee(ctx, e); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "employee.update", fmt.Sprintf("employee %s (%s)", e.Number, e.Name))

	return e, nil
}

// Delete removes the employee and its salary records. Linked documents are kept and detached.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, "employee.delete", fmt.Sprintf("employee id %s", id))

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.repo.GetEmployee(ctx, id)
}

// List returns employees ordered by name, then employee number.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Employee, error) {
	return s.repo.ListEmployees(ctx, filter)
}

func (s *Service) Departments(ctx context.Context) ([]string, error) {
	return s.repo.ListDepartments(ctx)
}

type ImportResult struct {
	Imported []*Employee
	Skipped  []CreateParams // employee number already on file
}

// ImportBatch creates all employees in one transaction. Rows whose number
// already exists are skipped; any other failure aborts the whole batch.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i := range params {
		params[i] = params[i].normalize()
		if err := params[i].validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	result := &ImportResult{}

	for _, p := range params {
		e := &Employee{
			Number:      p.Number,
			Name:        p.Name,
			Department:  p.Department,
			ContactInfo: p.ContactInfo,
			HireDate:    p.HireDate,
		}

		created, err := itx.CreateIfAbsent(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("importing employee %s: %w", p.Number, err)
		}

		if !created {
			result.Skipped = append(result.Skipped, p)
			continue
		}

		result.Imported = append(result.Imported, e)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.audit.Record(ctx, "employee.import", fmt.Sprintf("imported %d, skipped %d", len(result.Imported), len(result.Skipped)))

	return result, nil
}
