package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/database"
	"github.com/MrJamesThe3rd/docket/internal/employee"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, employee_number, name, department, contact_info, hire_date, created_at, updated_at
func scanEmployee(s scanner) (*employee.Employee, error) {
	var e employee.Employee

	if err := s.Scan(
		&e.ID, &e.Number, &e.Name, &e.Department, &e.ContactInfo, &e.HireDate,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &e, nil
}

const selectEmployeeColumns = `
	id, employee_number, name, department, contact_info, hire_date, created_at, updated_at
`

const insertEmployee = `
	INSERT INTO employees (employee_number, name, department, contact_info, hire_date, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
`

func (s *Store) CreateEmployee(ctx context.Context, e *employee.Employee) error {
	query := insertEmployee + ` RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		e.Number,
		e.Name,
		e.Department,
		e.ContactInfo,
		e.HireDate,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating employee: %w", database.MapError(err))
	}

	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	query := `SELECT ` + selectEmployeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}

		return nil, fmt.Errorf("getting employee: %w", database.MapError(err))
	}

	return e, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e *employee.Employee) error {
	query := `
		UPDATE employees
		SET employee_number = $1, name = $2, department = $3, contact_info = $4, hire_date = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.Number,
		e.Name,
		e.Department,
		e.ContactInfo,
		e.HireDate,
		e.ID,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrNotFound
		}

		return fmt.Errorf("updating employee: %w", database.MapError(err))
	}

	return nil
}

// DeleteEmployee detaches the employee's documents and removes the employee.
// Salary records go with it through ON DELETE CASCADE.
func (s *Store) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", database.MapError(err))
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `UPDATE documents SET employee_id = NULL WHERE employee_id = $1`, id); err != nil {
		return fmt.Errorf("detaching documents: %w", database.MapError(err))
	}

	res, err := dbTx.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", database.MapError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}

	if n == 0 {
		return apperror.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", database.MapError(err))
	}

	return nil
}

func (s *Store) ListEmployees(ctx context.Context, filter employee.ListFilter) ([]*employee.Employee, error) {
	query := `SELECT ` + selectEmployeeColumns + ` FROM employees`

	var args []any

	if filter.Department != "" {
		query += ` WHERE department = $1`

		args = append(args, filter.Department)
	}

	query += ` ORDER BY name ASC, employee_number ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", database.MapError(err))
	}
	defer rows.Close()

	var employees []*employee.Employee

	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}

		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employee rows: %w", database.MapError(err))
	}

	return employees, nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT department FROM employees
		WHERE department <> ''
		ORDER BY department ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing departments: %w", database.MapError(err))
	}
	defer rows.Close()

	var departments []string

	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning department: %w", err)
		}

		departments = append(departments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating department rows: %w", database.MapError(err))
	}

	return departments, nil
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context) (employee.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", database.MapError(err))
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) CreateIfAbsent(ctx context.Context, e *employee.Employee) (bool, error) {
	query := insertEmployee + `
		ON CONFLICT (employee_number) DO NOTHING
		RETURNING id, created_at
	`

	err := itx.tx.QueryRowContext(ctx, query,
		e.Number,
		e.Name,
		e.Department,
		e.ContactInfo,
		e.HireDate,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("creating employee: %w", database.MapError(err))
	}

	return true, nil
}
