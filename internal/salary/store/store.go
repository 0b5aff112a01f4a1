package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/database"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
	"github.com/MrJamesThe3rd/docket/internal/salary"
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

// scanRecord reads a salary row joined with its employee.
// Expected column order: id, employee_id, employee_name, department, basic_salary, allowances,
// deductions, net_salary, payment_method, payment_date, created_at, updated_at
func scanRecord(s scanner) (*salary.Record, error) {
	var r salary.Record

	var method string

	if err := s.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeName, &r.Department,
		&r.Basic, &r.Allowances, &r.Deductions, &r.Net,
		&method, &r.PaymentDate, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	r.PaymentMethod = salary.PaymentMethod(method)

	return &r, nil
}

const selectRecordColumns = `
	s.id, s.employee_id, e.name AS employee_name, e.department, s.basic_salary, s.allowances,
	s.deductions, s.net_salary, s.payment_method, s.payment_date, s.created_at, s.updated_at
`

const fromRecords = `
	FROM salary_records s
	JOIN employees e ON s.employee_id = e.id
`

// CreateRecord inserts r and fills in its id, creation time and employee details.
func (s *Store) CreateRecord(ctx context.Context, r *salary.Record) error {
	query := `
		WITH ins AS (
			INSERT INTO salary_records (employee_id, basic_salary, allowances, deductions, net_salary, payment_method, payment_date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING id, employee_id, created_at
		)
		SELECT ins.id, ins.created_at, e.name, e.department
		FROM ins
		JOIN employees e ON ins.employee_id = e.id
	`

	err := s.db.QueryRowContext(ctx, query,
		r.EmployeeID,
		r.Basic,
		r.Allowances,
		r.Deductions,
		r.Net,
		r.PaymentMethod,
		r.PaymentDate,
	).Scan(&r.ID, &r.CreatedAt, &r.EmployeeName, &r.Department)
	if err != nil {
		return fmt.Errorf("creating salary record: %w", database.MapError(err))
	}

	return nil
}

func (s *Store) GetRecord(ctx context.Context, id uuid.UUID) (*salary.Record, error) {
	query := `SELECT ` + selectRecordColumns + fromRecords + ` WHERE s.id = $1`

	r, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}

		return nil, fmt.Errorf("getting salary record: %w", database.MapError(err))
	}

	return r, nil
}

func (s *Store) UpdateRecord(ctx context.Context, r *salary.Record) error {
	query := `
		UPDATE salary_records
		SET employee_id = $1, basic_salary = $2, allowances = $3, deductions = $4, net_salary = $5,
			payment_method = $6, payment_date = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		r.EmployeeID,
		r.Basic,
		r.Allowances,
		r.Deductions,
		r.Net,
		r.PaymentMethod,
		r.PaymentDate,
		r.ID,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrNotFound
		}

		return fmt.Errorf("updating salary record: %w", database.MapError(err))
	}

	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM salary_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting salary record: %w", database.MapError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting salary record: %w", err)
	}

	if n == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

func (s *Store) ListRecords(ctx context.Context, filter salary.ListFilter) ([]*salary.Record, error) {
	query := `SELECT ` + selectRecordColumns + fromRecords

	var args []any

	if filter.Department != "" {
		query += ` WHERE e.department = $1`

		args = append(args, filter.Department)
	}

	query += ` ORDER BY s.payment_date DESC, s.created_at DESC`

	return s.list(ctx, "listing salary records", query, args...)
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID uuid.UUID) ([]*salary.Record, error) {
	query := `SELECT ` + selectRecordColumns + fromRecords + `
		WHERE s.employee_id = $1
		ORDER BY s.payment_date DESC, s.created_at DESC`

	return s.list(ctx, "listing salary history", query, employeeID)
}

// LatestFor returns the most recent record by payment date, breaking ties by
// creation time. It returns nil, nil when the employee has none.
func (s *Store) LatestFor(ctx context.Context, employeeID uuid.UUID) (*salary.Record, error) {
	query := `SELECT ` + selectRecordColumns + fromRecords + `
		WHERE s.employee_id = $1
		ORDER BY s.payment_date DESC, s.created_at DESC
		LIMIT 1`

	r, err := scanRecord(s.db.QueryRowContext(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting latest salary record: %w", database.MapError(err))
	}

	return r, nil
}

func (s *Store) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period payroll.Period) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM salary_records
			WHERE employee_id = $1 AND payment_date >= $2 AND payment_date <= $3
		)
	`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, employeeID, period.Start(), period.End()).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking salary record for %s: %w", period, database.MapError(err))
	}

	return exists, nil
}

func (s *Store) list(ctx context.Context, op, query string, args ...any) ([]*salary.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, database.MapError(err))
	}
	defer rows.Close()

	var records []*salary.Record

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning salary record: %w", err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, database.MapError(err))
	}

	return records, nil
}
