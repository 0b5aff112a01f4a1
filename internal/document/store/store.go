package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/database"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/document"
	"github.com/MrJamesThe3rd/docket/internal/expiry"
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

// scanDocument reads a document row joined with its employee.
// Expected column order: id, name, number, issue_date, expiry_date, issuer, employee_id,
// employee_name, category, tags, created_at, updated_at
func scanDocument(s scanner) (*document.Document, error) {
	var d document.Document

	var expires datefmt.Date

	var employeeID *uuid.UUID

	if err := s.Scan(
		&d.ID, &d.Name, &d.Number, &d.IssueDate, &expires, &d.Issuer,
		&employeeID, &d.EmployeeName, &d.Category, &d.Tags,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.ExpiryDate = expires.Ptr()
	d.EmployeeID = employeeID

	return &d, nil
}

const selectDocumentColumns = `
	d.id, d.name, d.number, d.issue_date, d.expiry_date, d.issuer, d.employee_id,
	COALESCE(e.name, '') AS employee_name, d.category, d.tags, d.created_at, d.updated_at
`

const fromDocuments = `
	FROM documents d
	LEFT JOIN employees e ON d.employee_id = e.id
`

func (s *Store) CreateDocument(ctx context.Context, d *document.Document) error {
	query := `
		INSERT INTO documents (name, number, issue_date, expiry_date, issuer, employee_id, category, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		d.Name,
		d.Number,
		d.IssueDate,
		d.ExpiryDate,
		d.Issuer,
		d.EmployeeID,
		d.Category,
		d.Tags,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating document: %w", database.MapError(err))
	}

	return nil
}

func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	query := `SELECT ` + selectDocumentColumns + fromDocuments + ` WHERE d.id = $1`

	d, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}

		return nil, fmt.Errorf("getting document: %w", database.MapError(err))
	}

	return d, nil
}

func (s *Store) UpdateDocument(ctx context.Context, d *document.Document) error {
	query := `
		UPDATE documents
		SET name = $1, number = $2, issue_date = $3, expiry_date = $4, issuer = $5,
			employee_id = $6, category = $7, tags = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		d.Name,
		d.Number,
		d.IssueDate,
		d.ExpiryDate,
		d.Issuer,
		d.EmployeeID,
		d.Category,
		d.Tags,
		d.ID,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrNotFound
		}

		return fmt.Errorf("updating document: %w", database.MapError(err))
	}

	return nil
}

// DeleteDocument removes the document. Attachment rows go with it through ON DELETE CASCADE.
func (s *Store) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", database.MapError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	if n == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

func (s *Store) SearchDocuments(ctx context.Context, filter document.SearchFilter) ([]*document.Document, error) {
	query := `SELECT ` + selectDocumentColumns + fromDocuments + ` WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Keyword != "" {
		query += fmt.Sprintf(` AND (d.name ILIKE $%[1]d OR d.number ILIKE $%[1]d OR d.issuer ILIKE $%[1]d
			OR d.category ILIKE $%[1]d OR d.tags ILIKE $%[1]d)`, argIdx)

		args = append(args, "%"+filter.Keyword+"%")
		argIdx++
	}

	if filter.Category != "" {
		query += fmt.Sprintf(" AND d.category = $%d", argIdx)

		args = append(args, filter.Category)
	}

	query += " ORDER BY d.name ASC, d.number ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", database.MapError(err))
	}
	defer rows.Close()

	var docs []*document.Document

	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", database.MapError(err))
	}

	return docs, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category FROM documents
		WHERE category <> ''
		ORDER BY category ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", database.MapError(err))
	}
	defer rows.Close()

	var categories []string

	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", database.MapError(err))
	}

	return categories, nil
}

func (s *Store) CountExpiring(ctx context.Context, today, until datefmt.Date) (expiry.Summary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE expiry_date < $1),
			COUNT(*) FILTER (WHERE expiry_date BETWEEN $1 AND $2)
		FROM documents
		WHERE expiry_date IS NOT NULL
	`

	var sum expiry.Summary
	if err := s.db.QueryRowContext(ctx, query, today, until).Scan(&sum.Expired, &sum.NearExpiry); err != nil {
		return expiry.Summary{}, fmt.Errorf("counting expiring documents: %w", database.MapError(err))
	}

	return sum, nil
}

const selectAttachmentColumns = `id, document_id, filename, path, content_type, uploaded_at`

func scanAttachment(s scanner) (*document.Attachment, error) {
	var a document.Attachment
	if err := s.Scan(&a.ID, &a.DocumentID, &a.Filename, &a.Path, &a.ContentType, &a.UploadedAt); err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *Store) CreateAttachment(ctx context.Context, a *document.Attachment) error {
	query := `
		INSERT INTO attachments (document_id, filename, path, content_type, uploaded_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, uploaded_at
	`

	err := s.db.QueryRowContext(ctx, query, a.DocumentID, a.Filename, a.Path, a.ContentType).
		Scan(&a.ID, &a.UploadedAt)
	if err != nil {
		return fmt.Errorf("creating attachment: %w", database.MapError(err))
	}

	return nil
}

func (s *Store) GetAttachment(ctx context.Context, id uuid.UUID) (*document.Attachment, error) {
	query := `SELECT ` + selectAttachmentColumns + ` FROM attachments WHERE id = $1`

	a, err := scanAttachment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}

		return nil, fmt.Errorf("getting attachment: %w", database.MapError(err))
	}

	return a, nil
}

func (s *Store) ListAttachments(ctx context.Context, documentID uuid.UUID) ([]*document.Attachment, error) {
	query := `SELECT ` + selectAttachmentColumns + ` FROM attachments WHERE document_id = $1 ORDER BY uploaded_at ASC`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing attachments: %w", database.MapError(err))
	}
	defer rows.Close()

	var attachments []*document.Attachment

	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}

		attachments = append(attachments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachment rows: %w", database.MapError(err))
	}

	return attachments, nil
}

func (s *Store) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting attachment: %w", database.MapError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}

	if n == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteAttachments(ctx context.Context, documentID uuid.UUID) ([]*document.Attachment, error) {
	query := `DELETE FROM attachments WHERE document_id = $1 RETURNING ` + selectAttachmentColumns

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("deleting attachments: %w", database.MapError(err))
	}
	defer rows.Close()

	var removed []*document.Attachment

	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}

		removed = append(removed, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deleted attachment rows: %w", database.MapError(err))
	}

	return removed, nil
}
