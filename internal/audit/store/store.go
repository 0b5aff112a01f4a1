package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/docket/internal/audit"
	"github.com/MrJamesThe3rd/docket/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateEntry(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO audit_log (action, details, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, e.Action, e.Details).Scan(&e.ID, &e.Timestamp)
	if err != nil {
		return fmt.Errorf("creating audit entry: %w", database.MapError(err))
	}

	return nil
}

func (s *Store) ListEntries(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, error) {
	query := `SELECT id, created_at, action, details FROM audit_log`

	var args []any

	argIdx := 1

	if filter.Action != "" {
		query += fmt.Sprintf(" WHERE action LIKE $%d || '%%'", argIdx)

		args = append(args, filter.Action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", database.MapError(err))
	}
	defer rows.Close()

	var entries []*audit.Entry

	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &e.Details); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit rows: %w", database.MapError(err))
	}

	return entries, nil
}
