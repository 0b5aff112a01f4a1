package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
)

// constraintFields names the input field behind each constraint in schema.sql.
var constraintFields = map[string]string{
	"employees_number_key":            "employee_number",
	"documents_number_key":            "document_number",
	"documents_employee_id_fkey":      "employee_id",
	"salary_records_employee_id_fkey": "employee_id",
	"attachments_document_id_fkey":    "document_id",
}

// MapError translates driver errors into the apperror kinds. Errors that
// match no kind are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return apperror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return apperror.Duplicate(fieldFor(pgErr.ConstraintName))
		case pgErr.Code == "23503":
			return &apperror.FieldError{
				Kind:   apperror.ErrForeignKeyViolation,
				Field:  fieldFor(pgErr.ConstraintName),
				Reason: "refers to a record that does not exist",
			}
		case pgErr.Code == "22003":
			field := pgErr.ColumnName
			if field == "" {
				field = "amount"
			}

			return apperror.InvalidFormat(field, "value is out of range")
		case unavailableCode(pgErr.Code):
			return fmt.Errorf("%w: %w", apperror.ErrStorageUnavailable, err)
		}

		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", apperror.ErrStorageUnavailable, err)
	}

	return err
}

func unavailableCode(code string) bool {
	switch code {
	case "57P01", "57P02", "57P03", "55P03":
		return true
	}

	// connection_exception and insufficient_resources classes
	return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "53")
}

func fieldFor(constraint string) string {
	if f, ok := constraintFields[constraint]; ok {
		return f
	}

	return constraint
}
