package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat        = errors.New("invalid format")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrNotFound             = errors.New("not found")
	ErrForeignKeyViolation  = errors.New("referenced record does not exist")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

// FieldError ties one of the sentinel kinds above to the input field that caused it.
type FieldError struct {
	Kind   error
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}

	return fmt.Sprintf("%s: %v", e.Field, e.Kind)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

func InvalidFormat(field, reason string) error {
	return &FieldError{Kind: ErrInvalidFormat, Field: field, Reason: reason}
}

func MissingField(field string) error {
	return &FieldError{Kind: ErrMissingRequiredField, Field: field, Reason: "is required"}
}

func Duplicate(field string) error {
	return &FieldError{Kind: ErrDuplicateKey, Field: field, Reason: "already exists"}
}

// IsValidation reports whether err is an input problem the user can fix,
// as opposed to a store failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrMissingRequiredField)
}
