package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
)

// Employee is a person on the payroll.
type Employee struct {
	ID          uuid.UUID
	Number      string // unique employee number
	Name        string
	Department  string
	ContactInfo string
	HireDate    datefmt.Date
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type CreateParams struct {
	Number      string
	Name        string
	Department  string
	ContactInfo string
	HireDate    datefmt.Date
}

func (p CreateParams) normalize() CreateParams {
	p.Number = strings.TrimSpace(p.Number)
	p.Name = strings.TrimSpace(p.Name)
	p.Department = strings.TrimSpace(p.Department)
	p.ContactInfo = strings.TrimSpace(p.ContactInfo)

	return p
}

func (p CreateParams) validate() error {
	if p.Name == "" {
		return apperror.MissingField("name")
	}

	if p.Number == "" {
		return apperror.MissingField("employee_number")
	}

	if p.HireDate.IsZero() {
		return apperror.MissingField("hire_date")
	}

	return nil
}

// Form holds employee fields as a user typed them.
type Form struct {
	Number      string
	Name        string
	Department  string
	ContactInfo string
	HireDate    string // DD-MM-YYYY
}

func (f Form) Params() (CreateParams, error) {
	hire := strings.TrimSpace(f.HireDate)
	if hire == "" {
		return CreateParams{}, apperror.MissingField("hire_date")
	}

	d, err := datefmt.ParseDisplay(hire)
	if err != nil {
		return CreateParams{}, err
	}

	p := CreateParams{
		Number:      f.Number,
		Name:        f.Name,
		Department:  f.Department,
		ContactInfo: f.ContactInfo,
		HireDate:    d,
	}.normalize()

	return p, p.validate()
}

// FormFrom fills a form from an existing employee for editing.
func FormFrom(e *Employee) Form {
	return Form{
		Number:      e.Number,
		Name:        e.Name,
		Department:  e.Department,
		ContactInfo: e.ContactInfo,
		HireDate:    e.HireDate.Display(),
	}
}
