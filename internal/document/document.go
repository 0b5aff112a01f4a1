package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/expiry"
)

// Document is an organizational document such as a licence, permit or contract.
type Document struct {
	ID           uuid.UUID
	Name         string
	Number       string // unique
	IssueDate    datefmt.Date
	ExpiryDate   *datefmt.Date
	Issuer       string
	EmployeeID   *uuid.UUID
	EmployeeName string // Loaded via JOIN
	Category     string
	Tags         string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (d *Document) Status(today datefmt.Date) expiry.Status {
	return expiry.Classify(d.ExpiryDate, today)
}

func (d *Document) Remaining(today datefmt.Date) string {
	return expiry.RemainingText(d.ExpiryDate, today)
}

// Attachment is a file copied into the attachments directory for a document.
type Attachment struct {
	ID          uuid.UUID
	DocumentID  uuid.UUID
	Filename    string // original base name
	Path        string
	ContentType string
	UploadedAt  time.Time
}

type CreateParams struct {
	Name       string
	Number     string
	IssueDate  datefmt.Date
	ExpiryDate *datefmt.Date
	Issuer     string
	EmployeeID *uuid.UUID
	Category   string
	Tags       string
}

func (p CreateParams) normalize() CreateParams {
	p.Name = strings.TrimSpace(p.Name)
	p.Number = strings.TrimSpace(p.Number)
	p.Issuer = strings.TrimSpace(p.Issuer)
	p.Category = strings.TrimSpace(p.Category)
	p.Tags = strings.TrimSpace(p.Tags)

	if p.ExpiryDate != nil && p.ExpiryDate.IsZero() {
		p.ExpiryDate = nil
	}

	if p.EmployeeID != nil && *p.EmployeeID == uuid.Nil {
		p.EmployeeID = nil
	}

	return p
}

func (p CreateParams) validate() error {
	if p.Name == "" {
		return apperror.MissingField("name")
	}

	if p.Number == "" {
		return apperror.MissingField("document_number")
	}

	if p.IssueDate.IsZero() {
		return apperror.MissingField("issue_date")
	}

	if p.Issuer == "" {
		return apperror.MissingField("issuer")
	}

	return nil
}

// Form holds document fields as a user typed them. ExpiryDate and EmployeeID may be empty.
type Form struct {
	Name       string
	Number     string
	IssueDate  string // DD-MM-YYYY
	ExpiryDate string // DD-MM-YYYY
	Issuer     string
	EmployeeID string
	Category   string
	Tags       string
}

func (f Form) Params() (CreateParams, error) {
	issue := strings.TrimSpace(f.IssueDate)
	if issue == "" {
		return CreateParams{}, apperror.MissingField("issue_date")
	}

	issued, err := datefmt.ParseDisplay(issue)
	if err != nil {
		return CreateParams{}, err
	}

	p := CreateParams{
		Name:      f.Name,
		Number:    f.Number,
		IssueDate: issued,
		Issuer:    f.Issuer,
		Category:  f.Category,
		Tags:      f.Tags,
	}

	if s := strings.TrimSpace(f.ExpiryDate); s != "" {
		expires, err := datefmt.ParseDisplay(s)
		if err != nil {
			return CreateParams{}, err
		}

		p.ExpiryDate = &expires
	}

	if s := strings.TrimSpace(f.EmployeeID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return CreateParams{}, apperror.InvalidFormat("employee_id", fmt.Sprintf("%q is not a valid id", s))
		}

		p.EmployeeID = &id
	}

	p = p.normalize()

	return p, p.validate()
}

// FormFrom fills a form from an existing document for editing.
func FormFrom(d *Document) Form {
	f := Form{
		Name:       d.Name,
		Number:     d.Number,
		IssueDate:  d.IssueDate.Display(),
		ExpiryDate: datefmt.FormatDisplay(d.ExpiryDate),
		Issuer:     d.Issuer,
		Category:   d.Category,
		Tags:       d.Tags,
	}

	if d.EmployeeID != nil {
		f.EmployeeID = d.EmployeeID.String()
	}

	return f
}
