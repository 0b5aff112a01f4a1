package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/document"
	"github.com/MrJamesThe3rd/docket/internal/expiry"
)

type documentResponse struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Number       string        `json:"document_number"`
	IssueDate    string        `json:"issue_date"`
	ExpiryDate   string        `json:"expiry_date,omitempty"`
	Issuer       string        `json:"issuer"`
	EmployeeID   *uuid.UUID    `json:"employee_id,omitempty"`
	EmployeeName string        `json:"employee_name,omitempty"`
	Category     string        `json:"category"`
	Tags         string        `json:"tags"`
	Status       expiry.Status `json:"status"`
	Remaining    string        `json:"remaining"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    *time.Time    `json:"updated_at,omitempty"`
}

func toResponse(d *document.Document, today datefmt.Date) documentResponse {
	return documentResponse{
		ID:           d.ID,
		Name:         d.Name,
		Number:       d.Number,
		IssueDate:    d.IssueDate.Display(),
		ExpiryDate:   datefmt.FormatDisplay(d.ExpiryDate),
		Issuer:       d.Issuer,
		EmployeeID:   d.EmployeeID,
		EmployeeName: d.EmployeeName,
		Category:     d.Category,
		Tags:         d.Tags,
		Status:       d.Status(today),
		Remaining:    d.Remaining(today),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toResponseList(docs []*document.Document, today datefmt.Date) []documentResponse {
	resp := make([]documentResponse, len(docs))
	for i, d := range docs {
		resp[i] = toResponse(d, today)
	}

	return resp
}

type alertResponse struct {
	expiry.Summary
	Message string `json:"message,omitempty"`
}

type remainingResponse struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Number     string        `json:"document_number"`
	ExpiryDate string        `json:"expiry_date"`
	Status     expiry.Status `json:"status"`
	Remaining  string        `json:"remaining"`
}

type attachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	DocumentID  uuid.UUID `json:"document_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func toAttachmentResponse(a *document.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:          a.ID,
		DocumentID:  a.DocumentID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		UploadedAt:  a.UploadedAt,
	}
}
