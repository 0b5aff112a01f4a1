package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/expiry"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=document
type Repository interface {
	CreateDocument(ctx context.Context, d *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	UpdateDocument(ctx context.Context, d *Document) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error

	// SearchDocuments applies the keyword and category parts of the filter.
	SearchDocuments(ctx context.Context, filter SearchFilter) ([]*Document, error)
	ListCategories(ctx context.Context) ([]string, error)
	// CountExpiring counts documents that expired before today and those expiring from today through until.
	CountExpiring(ctx context.Context, today, until datefmt.Date) (expiry.Summary, error)

	CreateAttachment(ctx context.Context, a *Attachment) error
	GetAttachment(ctx context.Context, id uuid.UUID) (*Attachment, error)
	ListAttachments(ctx context.Context, documentID uuid.UUID) ([]*Attachment, error)
	DeleteAttachment(ctx context.Context, id uuid.UUID) error
	// DeleteAttachments removes every attachment row of the document and returns the removed rows.
	DeleteAttachments(ctx context.Context, documentID uuid.UUID) ([]*Attachment, error)
}

type Files interface {
	Save(name string, r io.Reader) (*StoredFile, error)
	Remove(path string) error
}

type Auditor interface {
	Record(ctx context.Context, action, details string)
}

type Service struct {
	repo  Repository
	files Files
	audit Auditor
	now   func() time.Time
}

func NewService(repo Repository, files Files, audit Auditor) *Service {
	return &Service{repo: repo, files: files, audit: audit, now: time.Now}
}

// WithClock returns a copy of s that reads "today" from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now

	return &c
}

// Today is the date expiry states are evaluated against.
func (s *Service) Today() datefmt.Date {
	return datefmt.Today(s.now)
}

type SearchFilter struct {
	// Keyword matches name, number, issuer, category or tags, case-insensitively.
	Keyword  string
	Category string
	// Status keeps only documents in that expiry state. Valid includes documents without an expiry date.
	Status expiry.Status
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Document, error) {
	params = params.normalize()
	if err := params.validate(); err != nil {
		return nil, err
	}

	d := fromParams(params)
	if err := s.repo.CreateDocument(ctx, d); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "document.create", fmt.Sprintf("document %s (%s)", d.Number, d.Name))

	return d, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Document, error) {
	params = params.normalize()
	if err := params.validate(); err != nil {
		return nil, err
	}

	d := fromParams(params)
	d.ID = id

	if err := s.repo.UpdateDocument(ctx, d); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "document.update", fmt.Sprintf("document %s (%s)", d.Number, d.Name))

	return d, nil
}

// Delete removes the document and its attachment rows, then deletes the
// attachment files. A file that cannot be removed is logged and left behind.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	attachments, err := s.repo.ListAttachments(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return err
	}

	for _, a := range attachments {
		if err := s.files.Remove(a.Path); err != nil {
			slog.Warn("failed to remove attachment file", "path", a.Path, "error", err)
		}
	}

	s.audit.Record(ctx, "document.delete", fmt.Sprintf("document id %s with %d attachment(s)", id, len(attachments)))

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetDocument(ctx, id)
}

func (s *Service) Search(ctx context.Context, filter SearchFilter) ([]*Document, error) {
	docs, err := s.repo.SearchDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.Status == "" {
		return docs, nil
	}

	today := s.Today()

	var out []*Document

	for _, d := range docs {
		if d.Status(today).Matches(filter.Status) {
			out = append(out, d)
		}
	}

	return out, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

// ExpiryAlert counts expired and near-expiry documents as of today.
func (s *Service) ExpiryAlert(ctx context.Context) (expiry.Summary, error) {
	today := s.Today()
	return s.repo.CountExpiring(ctx, today, today.AddDays(expiry.NearExpiryWindow))
}

// RemainingItem pairs a document with its expiry state as of today.
type RemainingItem struct {
	Document  *Document
	Status    expiry.Status
	Remaining string
}

// Remaining lists the documents that have an expiry date, soonest first.
func (s *Service) Remaining(ctx context.Context) ([]RemainingItem, error) {
	docs, err := s.repo.SearchDocuments(ctx, SearchFilter{})
	if err != nil {
		return nil, err
	}

	today := s.Today()

	var items []RemainingItem

	for _, d := range docs {
		if d.ExpiryDate == nil {
			continue
		}

		items = append(items, RemainingItem{
			Document:  d,
			Status:    d.Status(today),
			Remaining: d.Remaining(today),
		})
	}

	sortByExpiry(items)

	return items, nil
}

// Attach copies the file at srcPath into the attachments directory and links it to the document.
func (s *Service) Attach(ctx context.Context, documentID uuid.UUID, srcPath string) (*Attachment, error) {
	if _, err := s.repo.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}

	stored, err := saveFile(s.files, srcPath)
	if err != nil {
		return nil, err
	}

	return s.link(ctx, documentID, stored)
}

// AttachReader stores an uploaded file under name and links it to the document.
func (s *Service) AttachReader(ctx context.Context, documentID uuid.UUID, name string, r io.Reader) (*Attachment, error) {
	if _, err := s.repo.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}

	stored, err := s.files.Save(name, r)
	if err != nil {
		return nil, err
	}

	return s.link(ctx, documentID, stored)
}

func (s *Service) link(ctx context.Context, documentID uuid.UUID, stored *StoredFile) (*Attachment, error) {
	a := &Attachment{
		DocumentID:  documentID,
		Filename:    stored.Filename,
		Path:        stored.Path,
		ContentType: stored.ContentType,
	}
	if err := s.repo.CreateAttachment(ctx, a); err != nil {
		if rmErr := s.files.Remove(stored.Path); rmErr != nil {
			slog.Warn("failed to remove orphaned attachment file", "path", stored.Path, "error", rmErr)
		}

		return nil, err
	}

	s.audit.Record(ctx, "attachment.create", fmt.Sprintf("attached %s to document %s", a.Filename, documentID))

	return a, nil
}

func (s *Service) Attachments(ctx context.Context, documentID uuid.UUID) ([]*Attachment, error) {
	return s.repo.ListAttachments(ctx, documentID)
}

func (s *Service) GetAttachment(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	return s.repo.GetAttachment(ctx, id)
}

func (s *Service) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetAttachment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAttachment(ctx, id); err != nil {
		return err
	}

	if err := s.files.Remove(a.Path); err != nil {
		slog.Warn("failed to remove attachment file", "path", a.Path, "error", err)
	}

	s.audit.Record(ctx, "attachment.delete", fmt.Sprintf("removed %s from document %s", a.Filename, a.DocumentID))

	return nil
}

// DeleteAttachments unlinks every attachment of the document and removes the
// stored files. The document itself is kept. Files that cannot be removed are
// logged and left behind. It returns the number of attachments removed.
func (s *Service) DeleteAttachments(ctx context.Context, documentID uuid.UUID) (int, error) {
	d, err := s.repo.GetDocument(ctx, documentID)
	if err != nil {
		return 0, err
	}

	removed, err := s.repo.DeleteAttachments(ctx, documentID)
	if err != nil {
		return 0, err
	}

	for _, a := range removed {
		if err := s.files.Remove(a.Path); err != nil {
			slog.Warn("failed to remove attachment file", "path", a.Path, "error", err)
		}
	}

	s.audit.Record(ctx, "attachment.delete_all",
		fmt.Sprintf("removed %d attachment(s) from document %s (%s)", len(removed), d.Number, d.Name))

	return len(removed), nil
}

func fromParams(p CreateParams) *Document {
	return &Document{
		Name:       p.Name,
		Number:     p.Number,
		IssueDate:  p.IssueDate,
		ExpiryDate: p.ExpiryDate,
		Issuer:     p.Issuer,
		EmployeeID: p.EmployeeID,
		Category:   p.Category,
		Tags:       p.Tags,
	}
}

func sortByExpiry(items []RemainingItem) {
	slices.SortStableFunc(items, func(a, b RemainingItem) int {
		x, y := *a.Document.ExpiryDate, *b.Document.ExpiryDate

		switch {
		case x.Before(y):
			return -1
		case x.After(y):
			return 1
		}

		return 0
	})
}
