package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/document"
	"github.com/MrJamesThe3rd/docket/internal/salary"
)

const (
	SalariesSheet  = "Salaries"
	DocumentsSheet = "Documents"
)

var salaryHeader = []any{
	"ID", "Employee", "Department", "Basic (monthly)", "Basic (annual)",
	"Allowances", "Deductions", "Net", "Payment method", "Payment date",
}

var documentHeader = []any{
	"ID", "Name", "Number", "Issue date", "Expiry date",
	"Issuer", "Category", "Tags", "Status", "Remaining",
}

type Salaries interface {
	List(ctx context.Context, filter salary.ListFilter) ([]*salary.Record, error)
}

type Documents interface {
	Search(ctx context.Context, filter document.SearchFilter) ([]*document.Document, error)
}

type Auditor interface {
	Record(ctx context.Context, action, details string)
}

// Service writes salary and document workbooks.
type Service struct {
	salaries  Salaries
	documents Documents
	audit     Auditor
	now       func() time.Time
}

func NewService(salaries Salaries, documents Documents, audit Auditor) *Service {
	return &Service{salaries: salaries, documents: documents, audit: audit, now: time.Now}
}

// WithClock returns a copy of s that reads the current time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now

	return &c
}

// ExportSalaries writes every salary record to a dated workbook in dir and returns its path.
func (s *Service) ExportSalaries(ctx context.Context, dir string) (string, error) {
	path, err := s.toFile(dir, "salaries", func(w io.Writer) error {
		return s.WriteSalaries(ctx, w)
	})
	if err != nil {
		return "", err
	}

	s.audit.Record(ctx, "export.salaries", "exported salaries to "+path)

	return path, nil
}

// ExportDocuments writes every document to a dated workbook in dir and returns its path.
func (s *Service) ExportDocuments(ctx context.Context, dir string) (string, error) {
	path, err := s.toFile(dir, "documents", func(w io.Writer) error {
		return s.WriteDocuments(ctx, w)
	})
	if err != nil {
		return "", err
	}

	s.audit.Record(ctx, "export.documents", "exported documents to "+path)

	return path, nil
}

// WriteSalaries loads all salary records and writes the workbook to w.
func (s *Service) WriteSalaries(ctx context.Context, w io.Writer) error {
	records, err := s.salaries.List(ctx, salary.ListFilter{})
	if err != nil {
		return fmt.Errorf("listing salaries: %w", err)
	}

	return WriteSalaries(w, records)
}

// WriteDocuments loads all documents and writes the workbook to w.
func (s *Service) WriteDocuments(ctx context.Context, w io.Writer) error {
	docs, err := s.documents.Search(ctx, document.SearchFilter{})
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	return WriteDocuments(w, docs, datefmt.Today(s.now))
}

// Workbook is a rendered export held in memory for download.
type Workbook struct {
	Name string
	Data []byte
}

// SalariesWorkbook renders the salary export in memory.
func (s *Service) SalariesWorkbook(ctx context.Context) (*Workbook, error) {
	return s.workbook(ctx, "salaries", s.WriteSalaries)
}

// DocumentsWorkbook renders the document export in memory.
func (s *Service) DocumentsWorkbook(ctx context.Context) (*Workbook, error) {
	return s.workbook(ctx, "documents", s.WriteDocuments)
}

func (s *Service) workbook(ctx context.Context, prefix string, write func(context.Context, io.Writer) error) (*Workbook, error) {
	var buf bytes.Buffer
	if err := write(ctx, &buf); err != nil {
		return nil, err
	}

	wb := &Workbook{Name: s.filename(prefix), Data: buf.Bytes()}

	s.audit.Record(ctx, "export."+prefix, "downloaded "+wb.Name)

	return wb, nil
}

func (s *Service) filename(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, s.now().Format("20060102_150405"))
}

func (s *Service) toFile(dir, prefix string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, s.filename(prefix))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)

		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	return path, nil
}

// WriteSalaries writes one row per record. Amounts are numeric cells; the
// payment date uses the display form.
func WriteSalaries(w io.Writer, records []*salary.Record) error {
	rows := make([][]any, 0, len(records))

	for _, r := range records {
		rows = append(rows, []any{
			r.ID.String(),
			r.EmployeeName,
			r.Department,
			r.Basic.InexactFloat64(),
			r.AnnualBasic().InexactFloat64(),
			r.Allowances.InexactFloat64(),
			r.Deductions.InexactFloat64(),
			r.Net.InexactFloat64(),
			r.PaymentMethod.Label(),
			r.PaymentDate.Display(),
		})
	}

	return writeSheet(w, SalariesSheet, salaryHeader, rows)
}

// WriteDocuments writes one row per document with its expiry state as of today.
func WriteDocuments(w io.Writer, docs []*document.Document, today datefmt.Date) error {
	rows := make([][]any, 0, len(docs))

	for _, d := range docs {
		rows = append(rows, []any{
			d.ID.String(),
			d.Name,
			d.Number,
			d.IssueDate.Display(),
			datefmt.FormatDisplay(d.ExpiryDate),
			d.Issuer,
			d.Category,
			d.Tags,
			d.Status(today).Label(),
			d.Remaining(today),
		})
	}

	return writeSheet(w, DocumentsSheet, documentHeader, rows)
}

func writeSheet(w io.Writer, sheet string, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("opening sheet writer: %w", err)
	}

	if err := sw.SetColWidth(1, len(header), 18); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: bold}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
