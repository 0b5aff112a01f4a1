package roster

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/employee"
	enc "github.com/MrJamesThe3rd/docket/internal/encoding"
)

// separators are tried in order until one yields a recognizable header.
var separators = []rune{';', ','}

// Batch is the result of reading one roster file.
type Batch struct {
	Profile string
	Charset string
	Rows    []employee.CreateParams
	Skipped []SkippedRow
}

// SkippedRow is a data row left out because its hire date could not be read.
type SkippedRow struct {
	Row    int // 1-based record number, header included
	Reason string
}

// Parser reads employee roster CSV exports. It auto-detects the separator
// and which layout is being used by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*Batch, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var readErr error

	for _, sep := range separators {
		rows, err := readCSV(data, sep)
		if err != nil {
			readErr = err
			continue
		}

		l, headerIdx, ok := detectLayout(rows)
		if !ok {
			continue
		}

		batch, err := parseRows(l, rows[headerIdx+1:], headerIdx+1)
		if err != nil {
			return nil, err
		}

		batch.Charset = utf8r.Charset

		return batch, nil
	}

	if readErr != nil {
		return nil, fmt.Errorf("read csv: %w", readErr)
	}

	return nil, apperror.InvalidFormat("file", "no roster header found: expected name, employee number and hire date columns")
}

func readCSV(data []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps normalized column names to their index in the row.
type colIndex map[string]int

// detectLayout scans rows for a header that matches a known profile.
// Returns the resolved layout and the header row index.
func detectLayout(rows [][]string) (layout, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := headerKey(cell); name != "" {
				if _, seen := cols[name]; !seen {
					cols[name] = i
				}
			}
		}

		for i := range profiles {
			if l, ok := profiles[i].match(cols); ok {
				return l, rowIdx, true
			}
		}
	}

	return layout{}, 0, false
}

// parseRows turns data rows into employee params.
// headerRowNum is the 1-based record number of the header (for error messages).
func parseRows(l layout, rows [][]string, headerRowNum int) (*Batch, error) {
	batch := &Batch{Profile: l.profile.Name}

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		if blank(row) {
			continue
		}

		hire := cellValue(row, l.hireDate)
		if hire == "" {
			batch.Skipped = append(batch.Skipped, SkippedRow{Row: rowNum, Reason: "missing hire date"})
			continue
		}

		hired, err := datefmt.ParseDisplay(hire)
		if err != nil {
			batch.Skipped = append(batch.Skipped, SkippedRow{Row: rowNum, Reason: err.Error()})
			continue
		}

		name := cellValue(row, l.name)
		if name == "" {
			return nil, fmt.Errorf("row %d: %w", rowNum, apperror.MissingField("name"))
		}

		number := cellValue(row, l.number)
		if number == "" {
			return nil, fmt.Errorf("row %d: %w", rowNum, apperror.MissingField("employee_number"))
		}

		batch.Rows = append(batch.Rows, employee.CreateParams{
			Number:      number,
			Name:        name,
			Department:  cellValue(row, l.department),
			ContactInfo: cellValue(row, l.contact),
			HireDate:    hired,
		})
	}

	return batch, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
