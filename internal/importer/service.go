package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/docket/internal/employee"
	"github.com/MrJamesThe3rd/docket/internal/importer/roster"
)

type Service struct {
	parser    Parser
	employees Employees
}

func NewService(employees Employees) *Service {
	return &Service{
		parser:    roster.NewParser(),
		employees: employees,
	}
}

// Result reports what happened to each row of a roster file.
type Result struct {
	Charset    string
	Imported   []*employee.Employee
	Duplicates []employee.CreateParams // employee number already on file
	Invalid    []roster.SkippedRow     // unreadable hire date
}

// Import reads a roster file and creates its employees in one batch.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	batch, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	res, err := s.employees.ImportBatch(ctx, batch.Rows)
	if err != nil {
		return nil, fmt.Errorf("importing roster: %w", err)
	}

	return &Result{
		Charset:    batch.Charset,
		Imported:   res.Imported,
		Duplicates: res.Skipped,
		Invalid:    batch.Skipped,
	}, nil
}
