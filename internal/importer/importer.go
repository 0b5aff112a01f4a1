package importer

import (
	"context"
	"io"

	"github.com/MrJamesThe3rd/docket/internal/employee"
	"github.com/MrJamesThe3rd/docket/internal/importer/roster"
)

type Parser interface {
	Parse(r io.Reader) (*roster.Batch, error)
}

type Employees interface {
	ImportBatch(ctx context.Context, params []employee.CreateParams) (*employee.ImportResult, error)
}
