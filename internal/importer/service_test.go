package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/employee"
	"github.com/MrJamesThe3rd/docket/internal/importer"
)

type fakeEmployees struct {
	existing map[string]bool
	err      error
	got      []employee.CreateParams
}

func (f *fakeEmployees) ImportBatch(_ context.Context, params []employee.CreateParams) (*employee.ImportResult, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}

	res := &employee.ImportResult{}

	for _, p := range params {
		if f.existing[p.Number] {
			res.Skipped = append(res.Skipped, p)
			continue
		}

		res.Imported = append(res.Imported, &employee.Employee{ID: uuid.New(), Number: p.Number, Name: p.Name})
	}

	return res, nil
}

const roster = `Name;Number;Department;Hire Date
Adam;E-1;Sales;01-06-2024
Mona;E-2;Sales;bad
Sara;E-3;Finance;15-03-2021
`

func TestService_Import(t *testing.T) {
	employees := &fakeEmployees{existing: map[string]bool{"E-3": true}}
	svc := importer.NewService(employees)

	res, err := svc.Import(context.Background(), strings.NewReader(roster))
	require.NoError(t, err)

	require.Len(t, employees.got, 2)
	require.Len(t, res.Imported, 1)
	assert.Equal(t, "E-1", res.Imported[0].Number)

	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "E-3", res.Duplicates[0].Number)

	require.Len(t, res.Invalid, 1)
	assert.Equal(t, 3, res.Invalid[0].Row)
	assert.Equal(t, "UTF-8", res.Charset)
}

func TestService_Import_ParseError(t *testing.T) {
	employees := &fakeEmployees{}
	svc := importer.NewService(employees)

	_, err := svc.Import(context.Background(), strings.NewReader("Name;Number;Hire Date\n;E-1;01-06-2024\n"))
	require.ErrorIs(t, err, apperror.ErrMissingRequiredField)
	assert.Nil(t, employees.got, "nothing is written when the file is rejected")
}

func TestService_Import_StoreError(t *testing.T) {
	svc := importer.NewService(&fakeEmployees{err: apperror.ErrStorageUnavailable})

	_, err := svc.Import(context.Background(), strings.NewReader(roster))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrStorageUnavailable))
}
