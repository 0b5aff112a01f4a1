package export_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/document"
	"github.com/MrJamesThe3rd/docket/internal/export"
	exportHandler "github.com/MrJamesThe3rd/docket/internal/http/export"
	"github.com/MrJamesThe3rd/docket/internal/salary"
)

type salaries struct {
	records []*salary.Record
	err     error
}

func (s *salaries) List(context.Context, salary.ListFilter) ([]*salary.Record, error) {
	return s.records, s.err
}

type documents struct{}

func (documents) Search(context.Context, document.SearchFilter) ([]*document.Document, error) {
	return nil, nil
}

type noAudit struct{}

func (noAudit) Record(context.Context, string, string) {}

func router(s *salaries) http.Handler {
	clock := func() time.Time { return time.Date(2024, time.June, 1, 8, 30, 0, 0, time.UTC) }
	svc := export.NewService(s, documents{}, noAudit{}).WithClock(clock)

	r := chi.NewRouter()
	r.Route("/export", exportHandler.NewHandler(svc).Routes)

	return r
}

func TestHandler_Salaries(t *testing.T) {
	s := &salaries{records: []*salary.Record{{
		ID: uuid.New(), EmployeeName: "Sara", Basic: decimal.NewFromInt(1000), Net: decimal.NewFromInt(1000),
		PaymentMethod: salary.PaymentCash, PaymentDate: datefmt.New(2024, time.May, 31),
	}}}

	rec := httptest.NewRecorder()
	router(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/salaries", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "attachment; filename=salaries_20240601_083000.xlsx", rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SalariesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sara", rows[1][1])
}

func TestHandler_Documents_Empty(t *testing.T) {
	rec := httptest.NewRecorder()
	router(&salaries{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/documents", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "documents_20240601_083000.xlsx")
}

func TestHandler_Salaries_StoreDown(t *testing.T) {
	rec := httptest.NewRecorder()
	router(&salaries{err: apperror.ErrStorageUnavailable}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/salaries", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
