package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/employee"
	payrollHandler "github.com/MrJamesThe3rd/docket/internal/http/payroll"
	"github.com/MrJamesThe3rd/docket/internal/payroll"
	"github.com/MrJamesThe3rd/docket/internal/payrun"
	"github.com/MrJamesThe3rd/docket/internal/salary"
)

type mocks struct {
	employees *employee.MockRepository
	salaries  *salary.MockRepository
	audit     *salary.MockAuditor
}

func setup(t *testing.T) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		employees: employee.NewMockRepository(ctrl),
		salaries:  salary.NewMockRepository(ctrl),
		audit:     salary.NewMockAuditor(ctrl),
	}

	clock := func() time.Time { return time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC) }

	gen := payrun.NewGenerator(
		employee.NewService(m.employees, employee.NewMockAuditor(ctrl)),
		salary.NewService(m.salaries, m.audit),
		m.audit,
		payrun.WithClock(clock),
	)

	r := chi.NewRouter()
	r.Route("/payroll", payrollHandler.NewHandler(gen).Routes)

	return r, m
}

func TestHandler_Run(t *testing.T) {
	sara := &employee.Employee{ID: uuid.New(), Number: "E-1", Name: "Sara"}

	tests := []struct {
		name        string
		body        string
		wantPeriod  payroll.Period
		wantStatus  int
		wantPayDate string
	}{
		{name: "CurrentMonth", body: ``, wantPeriod: payroll.Period{Year: 2024, Month: time.June}, wantStatus: http.StatusCreated, wantPayDate: "12-06-2024"},
		{name: "EmptyPeriod", body: `{"period":""}`, wantPeriod: payroll.Period{Year: 2024, Month: time.June}, wantStatus: http.StatusCreated, wantPayDate: "12-06-2024"},
		{name: "PastMonth", body: `{"period":"2024-02"}`, wantPeriod: payroll.Period{Year: 2024, Month: time.February}, wantStatus: http.StatusCreated, wantPayDate: "29-02-2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := setup(t)

			m.employees.EXPECT().ListEmployees(gomock.Any(), employee.ListFilter{}).Return([]*employee.Employee{sara}, nil)
			m.salaries.EXPECT().ExistsForPeriod(gomock.Any(), sara.ID, tt.wantPeriod).Return(false, nil)
			m.salaries.EXPECT().LatestFor(gomock.Any(), sara.ID).Return(&salary.Record{
				Basic: decimal.NewFromInt(3000), Allowances: decimal.NewFromInt(100), Deductions: decimal.Zero,
			}, nil)
			m.salaries.EXPECT().CreateRecord(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, r *salary.Record) error {
					r.ID = uuid.New()
					return nil
				})
			m.audit.EXPECT().Record(gomock.Any(), "salary.create", gomock.Any())
			m.audit.EXPECT().Record(gomock.Any(), "payroll.generate", gomock.Any())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payroll/runs", strings.NewReader(tt.body)))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			var body struct {
				Period  string `json:"period"`
				Count   int    `json:"count"`
				Skipped int    `json:"skipped"`
				Created []struct {
					NetSalary   string `json:"net_salary"`
					PaymentDate string `json:"payment_date"`
				} `json:"created"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			assert.Equal(t, tt.wantPeriod.String(), body.Period)
			assert.Equal(t, 1, body.Count)
			require.Len(t, body.Created, 1)
			assert.Equal(t, "3100.00", body.Created[0].NetSalary)
			assert.Equal(t, tt.wantPayDate, body.Created[0].PaymentDate)
		})
	}
}

func TestHandler_Run_AlreadyGenerated(t *testing.T) {
	router, m := setup(t)
	id := uuid.New()

	m.employees.EXPECT().ListEmployees(gomock.Any(), gomock.Any()).Return([]*employee.Employee{{ID: id, Number: "E-1"}}, nil)
	m.salaries.EXPECT().ExistsForPeriod(gomock.Any(), id, gomock.Any()).Return(true, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payroll/runs", strings.NewReader(`{"period":"2024-06"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 0, body["count"])
	assert.EqualValues(t, 1, body["skipped"])
}

func TestHandler_Run_BadPeriod(t *testing.T) {
	router, _ := setup(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payroll/runs", strings.NewReader(`{"period":"06-2024"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Run_StoreDown(t *testing.T) {
	router, m := setup(t)
	m.employees.EXPECT().ListEmployees(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrStorageUnavailable)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payroll/runs", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandler_Net(t *testing.T) {
	router, _ := setup(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payroll/net?basic_salary=1000&allowances=50&deductions=25.5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"net":"1024.50"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payroll/net?basic_salary=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, huge := range []string{"1e20", "1e400000000"} {
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payroll/net?basic_salary="+huge, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, huge)
	}
}
