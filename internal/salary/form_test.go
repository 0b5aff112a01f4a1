package salary_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/salary"
)

func TestForm_Params(t *testing.T) {
	employeeID := uuid.New()

	valid := func() salary.Form {
		return salary.Form{
			EmployeeID:    employeeID.String(),
			Basic:         "5000",
			Allowances:    "0",
			Deductions:    "0",
			PaymentMethod: "Cash",
			PaymentDate:   "01-06-2024",
		}
	}

	type testCase struct {
		name    string
		mutate  func(f *salary.Form)
		wantErr error
	}

	tests := []testCase{
		{name: "Valid", mutate: func(*salary.Form) {}},
		{name: "EmptyAllowances", mutate: func(f *salary.Form) { f.Allowances = " " }, wantErr: apperror.ErrMissingRequiredField},
		{name: "EmptyEmployee", mutate: func(f *salary.Form) { f.EmployeeID = "" }, wantErr: apperror.ErrMissingRequiredField},
		{name: "BadEmployee", mutate: func(f *salary.Form) { f.EmployeeID = "42" }, wantErr: apperror.ErrInvalidFormat},
		{name: "BadBasic", mutate: func(f *salary.Form) { f.Basic = "five" }, wantErr: apperror.ErrInvalidFormat},
		{name: "BadDate", mutate: func(f *salary.Form) { f.PaymentDate = "2024-06-01" }, wantErr: apperror.ErrInvalidFormat},
		{name: "BadMethod", mutate: func(f *salary.Form) { f.PaymentMethod = "cheque" }, wantErr: apperror.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid()
			tt.mutate(&f)

			got, err := f.Params()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, employeeID, got.EmployeeID)
			assert.Equal(t, salary.PaymentCash, got.PaymentMethod)
			assert.True(t, got.Allowances.IsZero())
			assert.Equal(t, "2024-06-01", got.PaymentDate.String())
		})
	}
}

func TestForm_PreviewNet(t *testing.T) {
	assert.Equal(t, "5050.00", salary.Form{Basic: "5000", Allowances: "200", Deductions: "150"}.PreviewNet().StringFixed(2))
	assert.Equal(t, "0.00", salary.Form{Basic: "abc", Allowances: "200", Deductions: "150"}.PreviewNet().StringFixed(2))
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := salary.ParsePaymentMethod("bank_transfer")
	require.NoError(t, err)
	assert.Equal(t, salary.PaymentBankTransfer, m)

	m, err = salary.ParsePaymentMethod("bank transfer")
	require.NoError(t, err)
	assert.Equal(t, salary.PaymentBankTransfer, m)

	_, err = salary.ParsePaymentMethod("")
	assert.ErrorIs(t, err, apperror.ErrMissingRequiredField)
}
