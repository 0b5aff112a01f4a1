package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/docket/internal/datefmt"
	"github.com/MrJamesThe3rd/docket/internal/salary"
)

func TestValidDisplayDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		optional bool
		wantErr  bool
	}{
		{name: "Valid", input: "15-03-2021"},
		{name: "StorageForm", input: "2021-03-15", wantErr: true},
		{name: "BlankRequired", input: "  ", wantErr: true},
		{name: "BlankOptional", input: "", optional: true},
		{name: "NotADay", input: "31-02-2024", optional: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validDisplayDate(tt.optional)(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestValidators(t *testing.T) {
	assert.EqualError(t, notBlank("name")(" "), "name cannot be empty")
	assert.NoError(t, notBlank("name")("Sara"))

	assert.NoError(t, validAmount("allowances")(""))
	assert.NoError(t, validAmount("allowances")("12.50"))
	assert.Error(t, validAmount("allowances")("12,50"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1050.50", FormatAmount(decimal.RequireFromString("1050.5")))
	assert.Equal(t, "-", FormatDate(nil))
	assert.Equal(t, "01-06-2024", FormatDate(ptrTo(datefmt.New(2024, time.June, 1))))

	assert.Equal(t, 1, cycle(0, 3))
	assert.Equal(t, 0, cycle(2, 3))
	assert.Equal(t, 0, cycle(5, 0))
}

func TestSalaryFields(t *testing.T) {
	tests := []struct {
		name        string
		fields      salaryFields
		wantMonthly string
		wantErr     bool
		wantNet     string
	}{
		{
			name:        "Monthly",
			fields:      salaryFields{BasicAs: "monthly", BasicIn: "1000", Form: salary.Form{Allowances: "100", Deductions: "50"}},
			wantMonthly: "1000",
			wantNet:     "Net salary: 1050.00",
		},
		{
			name:        "Annual",
			fields:      salaryFields{BasicAs: "annual", BasicIn: "10000"},
			wantMonthly: "833.33",
			wantNet:     "Net salary: 833.33",
		},
		{
			name:    "Blank",
			fields:  salaryFields{BasicAs: "monthly"},
			wantNet: "Net salary: 0.00",
		},
		{
			name:    "NotANumber",
			fields:  salaryFields{BasicAs: "monthly", BasicIn: "abc", Form: salary.Form{Allowances: "100"}},
			wantErr: true,
			wantNet: "Net salary: 100.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monthly, err := tt.fields.monthly()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantMonthly, monthly)
			}

			assert.Equal(t, tt.wantNet, tt.fields.netSummary())
		})
	}
}

func ptrTo[T any](v T) *T { return &v }
