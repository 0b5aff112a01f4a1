package datefmt_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
)

func TestParseDisplay(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    datefmt.Date
		wantErr bool
	}

	tests := []testCase{
		{name: "Valid", input: "15-06-2024", want: datefmt.New(2024, time.June, 15)},
		{name: "LeapDay", input: "29-02-2024", want: datefmt.New(2024, time.February, 29)},
		{name: "FirstOfYear", input: "01-01-2000", want: datefmt.New(2000, time.January, 1)},
		{name: "AprilHas30Days", input: "31-04-2024", wantErr: true},
		{name: "NotALeapYear", input: "29-02-2023", wantErr: true},
		{name: "SlashSeparator", input: "15/06/2024", wantErr: true},
		{name: "DotSeparator", input: "15.06.2024", wantErr: true},
		{name: "NotZeroPadded", input: "5-6-2024", wantErr: true},
		{name: "StorageForm", input: "2024-06-15", wantErr: true},
		{name: "NonNumeric", input: "ab-cd-efgh", wantErr: true},
		{name: "TrailingSpace", input: "15-06-2024 ", wantErr: true},
		{name: "MonthThirteen", input: "01-13-2024", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := datefmt.ParseDisplay(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperror.ErrInvalidFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	inputs := []string{"01-01-1999", "28-02-2023", "29-02-2024", "30-04-2024", "31-12-2030", "15-08-2025"}

	for _, in := range inputs {
		d, err := datefmt.ParseDisplay(in)
		require.NoError(t, err)
		assert.Equal(t, in, datefmt.FormatDisplay(&d))
	}
}

func TestDisplayRoundTrip_EveryDayOfLeapYear(t *testing.T) {
	d := datefmt.New(2024, time.January, 1)

	for i := 0; i < 366; i++ {
		parsed, err := datefmt.ParseDisplay(datefmt.FormatDisplay(&d))
		require.NoError(t, err)
		require.Equal(t, d, parsed)

		d = d.AddDays(1)
	}
}

func TestFormatDisplay_Missing(t *testing.T) {
	assert.Equal(t, "", datefmt.FormatDisplay(nil))
	assert.Equal(t, "", datefmt.FormatDisplay(&datefmt.Date{}))
	assert.Equal(t, "", datefmt.Date{}.String())
}

func TestParseStorage(t *testing.T) {
	d, err := datefmt.ParseStorage("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, datefmt.New(2024, time.June, 1), d)
	assert.Equal(t, "2024-06-01", d.String())
	assert.Equal(t, "01-06-2024", d.Display())

	_, err = datefmt.ParseStorage("01-06-2024")
	assert.ErrorIs(t, err, apperror.ErrInvalidFormat)
}

func TestDate_Arithmetic(t *testing.T) {
	today := datefmt.New(2024, time.June, 1)

	assert.Equal(t, datefmt.New(2024, time.August, 30), today.AddDays(90))
	assert.Equal(t, 90, today.DaysUntil(today.AddDays(90)))
	assert.Equal(t, -31, today.DaysUntil(datefmt.New(2024, time.May, 1)))
	assert.True(t, datefmt.New(2024, time.May, 1).Before(today))
	assert.True(t, datefmt.New(2025, time.January, 1).After(today))
}

func TestDate_Scan(t *testing.T) {
	var d datefmt.Date

	require.NoError(t, d.Scan(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, datefmt.New(2024, time.March, 9), d)

	require.NoError(t, d.Scan([]byte("2023-11-30")))
	assert.Equal(t, datefmt.New(2023, time.November, 30), d)

	require.NoError(t, d.Scan("2023-11-30T00:00:00Z"))
	assert.Equal(t, datefmt.New(2023, time.November, 30), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := datefmt.New(2024, time.June, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", v)

	v, err = datefmt.Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Date datefmt.Date `json:"date"`
	}

	b, err := json.Marshal(payload{Date: datefmt.New(2024, time.June, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-01"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-01-31"}`), &p))
	assert.Equal(t, datefmt.New(2025, time.January, 31), p.Date)

	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &p))
	assert.True(t, p.Date.IsZero())
}
