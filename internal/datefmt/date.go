// Package datefmt converts between the day-month-year form users type and
// read, and the sortable year-month-day form the store keeps.
package datefmt

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
)

const (
	DisplayLayout = "02-01-2006"
	StorageLayout = time.DateOnly
)

// Date is a calendar date with no time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Of returns the calendar date of t in t's own location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current date according to clock.
func Today(clock func() time.Time) Date {
	if clock == nil {
		clock = time.Now
	}

	return Of(clock())
}

func New(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDisplay parses DD-MM-YYYY strictly: zero padded, hyphen separated, and
// a day that exists in that month.
func ParseDisplay(s string) (Date, error) {
	if len(s) != len(DisplayLayout) {
		return Date{}, apperror.InvalidFormat("date", fmt.Sprintf("%q is not in DD-MM-YYYY form", s))
	}

	t, err := time.Parse(DisplayLayout, s)
	if err != nil {
		return Date{}, apperror.InvalidFormat("date", fmt.Sprintf("%q is not a valid DD-MM-YYYY date", s))
	}

	return Of(t), nil
}

// ParseStorage parses the YYYY-MM-DD form used by the store.
func ParseStorage(s string) (Date, error) {
	if len(s) != len(StorageLayout) {
		return Date{}, apperror.InvalidFormat("date", fmt.Sprintf("%q is not in YYYY-MM-DD form", s))
	}

	t, err := time.Parse(StorageLayout, s)
	if err != nil {
		return Date{}, apperror.InvalidFormat("date", fmt.Sprintf("%q is not a valid YYYY-MM-DD date", s))
	}

	return Of(t), nil
}

// FormatDisplay renders d as DD-MM-YYYY. A missing date renders as "".
func FormatDisplay(d *Date) string {
	if d == nil || d.IsZero() {
		return ""
	}

	return d.Time().Format(DisplayLayout)
}

// FormatStorage renders d as YYYY-MM-DD.
func FormatStorage(d Date) string {
	return d.Time().Format(StorageLayout)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight UTC on d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders d as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return FormatStorage(d)
}

func (d Date) Display() string {
	return FormatDisplay(&d)
}

func (d Date) AddDays(n int) Date {
	return Of(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) After(o Date) bool {
	return d.Time().After(o.Time())
}

// DaysUntil returns the number of whole days from d to o; negative when o is earlier.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

// Ptr returns a pointer to a copy of d, or nil for the zero date.
func (d Date) Ptr() *Date {
	if d.IsZero() {
		return nil
	}

	return &d
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}

	return FormatStorage(d), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = Of(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	}

	return fmt.Errorf("cannot scan %T into datefmt.Date", src)
}

func (d *Date) scanText(s string) error {
	if len(s) > len(StorageLayout) {
		s = s[:len(StorageLayout)]
	}

	parsed, err := ParseStorage(s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(FormatStorage(d))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseStorage(*s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
