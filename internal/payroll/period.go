package payroll

import (
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
)

// Period is a calendar month that groups at most one generated salary record per employee.
type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year int, month time.Month) (Period, error) {
	if year <= 0 {
		return Period{}, apperror.InvalidFormat("period", fmt.Sprintf("year %d is not valid", year))
	}

	if month < time.January || month > time.December {
		return Period{}, apperror.InvalidFormat("period", fmt.Sprintf("month %d is not valid", month))
	}

	return Period{Year: year, Month: month}, nil
}

// ParsePeriod parses the YYYY-MM form.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil || len(s) != len("2006-01") {
		return Period{}, apperror.InvalidFormat("period", fmt.Sprintf("%q is not in YYYY-MM form", s))
	}

	return NewPeriod(t.Year(), t.Month())
}

func PeriodOf(d datefmt.Date) Period {
	return Period{Year: d.Year, Month: d.Month}
}

func (p Period) Start() datefmt.Date {
	return datefmt.New(p.Year, p.Month, 1)
}

// End is the last day of the month.
func (p Period) End() datefmt.Date {
	return p.Next().Start().AddDays(-1)
}

func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}

	return Period{Year: p.Year, Month: p.Month + 1}
}

func (p Period) Prev() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}

	return Period{Year: p.Year, Month: p.Month - 1}
}

func (p Period) Contains(d datefmt.Date) bool {
	return d.Year == p.Year && d.Month == p.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Display renders the period as MM-YYYY, matching the day-month-year order users see elsewhere.
func (p Period) Display() string {
	return fmt.Sprintf("%02d-%04d", int(p.Month), p.Year)
}
