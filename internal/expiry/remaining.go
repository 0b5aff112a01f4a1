package expiry

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/docket/internal/datefmt"
)

// Duration is an approximate breakdown of the time left before expiry,
// using 365-day years and 30-day months. It is for display only.
type Duration struct {
	Years   int
	Months  int
	Days    int
	Expired bool
}

func Remaining(expiry, today datefmt.Date) Duration {
	if expiry.Before(today) {
		return Duration{Expired: true}
	}

	total := today.DaysUntil(expiry)
	rest := total % 365

	return Duration{
		Years:  total / 365,
		Months: rest / 30,
		Days:   rest % 30,
	}
}

func (d Duration) String() string {
	if d.Expired {
		return "expired"
	}

	return strings.Join([]string{
		plural(d.Years, "year"),
		plural(d.Months, "month"),
		plural(d.Days, "day"),
	}, ", ")
}

// RemainingText renders the remaining time for a possibly missing expiry date.
func RemainingText(expiry *datefmt.Date, today datefmt.Date) string {
	if expiry == nil || expiry.IsZero() {
		return "N/A"
	}

	return Remaining(*expiry, today).String()
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
