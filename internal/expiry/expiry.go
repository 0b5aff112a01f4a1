// Package expiry classifies documents by how close their expiry date is.
package expiry

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/docket/internal/apperror"
	"github.com/MrJamesThe3rd/docket/internal/datefmt"
)

// NearExpiryWindow is the number of days before expiry during which a
// document is flagged. The boundary day itself is near-expiry.
const NearExpiryWindow = 90

type Status string

const (
	StatusNotApplicable Status = "not_applicable"
	StatusValid         Status = "valid"
	StatusNearExpiry    Status = "near_expiry"
	StatusExpired       Status = "expired"
)

// Classify evaluates the rules in order: no date, already past, inside the window, valid.
func Classify(expiry *datefmt.Date, today datefmt.Date) Status {
	if expiry == nil || expiry.IsZero() {
		return StatusNotApplicable
	}

	if expiry.Before(today) {
		return StatusExpired
	}

	if !expiry.After(today.AddDays(NearExpiryWindow)) {
		return StatusNearExpiry
	}

	return StatusValid
}

// Flagged reports whether s should draw the user's attention.
func (s Status) Flagged() bool {
	return s == StatusNearExpiry || s == StatusExpired
}

func (s Status) Label() string {
	switch s {
	case StatusValid:
		return "Valid"
	case StatusNearExpiry:
		return "Near expiry"
	case StatusExpired:
		return "Expired"
	}

	return "N/A"
}

// Matches reports whether s passes a status filter. A document with no
// expiry date is grouped with valid ones.
func (s Status) Matches(filter Status) bool {
	if filter == "" {
		return true
	}

	if filter == StatusValid {
		return s == StatusValid || s == StatusNotApplicable
	}

	return s == filter
}

// ParseStatus accepts the filter names used by the API and the TUI. Empty means no filter.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return "", nil
	case "valid":
		return StatusValid, nil
	case "near", "near_expiry":
		return StatusNearExpiry, nil
	case "expired":
		return StatusExpired, nil
	}

	return "", apperror.InvalidFormat("status", fmt.Sprintf("unknown status %q", s))
}
