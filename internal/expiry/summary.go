package expiry

import (
	"fmt"
	"strings"
)

// Summary counts the documents that need attention.
type Summary struct {
	Expired    int `json:"expired"`
	NearExpiry int `json:"near_expiry"`
}

// Message builds the combined notification. ok is false when there is nothing to report.
func (s Summary) Message() (msg string, ok bool) {
	var lines []string

	if s.Expired > 0 {
		lines = append(lines, fmt.Sprintf("%d document(s) have expired.", s.Expired))
	}

	if s.NearExpiry > 0 {
		lines = append(lines, fmt.Sprintf("%d document(s) expire within %d days.", s.NearExpiry, NearExpiryWindow))
	}

	if len(lines) == 0 {
		return "", false
	}

	return strings.Join(lines, "\n"), true
}

// Add counts one document with status st.
func (s *Summary) Add(st Status) {
	switch st {
	case StatusExpired:
		s.Expired++
	case StatusNearExpiry:
		s.NearExpiry++
	}
}
