package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one line of the audit log.
type Entry struct {
	ID        uuid.UUID
	Timestamp time.Time
	Action    string // short label such as "salary.create"
	Details   string
}
