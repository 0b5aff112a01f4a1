package audit

import (
	"context"
	"log/slog"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=audit
type Repository interface {
	CreateEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	// Action matches entries whose action starts with it, e.g. "salary." or "payroll.generate".
	Action string
	// Limit caps the number of entries; zero means no cap.
	Limit int
}

// Record appends an entry to the audit log. It never fails the caller: a
// store error is logged and dropped.
func (s *Service) Record(ctx context.Context, action, details string) {
	e := &Entry{Action: action, Details: details}
	if err := s.repo.CreateEntry(ctx, e); err != nil {
		slog.Warn("failed to record audit entry", "action", action, "error", err)
	}
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, filter)
}
