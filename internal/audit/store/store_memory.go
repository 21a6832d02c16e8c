package store

import (
	"context"
	"sync"

	"dealaudit/internal/audit"
	"dealaudit/pkg/domain"
	dErrors "dealaudit/pkg/domain-errors"
)

// InMemoryStore keeps reports in insertion order. It mirrors the Postgres
// store's semantics so unit tests and dev mode can swap it in.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports []audit.AuditReport
	byID    map[domain.ReportID]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[domain.ReportID]int)}
}

func (s *InMemoryStore) Append(_ context.Context, report audit.AuditReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[report.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "audit report already exists")
	}
	s.byID[report.ID] = len(s.reports)
	s.reports = append(s.reports, report)
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id domain.ReportID) (*audit.AuditReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	report := s.reports[idx]
	return &report, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.AuditReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.reports) {
		limit = len(s.reports)
	}
	out := make([]audit.AuditReport, 0, limit)
	for i := len(s.reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.reports[i])
	}
	return out, nil
}
