// Package store persists audit reports as an append-only log. Reports are
// never updated or deleted: a correction is a new report.
package store

import (
	"context"

	"dealaudit/internal/audit"
	"dealaudit/pkg/domain"
	dErrors "dealaudit/pkg/domain-errors"
)

// ErrNotFound keeps store-level 404s consistent across the in-memory and
// Postgres implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "audit report not found")

// Store is the audit-report log.
type Store interface {
	// Append writes one report. Report IDs are unique; appending the same ID
	// twice is a caller bug and surfaces as an error.
	Append(ctx context.Context, report audit.AuditReport) error

	// GetByID returns one report or ErrNotFound.
	GetByID(ctx context.Context, id domain.ReportID) (*audit.AuditReport, error)

	// ListRecent returns up to limit reports, newest first.
	ListRecent(ctx context.Context, limit int) ([]audit.AuditReport, error)
}
