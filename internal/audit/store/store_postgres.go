package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dealaudit/internal/audit"
	"dealaudit/pkg/domain"
)

// Schema creates the audit log table. The table carries no UPDATE path on
// purpose: audit-trail rows are immutable.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_reports (
	id               UUID PRIMARY KEY,
	session_id       UUID NOT NULL,
	overall_score    INT NOT NULL,
	pass             BOOLEAN NOT NULL,
	alerts           JSONB NOT NULL,
	alerts_count     INT NOT NULL,
	integrity_score  INT NOT NULL,
	structural_score INT NOT NULL,
	relevance_score  INT NOT NULL,
	crosscheck_score INT NOT NULL,
	total_deals      INT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_reports_created_at_idx ON audit_reports (created_at DESC);
`

// PostgresStore persists audit reports in PostgreSQL. Alerts are stored as a
// JSONB document alongside the rollup columns the dashboard queries on.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed audit report store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the audit log table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, report audit.AuditReport) error {
	alerts, err := json.Marshal(report.Alerts)
	if err != nil {
		return fmt.Errorf("marshal alerts: %w", err)
	}

	query := `
		INSERT INTO audit_reports (
			id, session_id, overall_score, pass, alerts, alerts_count,
			integrity_score, structural_score, relevance_score, crosscheck_score,
			total_deals, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.pool.Exec(ctx, query,
		uuid.UUID(report.ID),
		uuid.UUID(report.SessionID),
		report.OverallScore,
		report.Pass,
		alerts,
		report.AlertsCount,
		report.IntegrityScore,
		report.StructuralScore,
		report.RelevanceScore,
		report.CrosscheckScore,
		report.TotalDeals,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit report: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id domain.ReportID) (*audit.AuditReport, error) {
	query := `
		SELECT id, session_id, overall_score, pass, alerts, alerts_count,
		       integrity_score, structural_score, relevance_score, crosscheck_score,
		       total_deals, created_at
		FROM audit_reports
		WHERE id = $1
	`
	report, err := scanReport(s.pool.QueryRow(ctx, query, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get audit report: %w", err)
	}
	return report, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]audit.AuditReport, error) {
	query := `
		SELECT id, session_id, overall_score, pass, alerts, alerts_count,
		       integrity_score, structural_score, relevance_score, crosscheck_score,
		       total_deals, created_at
		FROM audit_reports
		ORDER BY created_at DESC, id
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit reports: %w", err)
	}
	defer rows.Close()

	var reports []audit.AuditReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit report: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit reports: %w", err)
	}
	return reports, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*audit.AuditReport, error) {
	var (
		report    audit.AuditReport
		id        uuid.UUID
		sessionID uuid.UUID
		alertsRaw []byte
	)
	err := row.Scan(
		&id,
		&sessionID,
		&report.OverallScore,
		&report.Pass,
		&alertsRaw,
		&report.AlertsCount,
		&report.IntegrityScore,
		&report.StructuralScore,
		&report.RelevanceScore,
		&report.CrosscheckScore,
		&report.TotalDeals,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	report.ID = domain.ReportID(id)
	report.SessionID = domain.SessionID(sessionID)
	if err := json.Unmarshal(alertsRaw, &report.Alerts); err != nil {
		return nil, fmt.Errorf("unmarshal alerts: %w", err)
	}
	return &report, nil
}
