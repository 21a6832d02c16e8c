// Package audit implements the session audit aggregator: it reduces a scrape
// session's per-listing triangulation results plus structural and relevance
// checks into one immutable audit report with severity-graded alerts and a
// pass/fail verdict.
package audit

import (
	"fmt"
	"time"

	"dealaudit/internal/listing"
	"dealaudit/internal/triangulate"
	"dealaudit/pkg/domain"
)

// Severity grades an alert. Critical alerts are disqualifying: a session with
// any critical alert fails regardless of its overall score.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// IsValid checks if the severity is one of the supported enum values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Alert is one rule-evaluation outcome. Immutable once created; it belongs to
// exactly one report.
type Alert struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Session is one batch run of the external scraper, audited together.
type Session struct {
	ID       domain.SessionID
	Criteria listing.SearchCriteria
	Listings []listing.ScrapedListing
}

// AuditReport is the per-session verdict. Reports are append-only audit-trail
// rows: corrections produce a new report, never an edit.
type AuditReport struct {
	ID              domain.ReportID  `json:"id"`
	SessionID       domain.SessionID `json:"session_id"`
	OverallScore    int              `json:"overall_score"`
	Pass            bool             `json:"pass"`
	Alerts          []Alert          `json:"alerts"`
	AlertsCount     int              `json:"alerts_count"`
	IntegrityScore  int              `json:"integrity_score"`
	StructuralScore int              `json:"structural_score"`
	RelevanceScore  int              `json:"relevance_score"`
	CrosscheckScore int              `json:"crosscheck_score"`
	TotalDeals      int              `json:"total_deals"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ListingVerdict pairs a listing with its triangulation result for the
// listing-detail display and the promotion gate.
type ListingVerdict struct {
	Listing   listing.ScrapedListing    `json:"listing"`
	Integrity triangulate.DataIntegrity `json:"integrity"`
}

// SessionResult is what a full audit run returns: the persisted report plus
// the per-listing detail that stays with the deal records.
type SessionResult struct {
	Report   *AuditReport     `json:"report"`
	Verdicts []ListingVerdict `json:"verdicts"`
}

// InvalidSessionError signals malformed aggregator input. The session
// produces no report; the caller must surface this as a hard failure, never
// as a report with an artificially low score.
type InvalidSessionError struct {
	Reason string
}

func (e *InvalidSessionError) Error() string {
	return fmt.Sprintf("invalid session: %s", e.Reason)
}
