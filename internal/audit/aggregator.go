package audit

import (
	"fmt"
	"math"
	"time"

	"dealaudit/internal/listing"
	"dealaudit/internal/triangulate"
)

// Aggregate reduces one session's triangulation results into an audit report.
// It is a pure function: no I/O, no randomness. The returned report has no ID
// assigned; minting the ID is the caller's job so aggregation stays
// deterministic.
//
// The only failure mode is malformed input, signaled as *InvalidSessionError.
// A session that cannot be scored produces no report at all.
func Aggregate(session Session, integrities []triangulate.DataIntegrity, scoring triangulate.Policy, policy Policy, now time.Time) (*AuditReport, error) {
	if session.ID.IsNil() {
		return nil, &InvalidSessionError{Reason: "missing session id"}
	}
	if len(integrities) != len(session.Listings) {
		return nil, &InvalidSessionError{
			Reason: fmt.Sprintf("%d triangulation results for %d listings", len(integrities), len(session.Listings)),
		}
	}

	integrity := integrityScore(integrities)
	structural := structuralScore(session.Listings)
	relevance := relevanceScore(session.Listings, session.Criteria)
	crosscheck := crosscheckScore(integrities, scoring, policy.HighValueFields)

	overall := int(math.Round(
		float64(integrity)*policy.Weights.Integrity +
			float64(structural)*policy.Weights.Structural +
			float64(relevance)*policy.Weights.Relevance +
			float64(crosscheck)*policy.Weights.Crosscheck,
	))

	alerts := buildAlerts(session, integrities, overall, relevance, policy.Thresholds)

	criticalCount := 0
	for _, a := range alerts {
		if a.Severity == SeverityCritical {
			criticalCount++
		}
	}

	return &AuditReport{
		SessionID:       session.ID,
		OverallScore:    overall,
		Pass:            overall >= policy.Thresholds.Pass && criticalCount == 0,
		Alerts:          alerts,
		AlertsCount:     len(alerts),
		IntegrityScore:  integrity,
		StructuralScore: structural,
		RelevanceScore:  relevance,
		CrosscheckScore: crosscheck,
		TotalDeals:      len(session.Listings),
		CreatedAt:       now,
	}, nil
}

// integrityScore is the mean per-listing confidence. An empty session scores
// 0 by definition, not by divide-by-zero.
func integrityScore(integrities []triangulate.DataIntegrity) int {
	if len(integrities) == 0 {
		return 0
	}
	sum := 0
	for _, di := range integrities {
		sum += di.ConfidenceScore
	}
	return int(math.Round(float64(sum) / float64(len(integrities))))
}

// structuralScore is the fraction of listings whose required field set is
// populated and well-typed, scaled to 0-100.
func structuralScore(listings []listing.ScrapedListing) int {
	if len(listings) == 0 {
		return 100
	}
	valid := 0
	for _, l := range listings {
		if structurallyValid(l) {
			valid++
		}
	}
	return int(math.Round(float64(valid) / float64(len(listings)) * 100))
}

// structurallyValid enforces the required-field minimum: address, a positive
// finite price, and a recognized property type.
func structurallyValid(l listing.ScrapedListing) bool {
	if l.Address == "" {
		return false
	}
	price := l.EffectivePrice()
	if !(price > 0) || math.IsInf(price, 0) {
		return false
	}
	return l.PropertyType.IsValid()
}

// relevanceScore is the fraction of listings inside the session's search
// criteria envelope, scaled to 0-100. Low relevance means the scraper let
// noise through, not that the data is wrong.
func relevanceScore(listings []listing.ScrapedListing, criteria listing.SearchCriteria) int {
	if len(listings) == 0 {
		return 100
	}
	relevant := 0
	for _, l := range listings {
		if criteria.Matches(l) {
			relevant++
		}
	}
	return int(math.Round(float64(relevant) / float64(len(listings)) * 100))
}

// crosscheckScore is the integrity mean restricted to the high-value fields:
// each listing is rescored counting only discrepancies on those fields, which
// isolates the signals that most affect deal-quality decisions.
func crosscheckScore(integrities []triangulate.DataIntegrity, scoring triangulate.Policy, highValue []string) int {
	if len(integrities) == 0 {
		return 0
	}
	sum := 0
	for _, di := range integrities {
		score := 100
		for _, field := range highValue {
			if _, ok := di.Discrepancies[field]; ok {
				score -= scoring.Weight(field)
			}
		}
		if score < 0 {
			score = 0
		}
		sum += score
	}
	return int(math.Round(float64(sum) / float64(len(integrities))))
}

// buildAlerts evaluates the alert rules once per session, each appending zero
// or one alert (the per-listing floor rule appends at most one per listing).
// Order is deterministic: critical, per-listing warnings in listing order,
// relevance warning, empty-session info.
func buildAlerts(session Session, integrities []triangulate.DataIntegrity, overall, relevance int, t Thresholds) []Alert {
	alerts := []Alert{}

	// The critical rule is suppressed for empty sessions: "nothing found" is
	// an info condition, not a disqualifying defect.
	if len(session.Listings) > 0 && overall < t.Critical {
		alerts = append(alerts, Alert{
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("overall audit score %d is below the critical threshold %d; session requires manual review", overall, t.Critical),
		})
	}

	for i, di := range integrities {
		if di.ConfidenceScore < t.ListingFloor {
			alerts = append(alerts, Alert{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("listing %q confidence %d is below the per-listing floor %d", listingLabel(session.Listings[i], i), di.ConfidenceScore, t.ListingFloor),
			})
		}
	}

	if len(session.Listings) > 0 && relevance < t.RelevanceFloor {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("relevance score %d is below %d; scraper query may be too broad", relevance, t.RelevanceFloor),
		})
	}

	if len(session.Listings) == 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityInfo,
			Message:  "session completed with zero listings; nothing to audit",
		})
	}

	return alerts
}

func listingLabel(l listing.ScrapedListing, index int) string {
	if l.Title != "" {
		return l.Title
	}
	if l.Address != "" {
		return l.Address
	}
	return fmt.Sprintf("listing #%d", index+1)
}
