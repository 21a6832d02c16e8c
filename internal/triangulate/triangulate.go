// Package triangulate implements the field triangulation unit: it compares a
// scraped listing against the corroborating county record for the same
// address and produces a per-listing confidence verdict.
//
// The unit is pure. It performs no I/O, holds no state, and is deterministic:
// running it twice on identical inputs yields identical results. Fields the
// county record does not carry are excluded from scoring entirely; absence
// of corroboration is not disagreement.
package triangulate

import "dealaudit/internal/listing"

// Discrepancy holds both sides of a disagreeing field. SourceA is the
// scraped value, SourceB the corroborating one.
type Discrepancy struct {
	SourceA string `json:"source_a"`
	SourceB string `json:"source_b"`
}

// DataIntegrity is the triangulation verdict for one listing. Every
// comparable field appears in exactly one of VerifiedMatches or
// Discrepancies, never both, never neither.
type DataIntegrity struct {
	ConfidenceScore int                    `json:"confidence_score"`
	VerifiedMatches map[string]string      `json:"verified_matches"`
	Discrepancies   map[string]Discrepancy `json:"discrepancies"`
}

// fieldResult is the outcome of one comparator run.
type fieldResult struct {
	field   string
	matched bool
	agreed  string // corroborating rendering, stored on match
	sourceA string
	sourceB string
}

// Triangulate compares every comparable field of the pair and scores the
// listing. The score starts at 100 and loses the configured weight per
// discrepancy, clamped to [0,100]. A nil or empty corroborating record
// yields a clean verdict with no comparable fields.
func Triangulate(l listing.ScrapedListing, rec *listing.CorroboratingRecord, policy Policy) DataIntegrity {
	out := DataIntegrity{
		ConfidenceScore: 100,
		VerifiedMatches: map[string]string{},
		Discrepancies:   map[string]Discrepancy{},
	}
	if rec == nil {
		return out
	}

	for _, res := range compareFields(l, *rec, policy.Tolerances) {
		if res.matched {
			out.VerifiedMatches[res.field] = res.agreed
			continue
		}
		out.Discrepancies[res.field] = Discrepancy{SourceA: res.sourceA, SourceB: res.sourceB}
		out.ConfidenceScore -= policy.Weight(res.field)
	}

	if out.ConfidenceScore < 0 {
		out.ConfidenceScore = 0
	}
	return out
}

// compareFields runs one comparator per field present in both sources.
// Incomparable pairs are dropped, never scored.
func compareFields(l listing.ScrapedListing, rec listing.CorroboratingRecord, tol Tolerances) []fieldResult {
	var results []fieldResult
	add := func(r fieldResult, err error) {
		if err == nil {
			results = append(results, r)
		}
	}

	if l.Address != "" && rec.Address != "" {
		eq, err := textEqual(l.Address, rec.Address)
		add(fieldResult{
			field:   FieldAddress,
			matched: eq,
			agreed:  rec.Address,
			sourceA: l.Address,
			sourceB: rec.Address,
		}, err)
	}

	if price := l.EffectivePrice(); price > 0 && rec.LastSalePrice != nil {
		eq, err := withinAbs(price, *rec.LastSalePrice, tol.PriceAbs)
		add(fieldResult{
			field:   FieldPrice,
			matched: eq,
			agreed:  formatAmount(*rec.LastSalePrice),
			sourceA: formatAmount(price),
			sourceB: formatAmount(*rec.LastSalePrice),
		}, err)
	}

	if l.Sqft != nil && rec.Sqft != nil {
		eq, err := withinPct(float64(*l.Sqft), float64(*rec.Sqft), tol.SqftPct)
		add(fieldResult{
			field:   FieldSqft,
			matched: eq,
			agreed:  formatCount(*rec.Sqft),
			sourceA: formatCount(*l.Sqft),
			sourceB: formatCount(*rec.Sqft),
		}, err)
	}

	if l.Bedrooms != nil && rec.Bedrooms != nil {
		add(fieldResult{
			field:   FieldBedrooms,
			matched: *l.Bedrooms == *rec.Bedrooms,
			agreed:  formatCount(*rec.Bedrooms),
			sourceA: formatCount(*l.Bedrooms),
			sourceB: formatCount(*rec.Bedrooms),
		}, nil)
	}

	if l.Bathrooms != nil && rec.Bathrooms != nil {
		eq, err := withinAbs(*l.Bathrooms, *rec.Bathrooms, tol.BathroomsAbs)
		add(fieldResult{
			field:   FieldBathrooms,
			matched: eq,
			agreed:  formatAmount(*rec.Bathrooms),
			sourceA: formatAmount(*l.Bathrooms),
			sourceB: formatAmount(*rec.Bathrooms),
		}, err)
	}

	if l.YearBuilt != nil && rec.YearBuilt != nil {
		add(fieldResult{
			field:   FieldYearBuilt,
			matched: *l.YearBuilt == *rec.YearBuilt,
			agreed:  formatCount(*rec.YearBuilt),
			sourceA: formatCount(*l.YearBuilt),
			sourceB: formatCount(*rec.YearBuilt),
		}, nil)
	}

	if l.LotSizeSqft != nil && rec.LotSizeSqft != nil {
		eq, err := withinPct(float64(*l.LotSizeSqft), float64(*rec.LotSizeSqft), tol.LotSizePct)
		add(fieldResult{
			field:   FieldLotSize,
			matched: eq,
			agreed:  formatCount(*rec.LotSizeSqft),
			sourceA: formatCount(*l.LotSizeSqft),
			sourceB: formatCount(*rec.LotSizeSqft),
		}, err)
	}

	return results
}
