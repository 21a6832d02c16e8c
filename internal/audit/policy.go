package audit

import "dealaudit/internal/triangulate"

// ScoreWeights blends the four sub-scores into the overall score. The
// relative importance of structural completeness vs. financial crosscheck
// accuracy is business policy, so the weights load from configuration and
// must sum to 1.
type ScoreWeights struct {
	Integrity  float64 `yaml:"integrity" json:"integrity"`
	Structural float64 `yaml:"structural" json:"structural"`
	Relevance  float64 `yaml:"relevance" json:"relevance"`
	Crosscheck float64 `yaml:"crosscheck" json:"crosscheck"`
}

// Sum returns the total weight, used by configuration validation.
func (w ScoreWeights) Sum() float64 {
	return w.Integrity + w.Structural + w.Relevance + w.Crosscheck
}

// Thresholds are the alert and pass/fail cut lines, all on the 0-100 scale.
type Thresholds struct {
	// Pass is the minimum overall score for a passing verdict.
	Pass int `yaml:"pass" json:"pass"`
	// Critical fires a disqualifying alert when the overall score drops
	// under it.
	Critical int `yaml:"critical" json:"critical"`
	// ListingFloor fires one warning per listing whose confidence drops
	// under it.
	ListingFloor int `yaml:"listing_floor" json:"listing_floor"`
	// RelevanceFloor fires a warning when the relevance sub-score drops
	// under it (scraper query too broad).
	RelevanceFloor int `yaml:"relevance_floor" json:"relevance_floor"`
}

// Policy is the aggregator's configuration surface.
type Policy struct {
	Weights    ScoreWeights `yaml:"weights" json:"weights"`
	Thresholds Thresholds   `yaml:"thresholds" json:"thresholds"`
	// HighValueFields is the crosscheck subset: the fields that most affect
	// deal-quality decisions.
	HighValueFields []string `yaml:"high_value_fields" json:"high_value_fields"`
}

// DefaultPolicy returns the stock aggregation policy.
func DefaultPolicy() Policy {
	return Policy{
		Weights: ScoreWeights{
			Integrity:  0.30,
			Structural: 0.25,
			Relevance:  0.20,
			Crosscheck: 0.25,
		},
		Thresholds: Thresholds{
			Pass:           60,
			Critical:       40,
			ListingFloor:   50,
			RelevanceFloor: 60,
		},
		HighValueFields: []string{triangulate.FieldPrice, triangulate.FieldSqft},
	}
}
