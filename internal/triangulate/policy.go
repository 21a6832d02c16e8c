package triangulate

// Field names shared by the triangulation unit, the weight table, and the
// aggregator's crosscheck pass.
const (
	FieldAddress   = "address"
	FieldPrice     = "price"
	FieldSqft      = "sqft"
	FieldBedrooms  = "bedrooms"
	FieldBathrooms = "bathrooms"
	FieldYearBuilt = "year_built"
	FieldLotSize   = "lot_size_sqft"
)

// Tolerances defines how far two values may drift before a field counts as a
// discrepancy. Each field type owns exactly one comparator; these knobs feed
// them.
type Tolerances struct {
	// PriceAbs is an absolute dollar tolerance (county sale records lag
	// listings by a few recording fees).
	PriceAbs float64 `yaml:"price_abs" json:"price_abs"`
	// SqftPct and LotSizePct are relative tolerances, as assessor
	// measurements routinely differ from listing measurements by a few
	// percent.
	SqftPct    float64 `yaml:"sqft_pct" json:"sqft_pct"`
	LotSizePct float64 `yaml:"lot_size_pct" json:"lot_size_pct"`
	// BathroomsAbs absorbs half-bath counting differences.
	BathroomsAbs float64 `yaml:"bathrooms_abs" json:"bathrooms_abs"`
}

// Policy is the triangulation unit's configuration: comparison tolerances and
// the per-field deduction weights. Both are business policy, not algorithmic
// constants, so they load from the policy file rather than living here.
type Policy struct {
	Tolerances Tolerances     `yaml:"tolerances" json:"tolerances"`
	Weights    map[string]int `yaml:"weights" json:"weights"`
}

// DefaultPolicy returns the stock tolerance and weight tables. Price and the
// ARV-driving comps inputs carry the heaviest deductions.
func DefaultPolicy() Policy {
	return Policy{
		Tolerances: Tolerances{
			PriceAbs:     500,
			SqftPct:      0.05,
			LotSizePct:   0.10,
			BathroomsAbs: 0.5,
		},
		Weights: map[string]int{
			FieldPrice:     20,
			FieldAddress:   15,
			FieldSqft:      15,
			FieldBedrooms:  10,
			FieldBathrooms: 5,
			FieldYearBuilt: 5,
			FieldLotSize:   5,
		},
	}
}

// Weight returns the deduction for a field, zero when unconfigured.
func (p Policy) Weight(field string) int {
	return p.Weights[field]
}
