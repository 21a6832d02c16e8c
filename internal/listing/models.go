// Package listing defines the scraped-deal domain model: raw scraper output,
// the corroborating county record resolved for the same address, and the
// search criteria envelope a scrape session was run with.
package listing

import "strings"

// PropertyType enumerates the property categories the marketplace accepts.
type PropertyType string

const (
	PropertySingleFamily PropertyType = "single_family"
	PropertyMultiFamily  PropertyType = "multi_family"
	PropertyCondo        PropertyType = "condo"
	PropertyTownhouse    PropertyType = "townhouse"
	PropertyCommercial   PropertyType = "commercial"
	PropertyLand         PropertyType = "land"
	PropertyMobileHome   PropertyType = "mobile_home"
	PropertyOther        PropertyType = "other"
)

// IsValid checks if the property type is one of the supported enum values.
func (p PropertyType) IsValid() bool {
	switch p {
	case PropertySingleFamily, PropertyMultiFamily, PropertyCondo, PropertyTownhouse,
		PropertyCommercial, PropertyLand, PropertyMobileHome, PropertyOther:
		return true
	}
	return false
}

// DealType enumerates the acquisition strategies a deal is listed under.
type DealType string

const (
	DealFixAndFlip    DealType = "fix_and_flip"
	DealBuyAndHold    DealType = "buy_and_hold"
	DealWholesale     DealType = "wholesale"
	DealSubjectTo     DealType = "subject_to"
	DealSellerFinance DealType = "seller_finance"
	DealOther         DealType = "other"
)

// IsValid checks if the deal type is one of the supported enum values.
func (d DealType) IsValid() bool {
	switch d {
	case DealFixAndFlip, DealBuyAndHold, DealWholesale, DealSubjectTo, DealSellerFinance, DealOther:
		return true
	}
	return false
}

// Condition enumerates property condition grades.
type Condition string

const (
	ConditionExcellent  Condition = "excellent"
	ConditionGood       Condition = "good"
	ConditionFair       Condition = "fair"
	ConditionPoor       Condition = "poor"
	ConditionDistressed Condition = "distressed"
)

// IsValid checks if the condition is one of the supported enum values.
func (c Condition) IsValid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor, ConditionDistressed:
		return true
	}
	return false
}

// ScrapedListing is the raw field set extracted from a source posting.
// Immutable once captured; optional numeric fields are pointers so "the
// scraper found nothing" is distinguishable from a legitimate zero.
type ScrapedListing struct {
	Title            string       `json:"title"`
	Address          string       `json:"address"`
	City             string       `json:"city"`
	State            string       `json:"state"`
	ZipCode          string       `json:"zip_code"`
	PropertyType     PropertyType `json:"property_type"`
	DealType         DealType     `json:"deal_type"`
	Condition        Condition    `json:"condition"`
	Price            float64      `json:"price"`
	AskingPrice      float64      `json:"asking_price,omitempty"`
	ARV              float64      `json:"arv,omitempty"`
	RepairEstimate   float64      `json:"repair_estimate,omitempty"`
	EquityPercentage *float64     `json:"equity_percentage,omitempty"`
	Bedrooms         *int         `json:"bedrooms,omitempty"`
	Bathrooms        *float64     `json:"bathrooms,omitempty"`
	Sqft             *int         `json:"sqft,omitempty"`
	LotSizeSqft      *int         `json:"lot_size_sqft,omitempty"`
	YearBuilt        *int         `json:"year_built,omitempty"`
	Description      string       `json:"description,omitempty"`
	SourceURL        string       `json:"source_url,omitempty"`
}

// EffectivePrice prefers the asking price over the raw scraped price, which
// some sources only publish as an estimate.
func (l ScrapedListing) EffectivePrice() float64 {
	if l.AskingPrice > 0 {
		return l.AskingPrice
	}
	return l.Price
}

// CorroboratingRecord is the same field set as resolved from an independent
// authoritative source (county assessor / parcel records). Lookups routinely
// come back partial, so every field beyond the address is optional.
type CorroboratingRecord struct {
	Address       string   `json:"address"`
	Owner         string   `json:"owner,omitempty"`
	AssessedValue *float64 `json:"assessed_value,omitempty"`
	LastSalePrice *float64 `json:"last_sale_price,omitempty"`
	Sqft          *int     `json:"sqft,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	YearBuilt     *int     `json:"year_built,omitempty"`
	LotSizeSqft   *int     `json:"lot_size_sqft,omitempty"`
	Zoning        string   `json:"zoning,omitempty"`
}

// SearchCriteria is the envelope a scrape session was run with. Zero values
// mean the constraint is unset.
type SearchCriteria struct {
	MaxPrice       float64  `json:"max_price,omitempty"`
	MinBedrooms    int      `json:"min_bedrooms,omitempty"`
	TargetStates   []string `json:"target_states,omitempty"`
	TargetCities   []string `json:"target_cities,omitempty"`
	TargetZipCodes []string `json:"target_zip_codes,omitempty"`
}

// Matches reports whether a listing falls inside the criteria envelope.
// Listings outside the envelope are scraper noise, not bad data.
func (c SearchCriteria) Matches(l ScrapedListing) bool {
	if c.MaxPrice > 0 && l.EffectivePrice() > c.MaxPrice {
		return false
	}
	if c.MinBedrooms > 0 && (l.Bedrooms == nil || *l.Bedrooms < c.MinBedrooms) {
		return false
	}
	if len(c.TargetStates) > 0 && !containsFold(c.TargetStates, l.State) {
		return false
	}
	if len(c.TargetCities) > 0 && !containsFold(c.TargetCities, l.City) {
		return false
	}
	if len(c.TargetZipCodes) > 0 && !containsFold(c.TargetZipCodes, l.ZipCode) {
		return false
	}
	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}
