package handler

import (
	"dealaudit/internal/audit"
	"dealaudit/internal/listing"
	"dealaudit/pkg/domain"
	dErrors "dealaudit/pkg/domain-errors"
)

// RunSessionRequest is the wire form of a completed scrape session. Enum
// fields arrive as the scraper's raw labels and are normalized here; labels
// that fail to normalize stay raw and are caught by the structural check.
type RunSessionRequest struct {
	SessionID string                  `json:"session_id"`
	Criteria  CriteriaPayload         `json:"criteria"`
	Listings  []ScrapedListingPayload `json:"listings"`
}

type CriteriaPayload struct {
	MaxPrice       float64  `json:"max_price,omitempty"`
	MinBedrooms    int      `json:"min_bedrooms,omitempty"`
	TargetStates   []string `json:"target_states,omitempty"`
	TargetCities   []string `json:"target_cities,omitempty"`
	TargetZipCodes []string `json:"target_zip_codes,omitempty"`
}

type ScrapedListingPayload struct {
	Title            string   `json:"title"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	ZipCode          string   `json:"zip_code"`
	PropertyType     string   `json:"property_type"`
	DealType         string   `json:"deal_type"`
	Condition        string   `json:"condition"`
	Price            float64  `json:"price"`
	AskingPrice      float64  `json:"asking_price,omitempty"`
	ARV              float64  `json:"arv,omitempty"`
	RepairEstimate   float64  `json:"repair_estimate,omitempty"`
	EquityPercentage *float64 `json:"equity_percentage,omitempty"`
	Bedrooms         *int     `json:"bedrooms,omitempty"`
	Bathrooms        *float64 `json:"bathrooms,omitempty"`
	Sqft             *int     `json:"sqft,omitempty"`
	LotSizeSqft      *int     `json:"lot_size_sqft,omitempty"`
	YearBuilt        *int     `json:"year_built,omitempty"`
	Description      string   `json:"description,omitempty"`
	SourceURL        string   `json:"source_url,omitempty"`
}

// ToDomain validates and converts the request into an audit session.
func (r RunSessionRequest) ToDomain() (audit.Session, error) {
	sessionID, err := domain.ParseSessionID(r.SessionID)
	if err != nil {
		return audit.Session{}, dErrors.Wrap(dErrors.CodeInvalidInput, "invalid session_id", err)
	}

	listings := make([]listing.ScrapedListing, len(r.Listings))
	for i, p := range r.Listings {
		listings[i] = p.toDomain()
	}

	return audit.Session{
		ID: sessionID,
		Criteria: listing.SearchCriteria{
			MaxPrice:       r.Criteria.MaxPrice,
			MinBedrooms:    r.Criteria.MinBedrooms,
			TargetStates:   r.Criteria.TargetStates,
			TargetCities:   r.Criteria.TargetCities,
			TargetZipCodes: r.Criteria.TargetZipCodes,
		},
		Listings: listings,
	}, nil
}

func (p ScrapedListingPayload) toDomain() listing.ScrapedListing {
	propertyType, _ := listing.NormalizePropertyType(p.PropertyType)
	dealType, _ := listing.NormalizeDealType(p.DealType)
	condition, _ := listing.NormalizeCondition(p.Condition)

	return listing.ScrapedListing{
		Title:            p.Title,
		Address:          p.Address,
		City:             p.City,
		State:            p.State,
		ZipCode:          p.ZipCode,
		PropertyType:     propertyType,
		DealType:         dealType,
		Condition:        condition,
		Price:            p.Price,
		AskingPrice:      p.AskingPrice,
		ARV:              p.ARV,
		RepairEstimate:   p.RepairEstimate,
		EquityPercentage: p.EquityPercentage,
		Bedrooms:         p.Bedrooms,
		Bathrooms:        p.Bathrooms,
		Sqft:             p.Sqft,
		LotSizeSqft:      p.LotSizeSqft,
		YearBuilt:        p.YearBuilt,
		Description:      p.Description,
		SourceURL:        p.SourceURL,
	}
}
