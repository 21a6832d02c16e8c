package records

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"dealaudit/internal/listing"
)

// Client queries the parcel-records API by address. The upstream keys
// everything on a free-text address query and returns zero or more matched
// parcels; the first match wins.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient constructs a parcel-records client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// parcelResponse mirrors the upstream V2 address-search payload shape.
type parcelResponse struct {
	Parcels struct {
		Features []struct {
			Properties struct {
				Fields parcelFields `json:"fields"`
			} `json:"properties"`
		} `json:"features"`
	} `json:"parcels"`
}

// parcelFields carries the county field set. County feeds are messy: dollar
// amounts arrive as numbers or as formatted strings, so the amount fields go
// through looseAmount.
type parcelFields struct {
	Address       string       `json:"address"`
	Owner         string       `json:"owner"`
	Parval        *looseAmount `json:"parval"`
	SalePrice     *looseAmount `json:"sale_price"`
	AreaBuilding  *float64     `json:"area_building"`
	Sqft          *float64     `json:"sqft"`
	Beds          *int         `json:"beds"`
	Baths         *float64     `json:"baths"`
	YearBuilt     *int         `json:"year_built"`
	LotSqft       *float64     `json:"ll_gissqft"`
	ZoningDesc    string       `json:"zoning_description"`
	Zoning        string       `json:"zoning"`
}

// looseAmount unmarshals a dollar amount that may be a JSON number or a
// formatted string like "$165,000".
type looseAmount float64

func (a *looseAmount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = looseAmount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount is neither number nor string: %s", data)
	}
	v, err := listing.ParseAmount(s)
	if err != nil {
		return err
	}
	*a = looseAmount(v)
	return nil
}

// Lookup fetches the corroborating record for an address. A clean "no parcel
// matched" response maps to ErrNoRecord.
func (c *Client) Lookup(ctx context.Context, address string) (*listing.CorroboratingRecord, error) {
	endpoint := fmt.Sprintf("%s/parcels/address?query=%s&token=%s",
		c.baseURL, url.QueryEscape(address), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build parcel request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parcel lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoRecord
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parcel lookup: unexpected status %d", resp.StatusCode)
	}

	var payload parcelResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode parcel response: %w", err)
	}
	if len(payload.Parcels.Features) == 0 {
		return nil, ErrNoRecord
	}

	return toRecord(address, payload.Parcels.Features[0].Properties.Fields), nil
}

func toRecord(queried string, f parcelFields) *listing.CorroboratingRecord {
	rec := &listing.CorroboratingRecord{
		Address: f.Address,
		Owner:   f.Owner,
	}
	if rec.Address == "" {
		rec.Address = queried
	}
	if f.Parval != nil {
		v := float64(*f.Parval)
		rec.AssessedValue = &v
	}
	if f.SalePrice != nil {
		v := float64(*f.SalePrice)
		rec.LastSalePrice = &v
	}
	// area_building is the habitable area; plain sqft is the fallback.
	if f.AreaBuilding != nil {
		v := int(*f.AreaBuilding)
		rec.Sqft = &v
	} else if f.Sqft != nil {
		v := int(*f.Sqft)
		rec.Sqft = &v
	}
	rec.Bedrooms = f.Beds
	rec.Bathrooms = f.Baths
	rec.YearBuilt = f.YearBuilt
	if f.LotSqft != nil {
		v := int(*f.LotSqft)
		rec.LotSizeSqft = &v
	}
	rec.Zoning = f.ZoningDesc
	if rec.Zoning == "" {
		rec.Zoning = f.Zoning
	}
	return rec
}
