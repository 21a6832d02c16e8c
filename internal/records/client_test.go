package records

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parcelServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/parcels/address", r.URL.Path)
		assert.Equal(t, "sesame", r.URL.Query().Get("token"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLookupMapsParcelFields(t *testing.T) {
	body := `{
		"parcels": {
			"features": [{
				"properties": {
					"fields": {
						"address": "412 S QUEBEC AVE",
						"owner": "SMITH FAMILY TRUST",
						"parval": 142000,
						"sale_price": "$165,000",
						"area_building": 1410,
						"sqft": 1800,
						"beds": 3,
						"baths": 2,
						"year_built": 1952,
						"ll_gissqft": 7200,
						"zoning_description": "Residential Single-Family",
						"zoning": "RS-3"
					}
				}
			}]
		}
	}`
	srv := parcelServer(t, http.StatusOK, body)
	client := NewClient(srv.URL, "sesame")

	rec, err := client.Lookup(context.Background(), "412 S Quebec Ave, Tulsa, OK")
	require.NoError(t, err)

	assert.Equal(t, "412 S QUEBEC AVE", rec.Address)
	assert.Equal(t, "SMITH FAMILY TRUST", rec.Owner)
	require.NotNil(t, rec.AssessedValue)
	assert.Equal(t, 142000.0, *rec.AssessedValue)
	require.NotNil(t, rec.LastSalePrice)
	assert.Equal(t, 165000.0, *rec.LastSalePrice, "formatted dollar strings must parse")
	require.NotNil(t, rec.Sqft)
	assert.Equal(t, 1410, *rec.Sqft, "habitable area takes precedence over raw sqft")
	require.NotNil(t, rec.Bedrooms)
	assert.Equal(t, 3, *rec.Bedrooms)
	require.NotNil(t, rec.LotSizeSqft)
	assert.Equal(t, 7200, *rec.LotSizeSqft)
	assert.Equal(t, "Residential Single-Family", rec.Zoning)
}

func TestClientLookupFallbacks(t *testing.T) {
	body := `{
		"parcels": {
			"features": [{
				"properties": {
					"fields": {
						"sqft": 1800,
						"zoning": "RS-3"
					}
				}
			}]
		}
	}`
	srv := parcelServer(t, http.StatusOK, body)
	client := NewClient(srv.URL, "sesame")

	rec, err := client.Lookup(context.Background(), "412 S Quebec Ave, Tulsa, OK")
	require.NoError(t, err)

	assert.Equal(t, "412 S Quebec Ave, Tulsa, OK", rec.Address, "queried address backfills a blank parcel address")
	require.NotNil(t, rec.Sqft)
	assert.Equal(t, 1800, *rec.Sqft)
	assert.Equal(t, "RS-3", rec.Zoning)
	assert.Nil(t, rec.AssessedValue)
	assert.Nil(t, rec.Bedrooms)
}

func TestClientLookupNoMatch(t *testing.T) {
	t.Run("404 response", func(t *testing.T) {
		srv := parcelServer(t, http.StatusNotFound, "")
		client := NewClient(srv.URL, "sesame")

		_, err := client.Lookup(context.Background(), "1 Nowhere Ln")
		assert.ErrorIs(t, err, ErrNoRecord)
	})

	t.Run("empty feature list", func(t *testing.T) {
		srv := parcelServer(t, http.StatusOK, `{"parcels":{"features":[]}}`)
		client := NewClient(srv.URL, "sesame")

		_, err := client.Lookup(context.Background(), "1 Nowhere Ln")
		assert.ErrorIs(t, err, ErrNoRecord)
	})
}

func TestClientLookupUpstreamError(t *testing.T) {
	srv := parcelServer(t, http.StatusInternalServerError, "")
	client := NewClient(srv.URL, "sesame")

	_, err := client.Lookup(context.Background(), "412 S Quebec Ave")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoRecord)
}
