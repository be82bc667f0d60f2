package geodata_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zone-recommender/internal/config"
	"github.com/zone-recommender/internal/infrastructure/geodata"
)

const featurePayload = `{
	"features": [
		{
			"attributes": {
				"OBJECTID": 1,
				"METER_ID": "M-1001",
				"FULLSTREET": "WILSON BLVD",
				"METROAREA": "Ballston",
				"RATE": "$1.50/hour"
			},
			"geometry": {"x": -77.111, "y": 38.882}
		},
		{
			"attributes": {
				"OBJECTID": 2,
				"METER_ID": "",
				"FULLSTREET": "FAIRFAX DR",
				"METROAREA": "Virginia Square",
				"RATE": "$1.00/hour"
			},
			"geometry": {"x": -77.103, "y": 38.883}
		},
		{
			"attributes": {
				"OBJECTID": 3,
				"METER_ID": "M-BAD",
				"FULLSTREET": "NO GEOMETRY ST",
				"METROAREA": "",
				"RATE": ""
			},
			"geometry": {"x": 0, "y": 0}
		}
	]
}`

const placesPayload = `{
	"status": "OK",
	"results": [
		{
			"place_id": "p-1",
			"name": "Corner Cafe",
			"types": ["cafe", "food"],
			"geometry": {"location": {"lat": 38.882, "lng": -77.111}}
		}
	]
}`

func TestGeodataClient_CandidatePoints(t *testing.T) {
	ctx := context.Background()

	t.Run("parses features and drops records without coordinates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1=1", r.URL.Query().Get("where"))
			assert.Equal(t, "json", r.URL.Query().Get("f"))
			fmt.Fprint(w, featurePayload)
		}))
		defer server.Close()

		c := geodata.NewGeodataClient(&config.GeodataConfig{
			CandidatesURL:  server.URL,
			RequestTimeout: 2,
		}, zap.NewNop())

		points, err := c.CandidatePoints(ctx)
		require.NoError(t, err)
		require.Len(t, points, 2)

		assert.Equal(t, "M-1001", points[0].MeterID)
		assert.Equal(t, "WILSON BLVD", points[0].Street)
		assert.Equal(t, 38.882, points[0].Lat)
		assert.Equal(t, "$1.50/hour", points[0].Rate)

		// Missing meter ID falls back to the object ID.
		assert.Equal(t, "2", points[1].MeterID)
	})

	t.Run("upstream failure is surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := geodata.NewGeodataClient(&config.GeodataConfig{
			CandidatesURL:  server.URL,
			RequestTimeout: 2,
		}, zap.NewNop())

		_, err := c.CandidatePoints(ctx)
		require.Error(t, err)
	})
}

func TestGeodataClient_NearbyPOIs(t *testing.T) {
	ctx := context.Background()

	t.Run("parses venues", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "100", r.URL.Query().Get("radius"))
			assert.Equal(t, "secret", r.URL.Query().Get("key"))
			fmt.Fprint(w, placesPayload)
		}))
		defer server.Close()

		c := geodata.NewGeodataClient(&config.GeodataConfig{
			PlacesURL:      server.URL,
			PlacesAPIKey:   "secret",
			RequestTimeout: 2,
		}, zap.NewNop())

		venues, err := c.NearbyPOIs(ctx, 38.882, -77.111, 100)
		require.NoError(t, err)
		require.Len(t, venues, 1)

		assert.Equal(t, "Corner Cafe", venues[0].Name)
		assert.Contains(t, venues[0].Types, "cafe")
	})

	t.Run("zero results is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
		}))
		defer server.Close()

		c := geodata.NewGeodataClient(&config.GeodataConfig{
			PlacesURL:      server.URL,
			RequestTimeout: 2,
		}, zap.NewNop())

		venues, err := c.NearbyPOIs(ctx, 38.882, -77.111, 100)
		require.NoError(t, err)
		assert.Empty(t, venues)
	})

	t.Run("denied request status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "REQUEST_DENIED", "results": []}`)
		}))
		defer server.Close()

		c := geodata.NewGeodataClient(&config.GeodataConfig{
			PlacesURL:      server.URL,
			RequestTimeout: 2,
		}, zap.NewNop())

		_, err := c.NearbyPOIs(ctx, 38.882, -77.111, 100)
		require.Error(t, err)
	})
}
