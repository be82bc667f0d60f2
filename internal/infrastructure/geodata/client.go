package geodata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/zone-recommender/internal/config"
	"github.com/zone-recommender/internal/domain"
	"github.com/zone-recommender/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient    *http.Client
	candidatesURL string
	placesURL     string
	placesAPIKey  string
	logger        *zap.Logger
}

// NewGeodataClient creates a client for the external geodata sources used
// during live catalog generation: an ArcGIS FeatureServer query endpoint for
// candidate points and a places nearby-search endpoint for venues.
func NewGeodataClient(cfg *config.GeodataConfig, logger *zap.Logger) repository.GeodataRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		candidatesURL: cfg.CandidatesURL,
		placesURL:     cfg.PlacesURL,
		placesAPIKey:  cfg.PlacesAPIKey,
		logger:        logger,
	}
}

// featureResponse mirrors the ArcGIS FeatureServer query payload.
type featureResponse struct {
	Features []struct {
		Attributes struct {
			ObjectID    int64   `json:"OBJECTID"`
			MeterID     string  `json:"METER_ID"`
			FullStreet  string  `json:"FULLSTREET"`
			MetroArea   string  `json:"METROAREA"`
			Rate        string  `json:"RATE"`
			TimeLimit   string  `json:"TIMELIMIT"`
			BlockFaceID *string `json:"BLOCKFACEID"`
		} `json:"attributes"`
		Geometry struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"geometry"`
	} `json:"features"`
}

// CandidatePoints fetches every candidate placement point from the geodata
// source. Records without coordinates are dropped.
func (c *client) CandidatePoints(ctx context.Context) ([]domain.CandidatePoint, error) {
	params := url.Values{}
	params.Set("where", "1=1")
	params.Set("outFields", "*")
	params.Set("f", "json")
	params.Set("returnGeometry", "true")

	reqURL := fmt.Sprintf("%s?%s", c.candidatesURL, params.Encode())

	c.logger.Debug("Fetching candidate points", zap.String("url", c.candidatesURL))

	body, err := c.doGet(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("candidate points request: %w", err)
	}

	var resp featureResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to decode candidate points response", zap.Error(err))
		return nil, fmt.Errorf("decode candidate points: %w", err)
	}

	points := make([]domain.CandidatePoint, 0, len(resp.Features))
	for _, f := range resp.Features {
		if f.Geometry.Y == 0 && f.Geometry.X == 0 {
			continue
		}
		meterID := f.Attributes.MeterID
		if meterID == "" {
			meterID = fmt.Sprintf("%d", f.Attributes.ObjectID)
		}
		points = append(points, domain.CandidatePoint{
			MeterID:   meterID,
			Street:    f.Attributes.FullStreet,
			MetroArea: f.Attributes.MetroArea,
			Lat:       f.Geometry.Y,
			Lon:       f.Geometry.X,
			Rate:      f.Attributes.Rate,
		})
	}

	c.logger.Info("Fetched candidate points", zap.Int("count", len(points)))
	return points, nil
}

// placesResponse mirrors the nearby-search payload.
type placesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string   `json:"place_id"`
		Name     string   `json:"name"`
		Types    []string `json:"types"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// NearbyPOIs returns venues within radiusMeters of the given point.
func (c *client) NearbyPOIs(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.POIVenue, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lon))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	params.Set("key", c.placesAPIKey)

	reqURL := fmt.Sprintf("%s?%s", c.placesURL, params.Encode())

	body, err := c.doGet(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("nearby places request: %w", err)
	}

	var resp placesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to decode places response", zap.Error(err))
		return nil, fmt.Errorf("decode places: %w", err)
	}

	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		c.logger.Warn("Places API returned non-OK status",
			zap.String("status", resp.Status))
		return nil, fmt.Errorf("places API status: %s", resp.Status)
	}

	venues := make([]domain.POIVenue, 0, len(resp.Results))
	for _, p := range resp.Results {
		venues = append(venues, domain.POIVenue{
			PlaceID: p.PlaceID,
			Name:    p.Name,
			Types:   p.Types,
			Lat:     p.Geometry.Location.Lat,
			Lon:     p.Geometry.Location.Lng,
		})
	}

	return venues, nil
}

func (c *client) doGet(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Geodata API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("geodata API error: status %d", resp.StatusCode)
	}

	return body, nil
}
