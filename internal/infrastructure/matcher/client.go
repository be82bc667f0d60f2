package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zone-recommender/internal/config"
	"github.com/zone-recommender/internal/domain/repository"
	"go.uber.org/zap"
)

// ErrRateLimited signals an HTTP 429 from the matching service. Callers back
// off and retry once before falling back to the keyword heuristic.
var ErrRateLimited = errors.New("matcher: rate limited")

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewMatcherClient creates a client for the external semantic-matching
// service.
func NewMatcherClient(cfg *config.MatcherConfig, logger *zap.Logger) repository.MatcherRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

type matchRequest struct {
	QueryTags     []string `json:"query_tags"`
	CandidateTags []string `json:"candidate_tags"`
}

type matchResponse struct {
	MatchStrength float64 `json:"match_strength"`
}

// Match returns the semantic match strength between two tag sets, in [0,1].
func (c *client) Match(ctx context.Context, queryTags, candidateTags []string) (float64, error) {
	if len(queryTags) == 0 {
		return 0, fmt.Errorf("query tags cannot be empty")
	}

	payload, err := json.Marshal(matchRequest{
		QueryTags:     queryTags,
		CandidateTags: candidateTags,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal match request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/match", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("Matcher rate limit hit")
		return 0, ErrRateLimited
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Matcher API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return 0, fmt.Errorf("matcher API error: status %d", resp.StatusCode)
	}

	var matchResp matchResponse
	if err := json.NewDecoder(resp.Body).Decode(&matchResp); err != nil {
		c.logger.Error("Failed to decode matcher response", zap.Error(err))
		return 0, fmt.Errorf("decode matcher response: %w", err)
	}

	strength := matchResp.MatchStrength
	if strength < 0 || strength > 1 {
		return 0, fmt.Errorf("matcher returned strength out of range: %f", strength)
	}

	return strength, nil
}
