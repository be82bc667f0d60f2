package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/zone-recommender/internal/config"
	"github.com/zone-recommender/internal/domain"
	"github.com/zone-recommender/internal/domain/repository"
	"github.com/zone-recommender/internal/infrastructure/matcher"
	"github.com/zone-recommender/internal/pkg/errors"
	"github.com/zone-recommender/internal/pkg/utils"
)

// sessionTracker implements last-request-wins per session: each new scoring
// request bumps the session's generation, and older in-flight requests for
// the same session abort between batches.
type sessionTracker struct {
	mu   sync.Mutex
	gens map[string]uint64
}

func newSessionTracker() *sessionTracker {
	return &sessionTracker{gens: make(map[string]uint64)}
}

func (t *sessionTracker) begin(sessionID string) uint64 {
	if sessionID == "" {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gens[sessionID]++
	return t.gens[sessionID]
}

func (t *sessionTracker) superseded(sessionID string, gen uint64) bool {
	if sessionID == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gens[sessionID] > gen
}

// ScoringUseCase computes per-zone scores for an event query. Audience
// matching goes through the external semantic matcher with a local keyword
// heuristic as fallback; the other three components are computed locally.
type ScoringUseCase struct {
	matcherRepo repository.MatcherRepository
	cacheRepo   repository.CacheRepository
	cfg         *config.Config
	logger      *zap.Logger
	retry       RetryPolicy
	sessions    *sessionTracker
}

// NewScoringUseCase creates a ScoringUseCase.
func NewScoringUseCase(
	matcherRepo repository.MatcherRepository,
	cacheRepo repository.CacheRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *ScoringUseCase {
	return &ScoringUseCase{
		matcherRepo: matcherRepo,
		cacheRepo:   cacheRepo,
		cfg:         cfg,
		logger:      logger,
		retry: RetryPolicy{
			MaxAttempts: cfg.Scoring.RetryAttempts,
			Backoff:     cfg.Scoring.RetryBackoff,
		},
		sessions: newSessionTracker(),
	}
}

// Score scores every zone against the query. Zones are processed in small
// concurrent batches with a pause between batches to stay inside the
// matching service's rate limits. Results for identical queries are served
// from the result cache.
func (uc *ScoringUseCase) Score(
	ctx context.Context,
	query domain.EventQuery,
	zones []domain.Zone,
) ([]domain.ZoneScore, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	eventHash := query.Hash()
	period := query.ResolvedPeriod()
	weekday := eventWeekday(query.Date)

	if cached, err := uc.cacheRepo.GetScores(ctx, eventHash); err == nil && cached != nil {
		uc.logger.Debug("Scoring served from result cache",
			zap.String("event_hash", eventHash),
			zap.Int("zones", len(cached)),
		)
		// The event hash ignores the time period, so the cached pass may
		// have run under a different one. The temporal component is cheap
		// to recompute against this query's period; the expensive audience
		// component is reused as-is.
		return uc.retemporalize(cached, zones, period, weekday), nil
	}

	gen := uc.sessions.begin(query.SessionID)

	scores := make([]domain.ZoneScore, len(zones))

	// matcherHealthy flips off after an exhausted rate-limit retry so the
	// remaining batches skip straight to the heuristic instead of hammering
	// a throttling upstream.
	var matcherHealthy atomic.Bool
	matcherHealthy.Store(true)

	batchSize := uc.cfg.Scoring.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	for start := 0; start < len(zones); start += batchSize {
		if uc.sessions.superseded(query.SessionID, gen) {
			return nil, errors.ErrRequestSuperseded
		}

		end := start + batchSize
		if end > len(zones) {
			end = len(zones)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				scores[i] = uc.scoreZone(ctx, query, zones[i], period, weekday, &matcherHealthy)
			}(i)
		}
		wg.Wait()

		if end < len(zones) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(uc.cfg.Scoring.BatchPause):
			}
		}
	}

	if uc.sessions.superseded(query.SessionID, gen) {
		return nil, errors.ErrRequestSuperseded
	}

	if err := uc.cacheRepo.SetScores(ctx, eventHash, scores, uc.cfg.Cache.ResultCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache scoring result", zap.Error(err))
	}
	return scores, nil
}

// Rerank recomputes only the temporal component of a previously scored query
// for a new time period. Audience, distance and dwell scores are reused, so
// no matching service calls happen. A missing previous result falls back to
// a full scoring pass under the new period.
func (uc *ScoringUseCase) Rerank(
	ctx context.Context,
	query domain.EventQuery,
	newPeriod domain.TimePeriod,
	zones []domain.Zone,
) ([]domain.ZoneScore, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}
	switch newPeriod {
	case domain.PeriodMorning, domain.PeriodLunch, domain.PeriodEvening:
	default:
		return nil, errors.ErrInvalidTimePeriod
	}

	previous, err := uc.cacheRepo.GetScores(ctx, query.Hash())
	if err != nil {
		uc.logger.Warn("Result cache lookup failed during rerank", zap.Error(err))
	}
	if previous == nil {
		query.TimePeriod = newPeriod
		return uc.Score(ctx, query, zones)
	}

	return uc.retemporalize(previous, zones, newPeriod, eventWeekday(query.Date)), nil
}

// retemporalize recomputes the temporal component of previously computed
// scores against a possibly different period, reusing the other components.
// Ranks and risk flags are cleared; callers re-run the assembler.
func (uc *ScoringUseCase) retemporalize(
	previous []domain.ZoneScore,
	zones []domain.Zone,
	period domain.TimePeriod,
	weekday string,
) []domain.ZoneScore {
	byID := make(map[string]domain.Zone, len(zones))
	for _, z := range zones {
		byID[z.ID] = z
	}

	scores := make([]domain.ZoneScore, 0, len(previous))
	for _, s := range previous {
		zone, ok := byID[s.ZoneID]
		if !ok {
			// Zone left the catalog since the original pass.
			continue
		}
		s.TemporalScore, _ = temporalScore(zone, period, weekday)
		s.TotalScore = utils.Round1(s.AudienceMatchScore + s.TemporalScore + s.DistanceScore + s.DwellTimeScore)
		s.Rank = 0
		s.RiskWarning = nil
		s.Reasoning = uc.buildReasoning(zone, s, period)
		scores = append(scores, s)
	}
	return scores
}

// scoreZone computes the four components for one zone. Matcher failures
// degrade to the keyword heuristic rather than failing the request.
func (uc *ScoringUseCase) scoreZone(
	ctx context.Context,
	query domain.EventQuery,
	zone domain.Zone,
	period domain.TimePeriod,
	weekday string,
	matcherHealthy *atomic.Bool,
) domain.ZoneScore {
	audience, audienceSrc := uc.audienceScore(ctx, query, zone, matcherHealthy)
	temporal, temporalDetail := temporalScore(zone, period, weekday)
	distanceMiles := utils.HaversineMiles(query.VenueLat, query.VenueLon, zone.Lat, zone.Lon)
	distance := uc.distanceScore(distanceMiles)
	dwell := uc.dwellScore(zone.DwellTimeSeconds)

	score := domain.ZoneScore{
		ZoneID:             zone.ID,
		AudienceMatchScore: audience,
		TemporalScore:      temporal,
		DistanceScore:      distance,
		DwellTimeScore:     dwell,
		TotalScore:         utils.Round1(audience + temporal + distance + dwell),
		DistanceMiles:      utils.Round1(distanceMiles),
		DataSources:        uc.dataSources(zone, audienceSrc, temporalDetail),
	}
	score.Reasoning = uc.buildReasoning(zone, score, period)
	return score
}

// audienceScore runs the semantic matcher, retrying once on rate limiting,
// and falls back to keyword overlap on timeout, exhaustion or error. The
// second return value describes how the score was obtained.
func (uc *ScoringUseCase) audienceScore(
	ctx context.Context,
	query domain.EventQuery,
	zone domain.Zone,
	matcherHealthy *atomic.Bool,
) (float64, domain.DataSource) {
	now := time.Now().UTC().Format(time.RFC3339)

	if !matcherHealthy.Load() {
		return heuristicAudienceScore(query.TargetAudience, zone.AudienceSignals), domain.DataSource{
			Name:        "semantic_matcher",
			Status:      domain.SourceNotDetected,
			Details:     "skipped after rate limit, keyword heuristic used",
			LastUpdated: now,
		}
	}

	var strength float64
	err := uc.retry.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, uc.cfg.Scoring.MatchTimeout)
		defer cancel()
		var callErr error
		strength, callErr = uc.matcherRepo.Match(callCtx, query.TargetAudience, zone.AudienceSignals.All())
		return callErr
	}, func(err error) bool {
		return stderrors.Is(err, matcher.ErrRateLimited)
	})

	if err == nil {
		return utils.Round1(strength * domain.MaxAudienceScore), domain.DataSource{
			Name:        "semantic_matcher",
			Status:      domain.SourceDetected,
			Details:     "semantic match strength applied",
			LastUpdated: now,
		}
	}

	detail := "matcher error, keyword heuristic used"
	switch {
	case stderrors.Is(err, matcher.ErrRateLimited):
		matcherHealthy.Store(false)
		detail = "rate limit persisted after retry, keyword heuristic used"
		uc.logger.Warn("Matcher rate limit persisted, degrading to heuristic",
			zap.String("zone_id", zone.ID),
		)
	case stderrors.Is(err, context.DeadlineExceeded):
		detail = "matcher timeout, keyword heuristic used"
		uc.logger.Warn("Matcher call timed out",
			zap.String("zone_id", zone.ID),
			zap.Duration("timeout", uc.cfg.Scoring.MatchTimeout),
		)
	default:
		uc.logger.Warn("Matcher call failed",
			zap.String("zone_id", zone.ID),
			zap.Error(err),
		)
	}

	return heuristicAudienceScore(query.TargetAudience, zone.AudienceSignals), domain.DataSource{
		Name:        "semantic_matcher",
		Status:      domain.SourceNotDetected,
		Details:     detail,
		LastUpdated: now,
	}
}

// heuristicAudienceScore is the local fallback: the fraction of target
// audience tags with a keyword overlap in the zone's signals, scaled to the
// audience ceiling.
func heuristicAudienceScore(target []string, signals domain.AudienceSignals) float64 {
	if len(target) == 0 {
		return 0
	}

	zoneTags := signals.All()
	matched := 0
	for _, want := range target {
		want = strings.ToLower(strings.TrimSpace(want))
		if want == "" {
			continue
		}
		for _, have := range zoneTags {
			have = strings.ToLower(have)
			if strings.Contains(have, want) || strings.Contains(want, have) {
				matched++
				break
			}
		}
	}
	return utils.Round1(float64(matched) / float64(len(target)) * domain.MaxAudienceScore)
}

// temporalScore grades how well the zone's timing windows line up with the
// event's period and weekday. Zones without windows get a neutral midpoint
// rather than a penalty. The second return value feeds data-source details.
func temporalScore(zone domain.Zone, period domain.TimePeriod, weekday string) (float64, string) {
	if len(zone.TimingWindows) == 0 {
		return 15.0, "no timing windows, neutral score"
	}

	periodHit := false
	for _, w := range zone.TimingWindows {
		if !windowCoversPeriod(w, period) {
			continue
		}
		periodHit = true
		if weekday != "" && windowCoversDay(w, weekday) {
			return domain.MaxTemporalScore, "window matches period and day"
		}
	}
	if periodHit {
		return 20.0, "window matches period, different day"
	}

	for _, adj := range domain.AdjacentPeriods(period) {
		for _, w := range zone.TimingWindows {
			if windowCoversPeriod(w, adj) {
				return 15.0, "window matches adjacent period"
			}
		}
	}
	return 5.0, "no window overlaps the period"
}

// windowCoversPeriod reports whether any hour in the window's range falls
// inside the period bucket. Ranges crossing midnight wrap.
func windowCoversPeriod(w domain.TimingWindow, period domain.TimePeriod) bool {
	parts := strings.SplitN(w.Hours, "-", 2)
	if len(parts) != 2 {
		return false
	}
	start, okS := parseWindowHour(parts[0])
	end, okE := parseWindowHour(parts[1])
	if !okS || !okE {
		return false
	}

	for h := start; h != end; h = (h + 1) % 24 {
		if domain.PeriodForHour(h) == period {
			return true
		}
	}
	return false
}

func windowCoversDay(w domain.TimingWindow, weekday string) bool {
	for _, d := range w.Days {
		if strings.EqualFold(d, weekday) {
			return true
		}
	}
	return false
}

func parseWindowHour(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	var hour int
	if _, err := fmt.Sscanf(s, "%d", &hour); err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

// distanceScore gives full marks inside a tenth of a mile of the venue and
// decays linearly to zero at the configured maximum radius.
func (uc *ScoringUseCase) distanceScore(miles float64) float64 {
	const fullScoreRadius = 0.1
	maxRadius := uc.cfg.Scoring.MaxRadiusMiles

	switch {
	case miles <= fullScoreRadius:
		return domain.MaxDistanceScore
	case miles >= maxRadius:
		return 0
	default:
		fraction := (miles - fullScoreRadius) / (maxRadius - fullScoreRadius)
		return utils.Round1(domain.MaxDistanceScore * (1 - fraction))
	}
}

// dwellScore scales dwell time against the ceiling above which extra seconds
// stop adding exposure value.
func (uc *ScoringUseCase) dwellScore(dwellSeconds int) float64 {
	ceiling := uc.cfg.Scoring.DwellCeilingS
	if ceiling <= 0 {
		ceiling = 60
	}
	if dwellSeconds >= ceiling {
		return domain.MaxDwellScore
	}
	if dwellSeconds <= 0 {
		return 0
	}
	return utils.Round1(domain.MaxDwellScore * float64(dwellSeconds) / float64(ceiling))
}

// dataSources records which inputs were available while scoring the zone,
// so clients can tell a confident score from a degraded one.
func (uc *ScoringUseCase) dataSources(
	zone domain.Zone,
	audienceSrc domain.DataSource,
	temporalDetail string,
) []domain.DataSource {
	now := time.Now().UTC().Format(time.RFC3339)

	signalsStatus := domain.SourceNotDetected
	if len(zone.AudienceSignals.All()) > 0 {
		signalsStatus = domain.SourceDetected
	}
	windowsStatus := domain.SourceNotDetected
	if len(zone.TimingWindows) > 0 {
		windowsStatus = domain.SourceDetected
	}
	trafficStatus := domain.SourceNotDetected
	trafficDetail := "no foot traffic measurements for this zone"
	if zone.FootTrafficDaily != nil {
		trafficStatus = domain.SourceDetected
		trafficDetail = fmt.Sprintf("%d pedestrians per day", *zone.FootTrafficDaily)
	}

	return []domain.DataSource{
		audienceSrc,
		{
			Name:        "audience_signals",
			Status:      signalsStatus,
			Details:     fmt.Sprintf("%d audience tags on record", len(zone.AudienceSignals.All())),
			LastUpdated: now,
		},
		{
			Name:        "timing_windows",
			Status:      windowsStatus,
			Details:     temporalDetail,
			LastUpdated: now,
		},
		{
			Name:        "foot_traffic",
			Status:      trafficStatus,
			Details:     trafficDetail,
			LastUpdated: now,
		},
	}
}

// buildReasoning produces the human-readable explanation attached to each
// scored zone, including behavioural context for the time period.
func (uc *ScoringUseCase) buildReasoning(
	zone domain.Zone,
	score domain.ZoneScore,
	period domain.TimePeriod,
) string {
	var parts []string

	switch {
	case score.AudienceMatchScore >= 0.75*domain.MaxAudienceScore:
		parts = append(parts, fmt.Sprintf("strong audience overlap at %s", zone.Name))
	case score.AudienceMatchScore >= 0.4*domain.MaxAudienceScore:
		parts = append(parts, fmt.Sprintf("moderate audience overlap at %s", zone.Name))
	default:
		parts = append(parts, fmt.Sprintf("limited audience overlap at %s", zone.Name))
	}

	parts = append(parts, fmt.Sprintf("%.1f mi from the venue", score.DistanceMiles))

	switch period {
	case domain.PeriodMorning:
		parts = append(parts, "morning passersby are in planning mode and receptive to upcoming events")
	case domain.PeriodLunch:
		parts = append(parts, "lunch crowds have short browsing windows, favouring high-visibility placements")
	case domain.PeriodEvening:
		parts = append(parts, "evening foot traffic skews social and open to nearby plans")
	}

	if score.TemporalScore >= domain.MaxTemporalScore {
		parts = append(parts, "timing windows align with the event schedule")
	}
	if score.DwellTimeScore >= domain.MaxDwellScore {
		parts = append(parts, fmt.Sprintf("typical dwell of %ds gives the message time to land", zone.DwellTimeSeconds))
	}

	return strings.Join(parts, "; ")
}

// validateQuery enforces the minimum viable query: valid venue coordinates
// and at least one target audience tag.
func validateQuery(q domain.EventQuery) error {
	if !utils.ValidateCoordinates(q.VenueLat, q.VenueLon) {
		return errors.ErrInvalidQuery.WithDetails(map[string]interface{}{
			"venue_lat": q.VenueLat,
			"venue_lon": q.VenueLon,
		})
	}
	if len(q.TargetAudience) == 0 {
		return errors.ErrInvalidQuery.WithDetails(map[string]interface{}{
			"reason": "target_audience must not be empty",
		})
	}
	for _, tag := range q.TargetAudience {
		if strings.TrimSpace(tag) == "" {
			return errors.ErrInvalidQuery.WithDetails(map[string]interface{}{
				"reason": "target_audience tags must not be blank",
			})
		}
	}
	return nil
}

// eventWeekday resolves the event date to a weekday name, or empty when the
// date is absent or unparseable.
func eventWeekday(date string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}
