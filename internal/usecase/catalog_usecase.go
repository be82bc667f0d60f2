package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/zone-recommender/internal/config"
	"github.com/zone-recommender/internal/domain"
	"github.com/zone-recommender/internal/domain/repository"
	"github.com/zone-recommender/internal/pkg/errors"
)

// catalogSnapshot is one immutable view of the zone set. Readers always see
// a complete snapshot; refreshes swap the pointer atomically.
type catalogSnapshot struct {
	zones    []domain.Zone
	source   domain.CatalogSource
	loadedAt time.Time
}

// CatalogUseCase resolves the active zone set through a fixed fallback chain:
// in-memory snapshot, persistent store, live generation from geodata sources,
// bundled static dataset. Concurrent cold loads collapse into one resolution.
type CatalogUseCase struct {
	zoneRepo    repository.ZoneRepository
	cacheRepo   repository.CacheRepository
	geodataRepo repository.GeodataRepository
	cfg         *config.Config
	logger      *zap.Logger

	snapshot atomic.Pointer[catalogSnapshot]
	group    singleflight.Group
}

// NewCatalogUseCase creates a CatalogUseCase.
func NewCatalogUseCase(
	zoneRepo repository.ZoneRepository,
	cacheRepo repository.CacheRepository,
	geodataRepo repository.GeodataRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		zoneRepo:    zoneRepo,
		cacheRepo:   cacheRepo,
		geodataRepo: geodataRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// GetZones returns the active zone set and the tier that produced it.
// A fresh snapshot is served as-is; otherwise the fallback chain runs once
// regardless of how many callers arrive during resolution.
func (uc *CatalogUseCase) GetZones(ctx context.Context) ([]domain.Zone, domain.CatalogSource, error) {
	if snap := uc.snapshot.Load(); snap != nil && time.Since(snap.loadedAt) < uc.cfg.Catalog.CacheTTL {
		return snap.zones, domain.SourceMemory, nil
	}

	v, err, _ := uc.group.Do("catalog", func() (interface{}, error) {
		// Another caller may have finished the resolution while this one
		// waited on the group.
		if snap := uc.snapshot.Load(); snap != nil && time.Since(snap.loadedAt) < uc.cfg.Catalog.CacheTTL {
			return snap, nil
		}
		return uc.resolve(ctx)
	})
	if err != nil {
		return nil, "", err
	}

	snap := v.(*catalogSnapshot)
	return snap.zones, snap.source, nil
}

// GetZoneByID looks a zone up in the active set.
func (uc *CatalogUseCase) GetZoneByID(ctx context.Context, id string) (*domain.Zone, error) {
	zones, _, err := uc.GetZones(ctx)
	if err != nil {
		return nil, err
	}
	for i := range zones {
		if zones[i].ID == id {
			return &zones[i], nil
		}
	}
	return nil, errors.ErrZoneNotFound.WithDetails(map[string]interface{}{"zone_id": id})
}

// Status reports which tier is serving and whether the snapshot is still
// within its TTL.
func (uc *CatalogUseCase) Status(ctx context.Context) (*domain.CatalogStatus, error) {
	if snap := uc.snapshot.Load(); snap != nil {
		return &domain.CatalogStatus{
			Source:      snap.source,
			ZoneCount:   len(snap.zones),
			LastRefresh: snap.loadedAt,
			CacheValid:  time.Since(snap.loadedAt) < uc.cfg.Catalog.CacheTTL,
		}, nil
	}

	// Cold process: fall back to the status another instance may have cached.
	if cached, err := uc.cacheRepo.GetCatalogStatus(ctx); err == nil && cached != nil {
		return cached, nil
	}

	count, err := uc.zoneRepo.Count(ctx)
	if err != nil {
		uc.logger.Warn("Failed to count stored zones for status", zap.Error(err))
		count = 0
	}
	return &domain.CatalogStatus{
		Source:     domain.SourceStore,
		ZoneCount:  count,
		CacheValid: false,
	}, nil
}

// Refresh forces regeneration from geodata sources and persists the result.
// The work runs on a detached context so a disconnecting caller does not
// abandon a half-finished generation; failure leaves the current snapshot
// and stored zones untouched.
func (uc *CatalogUseCase) Refresh(ctx context.Context) (*domain.CatalogStatus, error) {
	v, err, _ := uc.group.Do("refresh", func() (interface{}, error) {
		genCtx, cancel := context.WithTimeout(context.Background(), uc.cfg.Catalog.GenerationTimeout)
		defer cancel()

		zones, err := uc.generate(genCtx)
		if err != nil {
			uc.logger.Error("Catalog refresh failed, keeping previous zone set", zap.Error(err))
			return nil, errors.ErrCatalogUnavailable.WithDetails(map[string]interface{}{
				"stage": "generation",
			})
		}

		if err := uc.zoneRepo.ReplaceAll(genCtx, zones); err != nil {
			// Generated zones are still usable in memory even when the
			// store write fails.
			uc.logger.Warn("Failed to persist refreshed zones", zap.Error(err))
		}

		snap := uc.install(zones, domain.SourceGenerated)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	snap := v.(*catalogSnapshot)
	status := &domain.CatalogStatus{
		Source:      snap.source,
		ZoneCount:   len(snap.zones),
		LastRefresh: snap.loadedAt,
		CacheValid:  true,
	}
	uc.publishStatus(ctx, status)
	return status, nil
}

// resolve runs the store -> generated -> static chain. It never returns an
// empty zone set without an error.
func (uc *CatalogUseCase) resolve(ctx context.Context) (*catalogSnapshot, error) {
	zones, err := uc.zoneRepo.GetAll(ctx)
	if err == nil && len(zones) > 0 {
		uc.logger.Info("Catalog loaded from store", zap.Int("zones", len(zones)))
		return uc.install(zones, domain.SourceStore), nil
	}
	if err != nil {
		uc.logger.Warn("Zone store unavailable, trying live generation", zap.Error(err))
	}

	// Generation is detached from the caller: other waiters in the flight
	// group still need the result if the first caller disconnects.
	genCtx, cancel := context.WithTimeout(context.Background(), uc.cfg.Catalog.GenerationTimeout)
	defer cancel()
	zones, genErr := uc.generate(genCtx)
	if genErr == nil {
		if err := uc.zoneRepo.ReplaceAll(genCtx, zones); err != nil {
			uc.logger.Warn("Failed to persist generated zones", zap.Error(err))
		}
		uc.logger.Info("Catalog generated from geodata sources", zap.Int("zones", len(zones)))
		return uc.install(zones, domain.SourceGenerated), nil
	}
	uc.logger.Warn("Live generation failed, falling back to bundled dataset", zap.Error(genErr))

	zones, staticErr := StaticZones()
	if staticErr != nil {
		uc.logger.Error("Bundled dataset unusable", zap.Error(staticErr))
		return nil, errors.ErrCatalogUnavailable
	}
	return uc.install(zones, domain.SourceStatic), nil
}

// install swaps in a new snapshot and best-effort publishes its status.
func (uc *CatalogUseCase) install(zones []domain.Zone, source domain.CatalogSource) *catalogSnapshot {
	snap := &catalogSnapshot{
		zones:    zones,
		source:   source,
		loadedAt: time.Now().UTC(),
	}
	uc.snapshot.Store(snap)
	uc.publishStatus(context.Background(), &domain.CatalogStatus{
		Source:      source,
		ZoneCount:   len(zones),
		LastRefresh: snap.loadedAt,
		CacheValid:  true,
	})
	return snap
}

func (uc *CatalogUseCase) publishStatus(ctx context.Context, status *domain.CatalogStatus) {
	if err := uc.cacheRepo.SetCatalogStatus(ctx, status, uc.cfg.Cache.StatusCacheTTL); err != nil {
		uc.logger.Debug("Failed to publish catalog status", zap.Error(err))
	}
}

// generate builds zones from raw geodata: candidate placement points enriched
// with nearby venues, capped at the configured maximum.
func (uc *CatalogUseCase) generate(ctx context.Context) ([]domain.Zone, error) {
	points, err := uc.geodataRepo.CandidatePoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch candidate points: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("geodata source returned no candidate points")
	}

	// Stable input order keeps the cap deterministic across refreshes.
	sort.Slice(points, func(i, j int) bool { return points[i].MeterID < points[j].MeterID })

	max := uc.cfg.Catalog.MaxZones
	zones := make([]domain.Zone, 0, max)
	for _, p := range points {
		if len(zones) >= max {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		venues, err := uc.geodataRepo.NearbyPOIs(ctx, p.Lat, p.Lon, uc.cfg.Geodata.NearbyRadiusM)
		if err != nil {
			// One bad lookup should not sink the whole generation.
			uc.logger.Warn("Nearby venue lookup failed",
				zap.String("meter_id", p.MeterID),
				zap.Error(err),
			)
			continue
		}

		zone := uc.buildZone(p, venues)
		if !zone.Valid() {
			uc.logger.Warn("Dropping malformed generated zone", zap.String("meter_id", p.MeterID))
			continue
		}
		zones = append(zones, zone)
	}

	if len(zones) == 0 {
		return nil, fmt.Errorf("no usable zones generated from %d candidate points", len(points))
	}
	return zones, nil
}

// buildZone turns a candidate point plus its surrounding venues into a zone:
// audience signals are inferred from venue types, timing windows from venue
// mix, cost tier from the posted meter rate.
func (uc *CatalogUseCase) buildZone(p domain.CandidatePoint, venues []domain.POIVenue) domain.Zone {
	id := p.MeterID
	if id == "" {
		id = uuid.New().String()
	}

	name := strings.TrimSpace(p.Street)
	if name == "" {
		name = fmt.Sprintf("Zone %s", id)
	}
	if p.MetroArea != "" {
		name = fmt.Sprintf("%s (%s)", name, p.MetroArea)
	}

	signals := inferAudienceSignals(venues)
	return domain.Zone{
		ID:               strings.ToLower(id),
		Name:             name,
		Lat:              p.Lat,
		Lon:              p.Lon,
		AudienceSignals:  signals,
		TimingWindows:    inferTimingWindows(venues),
		DwellTimeSeconds: inferDwellSeconds(venues),
		CostTier:         costTierFromRate(p.Rate),
		CreatedAt:        time.Now().UTC(),
	}
}

// venueTypeSignals maps venue types to the audience tags they imply.
var venueTypeSignals = map[string]domain.AudienceSignals{
	"cafe": {
		Demographics: []string{"young-professionals", "remote-workers"},
		Interests:    []string{"coffee", "social"},
		Behaviors:    []string{"lingerers"},
	},
	"restaurant": {
		Demographics: []string{"diners"},
		Interests:    []string{"dining"},
		Behaviors:    []string{"lunch-crowds"},
	},
	"bar": {
		Demographics: []string{"young-professionals", "21-34"},
		Interests:    []string{"nightlife", "social"},
		Behaviors:    []string{"evening-visitors"},
	},
	"gym": {
		Demographics: []string{"fitness-enthusiasts"},
		Interests:    []string{"wellness", "sports"},
		Behaviors:    []string{"regulars"},
	},
	"transit_station": {
		Demographics: []string{"commuters"},
		Interests:    []string{"transit"},
		Behaviors:    []string{"commuters"},
	},
	"subway_station": {
		Demographics: []string{"commuters"},
		Interests:    []string{"transit"},
		Behaviors:    []string{"commuters"},
	},
	"park": {
		Demographics: []string{"families", "all-ages"},
		Interests:    []string{"outdoors"},
		Behaviors:    []string{"weekend-visitors"},
	},
	"school": {
		Demographics: []string{"students", "families"},
		Interests:    []string{"education"},
		Behaviors:    []string{"weekday-regulars"},
	},
	"university": {
		Demographics: []string{"students", "18-24"},
		Interests:    []string{"education"},
		Behaviors:    []string{"weekday-regulars"},
	},
	"library": {
		Demographics: []string{"students", "readers"},
		Interests:    []string{"education", "culture"},
		Behaviors:    []string{"lingerers"},
	},
	"store": {
		Demographics: []string{"shoppers"},
		Interests:    []string{"shopping"},
		Behaviors:    []string{"shoppers"},
	},
	"shopping_mall": {
		Demographics: []string{"shoppers", "families"},
		Interests:    []string{"shopping", "retail"},
		Behaviors:    []string{"shoppers", "weekend-visitors"},
	},
	"grocery_or_supermarket": {
		Demographics: []string{"households"},
		Interests:    []string{"groceries"},
		Behaviors:    []string{"regulars"},
	},
	"movie_theater": {
		Demographics: []string{"young-professionals", "families"},
		Interests:    []string{"entertainment"},
		Behaviors:    []string{"evening-visitors", "weekend-visitors"},
	},
}

// inferAudienceSignals merges the tag sets implied by each nearby venue,
// deduplicated and sorted for stable output.
func inferAudienceSignals(venues []domain.POIVenue) domain.AudienceSignals {
	demo := map[string]struct{}{}
	interests := map[string]struct{}{}
	behaviors := map[string]struct{}{}

	for _, v := range venues {
		for _, t := range v.Types {
			sig, ok := venueTypeSignals[t]
			if !ok {
				continue
			}
			for _, tag := range sig.Demographics {
				demo[tag] = struct{}{}
			}
			for _, tag := range sig.Interests {
				interests[tag] = struct{}{}
			}
			for _, tag := range sig.Behaviors {
				behaviors[tag] = struct{}{}
			}
		}
	}

	if len(demo)+len(interests)+len(behaviors) == 0 {
		// Street-level placements with no recognizable venues still reach
		// passing foot traffic.
		demo["general-public"] = struct{}{}
		behaviors["pedestrians"] = struct{}{}
	}

	return domain.AudienceSignals{
		Demographics: sortedKeys(demo),
		Interests:    sortedKeys(interests),
		Behaviors:    sortedKeys(behaviors),
	}
}

// inferTimingWindows derives exposure windows from the venue mix.
func inferTimingWindows(venues []domain.POIVenue) []domain.TimingWindow {
	hasType := func(types ...string) bool {
		for _, v := range venues {
			for _, t := range v.Types {
				for _, want := range types {
					if t == want {
						return true
					}
				}
			}
		}
		return false
	}

	weekdays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	var windows []domain.TimingWindow

	if hasType("transit_station", "subway_station") {
		windows = append(windows,
			domain.TimingWindow{
				Days:      weekdays,
				Hours:     "07:00-09:00",
				Reasoning: "Morning commute traffic through the station",
			},
			domain.TimingWindow{
				Days:      weekdays,
				Hours:     "17:00-19:00",
				Reasoning: "Evening commute traffic through the station",
			},
		)
	}
	if hasType("cafe", "restaurant") {
		windows = append(windows, domain.TimingWindow{
			Days:      weekdays,
			Hours:     "11:00-14:00",
			Reasoning: "Lunch crowd at nearby food venues",
		})
	}
	if hasType("bar", "movie_theater") {
		windows = append(windows, domain.TimingWindow{
			Days:      []string{"Thursday", "Friday", "Saturday"},
			Hours:     "18:00-22:00",
			Reasoning: "Evening entertainment traffic",
		})
	}
	if hasType("park", "shopping_mall") {
		windows = append(windows, domain.TimingWindow{
			Days:      []string{"Saturday", "Sunday"},
			Hours:     "10:00-16:00",
			Reasoning: "Weekend leisure traffic",
		})
	}

	return windows
}

// inferDwellSeconds estimates how long a passerby pauses, based on whether
// nearby venues encourage lingering.
func inferDwellSeconds(venues []domain.POIVenue) int {
	dwell := 20 // street-level default
	for _, v := range venues {
		for _, t := range v.Types {
			switch t {
			case "cafe", "library", "park":
				return 75
			case "restaurant", "bar", "shopping_mall":
				dwell = 50
			case "transit_station", "subway_station":
				if dwell < 35 {
					dwell = 35
				}
			}
		}
	}
	return dwell
}

// costTierFromRate maps a posted meter rate string ("$1.50/hour") to a cost
// tier. Unparseable rates land in the middle bracket.
func costTierFromRate(rate string) domain.CostTier {
	rate = strings.TrimSpace(rate)
	if rate == "" || strings.EqualFold(rate, "free") {
		return domain.CostTierFree
	}

	var dollars float64
	cleaned := strings.TrimPrefix(rate, "$")
	if i := strings.IndexAny(cleaned, "/ "); i >= 0 {
		cleaned = cleaned[:i]
	}
	if _, err := fmt.Sscanf(cleaned, "%f", &dollars); err != nil {
		return domain.CostTierMedium
	}

	switch {
	case dollars == 0:
		return domain.CostTierFree
	case dollars < 1.0:
		return domain.CostTierLow
	case dollars < 2.5:
		return domain.CostTierMedium
	default:
		return domain.CostTierHigh
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
