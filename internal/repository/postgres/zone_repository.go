package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/zone-recommender/internal/domain"
	"github.com/zone-recommender/internal/domain/repository"
	"github.com/zone-recommender/internal/pkg/errors"
	"go.uber.org/zap"
)

type zoneRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewZoneRepository(db *DB) repository.ZoneRepository {
	return &zoneRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const zoneColumns = `
	id, name, lat, lon,
	demographics, interests, behaviors,
	timing_windows, dwell_time_seconds, cost_tier,
	foot_traffic_daily, created_at
`

func (r *zoneRepository) GetAll(ctx context.Context) ([]domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query zones", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var zones []domain.Zone
	for rows.Next() {
		zone, err := r.scanZone(rows)
		if err != nil {
			r.logger.Warn("Skipping malformed zone row", zap.Error(err))
			continue
		}
		zones = append(zones, *zone)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Zone rows iteration failed", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return zones, nil
}

func (r *zoneRepository) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	zone, err := r.scanZone(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrZoneNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get zone by ID", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return zone, nil
}

// ReplaceAll swaps the stored zone set inside a single transaction so
// concurrent readers never observe a half-replaced catalog.
func (r *zoneRepository) ReplaceAll(ctx context.Context, zones []domain.Zone) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin zone replace transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM zones`); err != nil {
		r.logger.Error("Failed to clear zones table", zap.Error(err))
		return errors.ErrDatabaseError
	}

	insert := `
		INSERT INTO zones (` + zoneColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, zone := range zones {
		windowsJSON, err := json.Marshal(zone.TimingWindows)
		if err != nil {
			return fmt.Errorf("marshal timing windows for zone %s: %w", zone.ID, err)
		}

		var footTraffic sql.NullInt64
		if zone.FootTrafficDaily != nil {
			footTraffic = sql.NullInt64{Int64: int64(*zone.FootTrafficDaily), Valid: true}
		}

		_, err = tx.ExecContext(ctx, insert,
			zone.ID, zone.Name, zone.Lat, zone.Lon,
			pq.Array(zone.AudienceSignals.Demographics),
			pq.Array(zone.AudienceSignals.Interests),
			pq.Array(zone.AudienceSignals.Behaviors),
			windowsJSON, zone.DwellTimeSeconds, string(zone.CostTier),
			footTraffic, zone.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to insert zone",
				zap.String("id", zone.ID),
				zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit zone replace", zap.Error(err))
		return errors.ErrDatabaseError
	}

	r.logger.Info("Zone store replaced", zap.Int("count", len(zones)))
	return nil
}

func (r *zoneRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM zones`).Scan(&count); err != nil {
		r.logger.Error("Failed to count zones", zap.Error(err))
		return 0, errors.ErrDatabaseError
	}
	return count, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *zoneRepository) scanZone(row scanner) (*domain.Zone, error) {
	var zone domain.Zone
	var windowsJSON []byte
	var footTraffic sql.NullInt64
	var costTier string

	err := row.Scan(
		&zone.ID, &zone.Name, &zone.Lat, &zone.Lon,
		pq.Array(&zone.AudienceSignals.Demographics),
		pq.Array(&zone.AudienceSignals.Interests),
		pq.Array(&zone.AudienceSignals.Behaviors),
		&windowsJSON, &zone.DwellTimeSeconds, &costTier,
		&footTraffic, &zone.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	zone.CostTier = domain.CostTier(costTier)

	if len(windowsJSON) > 0 {
		if err := json.Unmarshal(windowsJSON, &zone.TimingWindows); err != nil {
			return nil, fmt.Errorf("unmarshal timing windows: %w", err)
		}
	}
	if footTraffic.Valid {
		v := int(footTraffic.Int64)
		zone.FootTrafficDaily = &v
	}

	if !zone.Valid() {
		return nil, fmt.Errorf("zone %q failed ingestion validation", zone.ID)
	}

	return &zone, nil
}
