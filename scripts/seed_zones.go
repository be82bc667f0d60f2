//go:build ignore

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/zone-recommender/internal/usecase"
)

const schema = `
CREATE TABLE IF NOT EXISTS zones (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    lat                DOUBLE PRECISION NOT NULL,
    lon                DOUBLE PRECISION NOT NULL,
    demographics       TEXT[] NOT NULL DEFAULT '{}',
    interests          TEXT[] NOT NULL DEFAULT '{}',
    behaviors          TEXT[] NOT NULL DEFAULT '{}',
    timing_windows     JSONB NOT NULL DEFAULT '[]',
    dwell_time_seconds INTEGER NOT NULL DEFAULT 0,
    cost_tier          TEXT NOT NULL,
    foot_traffic_daily INTEGER,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Seeds the zones table with the bundled dataset. Useful for local
// development when the geodata sources are unreachable:
//
//	go run scripts/seed_zones.go -dsn "host=localhost port=5432 user=postgres password=postgres dbname=zones sslmode=disable"
func main() {
	dsn := flag.String("dsn", "host=localhost port=5432 user=postgres password=postgres dbname=zones sslmode=disable", "PostgreSQL DSN")
	flag.Parse()

	db, err := sqlx.Connect("pgx", *dsn)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to create zones table: %v", err)
	}

	zones, err := usecase.StaticZones()
	if err != nil {
		log.Fatalf("Failed to load bundled dataset: %v", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}

	for _, z := range zones {
		windows, err := json.Marshal(z.TimingWindows)
		if err != nil {
			log.Fatalf("Failed to marshal timing windows for %s: %v", z.ID, err)
		}

		_, err = tx.Exec(`
			INSERT INTO zones (
				id, name, lat, lon,
				demographics, interests, behaviors,
				timing_windows, dwell_time_seconds, cost_tier,
				foot_traffic_daily, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO NOTHING`,
			z.ID, z.Name, z.Lat, z.Lon,
			pq.Array(z.AudienceSignals.Demographics),
			pq.Array(z.AudienceSignals.Interests),
			pq.Array(z.AudienceSignals.Behaviors),
			windows, z.DwellTimeSeconds, string(z.CostTier),
			z.FootTrafficDaily, z.CreatedAt,
		)
		if err != nil {
			log.Fatalf("Failed to insert zone %s: %v", z.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	fmt.Printf("Seeded %d zones\n", len(zones))
}
