package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hos-schedule-service/internal/platform/db"
)

func sqliteSchema() []string {
	return []string{
		`
	CREATE TABLE IF NOT EXISTS trips (
		trip_id TEXT PRIMARY KEY,
		trip_type TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT '',
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		current_cycle_used REAL NOT NULL,
		cmv_weight INTEGER NOT NULL,
		requires_cdl INTEGER NOT NULL,
		adverse_conditions INTEGER NOT NULL,
		includes_hazmat INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS eld_logs (
		trip_id TEXT NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
		day_number INTEGER NOT NULL,
		date TEXT NOT NULL DEFAULT '',
		driving_hours REAL NOT NULL,
		on_duty_hours REAL NOT NULL,
		off_duty_hours REAL NOT NULL,
		sleeper_hours REAL NOT NULL,
		load_unload_hours REAL NOT NULL,
		cycle_7day_total REAL NOT NULL,
		cycle_8day_total REAL NOT NULL,
		requires_restart INTEGER NOT NULL,
		breaks TEXT NOT NULL,
		fuel_stops TEXT NOT NULL,
		activities TEXT NOT NULL,
		remarks TEXT NOT NULL,
		compliance TEXT NOT NULL,
		PRIMARY KEY (trip_id, day_number)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon REAL NOT NULL,
		lat REAL NOT NULL
	);
	`,
	}
}

func postgresSchema() []string {
	return []string{
		`
	CREATE TABLE IF NOT EXISTS trips (
		trip_id TEXT PRIMARY KEY,
		trip_type TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT '',
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		current_cycle_used DOUBLE PRECISION NOT NULL,
		cmv_weight INTEGER NOT NULL,
		requires_cdl BOOLEAN NOT NULL,
		adverse_conditions BOOLEAN NOT NULL,
		includes_hazmat BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS eld_logs (
		trip_id TEXT NOT NULL REFERENCES trips(trip_id) ON DELETE CASCADE,
		day_number INTEGER NOT NULL,
		date TEXT NOT NULL DEFAULT '',
		driving_hours DOUBLE PRECISION NOT NULL,
		on_duty_hours DOUBLE PRECISION NOT NULL,
		off_duty_hours DOUBLE PRECISION NOT NULL,
		sleeper_hours DOUBLE PRECISION NOT NULL,
		load_unload_hours DOUBLE PRECISION NOT NULL,
		cycle_7day_total DOUBLE PRECISION NOT NULL,
		cycle_8day_total DOUBLE PRECISION NOT NULL,
		requires_restart BOOLEAN NOT NULL,
		breaks JSONB NOT NULL,
		fuel_stops JSONB NOT NULL,
		activities JSONB NOT NULL,
		remarks JSONB NOT NULL,
		compliance JSONB NOT NULL,
		PRIMARY KEY (trip_id, day_number)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`,
	}
}

// InitSchema creates the trip, log and cache tables for the given dialect.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	statements := sqliteSchema()
	if dialect == db.Postgres {
		statements = postgresSchema()
	}
	statements = append(statements, `
	CREATE INDEX IF NOT EXISTS idx_trips_created_at
	ON trips(created_at);
	`)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema (%s): exec statement #%d: %w", dialect, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
