package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/db"
	"hos-schedule-service/internal/platform/obs"
	"hos-schedule-service/internal/ports"
)

// SQL-backed implementation of the TripRepository port.
// Activities, remarks, breaks, fuel stops and compliance are stored as JSON.
type SQLTripRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLTripRepository(conn *sql.DB, dialect db.Dialect) *SQLTripRepository {
	return &SQLTripRepository{DB: conn, Dialect: dialect}
}

var _ ports.TripRepository = (*SQLTripRepository)(nil)

// Store the trip row and one eld_logs row per day in a single transaction.
func (s *SQLTripRepository) SaveTrip(ctx context.Context, trip domain.Trip, days []domain.DayRecord) (err error) {
	defer obs.Time(ctx, "trips.SaveTrip")(&err)

	if s.DB == nil {
		return errors.New("trip repository: DB is nil")
	}

	if trip.TripID == "" {
		return errors.New("save trip: trip id must not be empty")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertTrip := s.Dialect.Rebind(`
	INSERT INTO trips (
		trip_id,
		trip_type,
		state,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_used,
		cmv_weight,
		requires_cdl,
		adverse_conditions,
		includes_hazmat,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if _, err := tx.ExecContext(ctx, insertTrip,
		trip.TripID,
		trip.TripType,
		trip.State,
		trip.CurrentLocation,
		trip.PickupLocation,
		trip.DropoffLocation,
		trip.CurrentCycleUsed,
		trip.CMVWeight,
		trip.RequiresCDL,
		trip.AdverseConditions,
		trip.IncludesHazmat,
		s.timeValue(trip.CreatedAt),
	); err != nil {
		return fmt.Errorf("save trip %s: insert trip: %w", trip.TripID, err)
	}

	if len(days) > 0 {
		stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
		INSERT INTO eld_logs (
			trip_id,
			day_number,
			date,
			driving_hours,
			on_duty_hours,
			off_duty_hours,
			sleeper_hours,
			load_unload_hours,
			cycle_7day_total,
			cycle_8day_total,
			requires_restart,
			breaks,
			fuel_stops,
			activities,
			remarks,
			compliance
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`))
		if err != nil {
			return fmt.Errorf("save trip %s: prepare eld log insert: %w", trip.TripID, err)
		}
		defer stmt.Close()

		for _, d := range days {
			docs, err := encodeDayDocs(d)
			if err != nil {
				return fmt.Errorf("save trip %s day %d: %w", trip.TripID, d.DayNumber, err)
			}

			if _, err := stmt.ExecContext(ctx,
				trip.TripID,
				d.DayNumber,
				d.Date,
				d.DrivingHours,
				d.OnDutyHours,
				d.OffDutyHours,
				d.SleeperHours,
				d.LoadUnloadHours,
				d.Cycle7DayTotal,
				d.Cycle8DayTotal,
				d.RequiresRestart,
				docs.breaks,
				docs.fuelStops,
				docs.activities,
				docs.remarks,
				docs.compliance,
			); err != nil {
				return fmt.Errorf("save trip %s: insert day %d: %w", trip.TripID, d.DayNumber, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save trip %s: commit tx: %w", trip.TripID, err)
	}

	return nil
}

// Return the trip and its logs ordered by day number.
func (s *SQLTripRepository) GetTrip(ctx context.Context, tripID string) (_ *domain.Trip, _ []domain.DayRecord, err error) {
	defer obs.Time(ctx, "trips.GetTrip")(&err)

	if s.DB == nil {
		return nil, nil, errors.New("trip repository: DB is nil")
	}

	var t domain.Trip
	var created sqlTime
	err = s.DB.QueryRowContext(ctx, s.Dialect.Rebind(`
	SELECT
		trip_id,
		trip_type,
		state,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_used,
		cmv_weight,
		requires_cdl,
		adverse_conditions,
		includes_hazmat,
		created_at
	FROM trips
	WHERE trip_id = ?;
	`), tripID).Scan(
		&t.TripID,
		&t.TripType,
		&t.State,
		&t.CurrentLocation,
		&t.PickupLocation,
		&t.DropoffLocation,
		&t.CurrentCycleUsed,
		&t.CMVWeight,
		&t.RequiresCDL,
		&t.AdverseConditions,
		&t.IncludesHazmat,
		&created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ports.ErrTripNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get trip %s: query trips table: %w", tripID, err)
	}
	t.CreatedAt = created.Time

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(`
	SELECT
		day_number,
		date,
		driving_hours,
		on_duty_hours,
		off_duty_hours,
		sleeper_hours,
		load_unload_hours,
		cycle_7day_total,
		cycle_8day_total,
		requires_restart,
		breaks,
		fuel_stops,
		activities,
		remarks,
		compliance
	FROM eld_logs
	WHERE trip_id = ?
	ORDER BY day_number;
	`), tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("get trip %s: query eld_logs table: %w", tripID, err)
	}
	defer rows.Close()

	days := make([]domain.DayRecord, 0, 8)
	for rows.Next() {
		var d domain.DayRecord
		var docs dayDocs
		if err := rows.Scan(
			&d.DayNumber,
			&d.Date,
			&d.DrivingHours,
			&d.OnDutyHours,
			&d.OffDutyHours,
			&d.SleeperHours,
			&d.LoadUnloadHours,
			&d.Cycle7DayTotal,
			&d.Cycle8DayTotal,
			&d.RequiresRestart,
			&docs.breaks,
			&docs.fuelStops,
			&docs.activities,
			&docs.remarks,
			&docs.compliance,
		); err != nil {
			return nil, nil, fmt.Errorf("get trip %s: scan row: %w", tripID, err)
		}

		if err := docs.decodeInto(&d); err != nil {
			return nil, nil, fmt.Errorf("get trip %s day %d: %w", tripID, d.DayNumber, err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("get trip %s: row iteration: %w", tripID, err)
	}

	return &t, days, nil
}

// SQLite has no timestamp type; store RFC 3339 text there.
func (s *SQLTripRepository) timeValue(t time.Time) any {
	if s.Dialect == db.Postgres {
		return t.UTC()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// sqlTime scans either a native timestamp or RFC 3339 text.
type sqlTime struct{ Time time.Time }

func (st *sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		st.Time = v.UTC()
		return nil
	case string:
		return st.parse(v)
	case []byte:
		return st.parse(string(v))
	case nil:
		st.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("scan time: unsupported type %T", src)
	}
}

func (st *sqlTime) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("scan time: %w", err)
	}
	st.Time = t.UTC()
	return nil
}

// JSON documents of one eld_logs row.
type dayDocs struct {
	breaks     []byte
	fuelStops  []byte
	activities []byte
	remarks    []byte
	compliance []byte
}

// Encoded as strings so both TEXT and JSONB columns accept them.
type dayDocStrings struct {
	breaks     string
	fuelStops  string
	activities string
	remarks    string
	compliance string
}

func encodeDayDocs(d domain.DayRecord) (dayDocStrings, error) {
	var out dayDocStrings
	fields := []struct {
		dst *string
		v   any
	}{
		{&out.breaks, nonNil(d.Breaks)},
		{&out.fuelStops, nonNil(d.FuelStops)},
		{&out.activities, nonNil(d.Activities)},
		{&out.remarks, nonNil(d.Remarks)},
		{&out.compliance, d.Compliance},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.v)
		if err != nil {
			return dayDocStrings{}, fmt.Errorf("encode day documents: %w", err)
		}
		*f.dst = string(b)
	}
	return out, nil
}

func (docs dayDocs) decodeInto(d *domain.DayRecord) error {
	targets := []struct {
		src []byte
		dst any
	}{
		{docs.breaks, &d.Breaks},
		{docs.fuelStops, &d.FuelStops},
		{docs.activities, &d.Activities},
		{docs.remarks, &d.Remarks},
		{docs.compliance, &d.Compliance},
	}
	for _, t := range targets {
		if err := json.Unmarshal(t.src, t.dst); err != nil {
			return fmt.Errorf("decode day documents: %w", err)
		}
	}

	d.RequiresBreak = len(d.Breaks) > 0
	d.HasFuelStop = len(d.FuelStops) > 0
	if d.Compliance.Violations == nil {
		d.Compliance.Violations = []domain.Violation{}
	}
	return nil
}

// nonNil keeps empty slices encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
