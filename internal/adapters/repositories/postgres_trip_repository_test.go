package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"hos-schedule-service/internal/platform/db"
	"hos-schedule-service/internal/ports"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eldLogColumns = []string{
	"day_number", "date", "driving_hours", "on_duty_hours", "off_duty_hours", "sleeper_hours",
	"load_unload_hours", "cycle_7day_total", "cycle_8day_total", "requires_restart",
	"breaks", "fuel_stops", "activities", "remarks", "compliance",
}

var tripColumns = []string{
	"trip_id", "trip_type", "state", "current_location", "pickup_location", "dropoff_location",
	"current_cycle_used", "cmv_weight", "requires_cdl", "adverse_conditions", "includes_hazmat", "created_at",
}

func TestPostgresSaveTrip(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewSQLTripRepository(conn, db.Postgres)
	trip, days := sampleTrip(), sampleDays()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trips")).
		WithArgs(trip.TripID, "interstate", "TX", "Dallas, TX", "Fort Worth, TX", "Atlanta, GA",
			12.5, 26000, true, false, true, trip.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO eld_logs"))
	for _, d := range days {
		prep.ExpectExec().
			WithArgs(trip.TripID, d.DayNumber, d.Date, d.DrivingHours, d.OnDutyHours, d.OffDutyHours,
				d.SleeperHours, d.LoadUnloadHours, d.Cycle7DayTotal, d.Cycle8DayTotal, d.RequiresRestart,
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.SaveTrip(context.Background(), trip, days))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveTripRollsBackOnFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewSQLTripRepository(conn, db.Postgres)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trips")).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))
	mock.ExpectRollback()

	err = repo.SaveTrip(context.Background(), sampleTrip(), sampleDays())
	assert.ErrorContains(t, err, "insert trip")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetTrip(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewSQLTripRepository(conn, db.Postgres)
	trip, days := sampleTrip(), sampleDays()

	mock.ExpectQuery(regexp.QuoteMeta("FROM trips\n\tWHERE trip_id = $1")).
		WithArgs(trip.TripID).
		WillReturnRows(sqlmock.NewRows(tripColumns).AddRow(
			trip.TripID, trip.TripType, trip.State, trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation,
			trip.CurrentCycleUsed, trip.CMVWeight, trip.RequiresCDL, trip.AdverseConditions, trip.IncludesHazmat,
			trip.CreatedAt,
		))

	rows := sqlmock.NewRows(eldLogColumns)
	for _, d := range days {
		docs, err := encodeDayDocs(d)
		require.NoError(t, err)
		rows.AddRow(d.DayNumber, d.Date, d.DrivingHours, d.OnDutyHours, d.OffDutyHours, d.SleeperHours,
			d.LoadUnloadHours, d.Cycle7DayTotal, d.Cycle8DayTotal, d.RequiresRestart,
			[]byte(docs.breaks), []byte(docs.fuelStops), []byte(docs.activities), []byte(docs.remarks), []byte(docs.compliance))
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM eld_logs\n\tWHERE trip_id = $1")).
		WithArgs(trip.TripID).
		WillReturnRows(rows)

	gotTrip, gotDays, err := repo.GetTrip(context.Background(), trip.TripID)
	require.NoError(t, err)
	assert.Equal(t, trip, *gotTrip)
	assert.Equal(t, days, gotDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetTripNotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewSQLTripRepository(conn, db.Postgres)

	mock.ExpectQuery(regexp.QuoteMeta("FROM trips")).
		WithArgs("TRIP-00000000").
		WillReturnRows(sqlmock.NewRows(tripColumns))

	_, _, err = repo.GetTrip(context.Background(), "TRIP-00000000")
	assert.ErrorIs(t, err, ports.ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
