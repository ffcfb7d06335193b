package services

import (
	"math"
	"testing"
	"time"

	"hos-schedule-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *ScheduleEngine {
	t.Helper()

	e, err := NewScheduleEngine(domain.DefaultLimits(), domain.DefaultAssumptions())
	require.NoError(t, err)
	return e
}

func hasRule(res domain.ComplianceResult, rule string) bool {
	for _, v := range res.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

func TestNewScheduleEngineRejectsInvalidLimits(t *testing.T) {
	l := domain.DefaultLimits()
	l.MaxDailyDriving = 0

	_, err := NewScheduleEngine(l, domain.DefaultAssumptions())
	assert.Error(t, err)
}

func TestComputeScheduleTwelveHoursSplitsAcrossTwoDays(t *testing.T) {
	e := newTestEngine(t)

	days, err := e.ComputeSchedule(domain.TripParameters{TotalDrivingHoursRequired: 12})
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Equal(t, 1, days[0].DayNumber)
	assert.Equal(t, 11.0, days[0].DrivingHours)
	assert.Equal(t, 2, days[1].DayNumber)
	assert.InDelta(t, 1.0, days[1].DrivingHours, 1e-9)

	// Pickup on day 1, dropoff on day 2.
	assert.Equal(t, 1.0, days[0].LoadUnloadHours)
	assert.Equal(t, 1.0, days[1].LoadUnloadHours)
	assert.InDelta(t, 12.75, days[0].OnDutyHours, 1e-9)
}

func TestComputeScheduleTenHoursRequiresBreak(t *testing.T) {
	e := newTestEngine(t)

	days, err := e.ComputeSchedule(domain.TripParameters{TotalDrivingHoursRequired: 10})
	require.NoError(t, err)
	require.Len(t, days, 1)

	d := days[0]
	assert.True(t, d.RequiresBreak)
	require.Len(t, d.Breaks, 1)
	assert.Equal(t, "30_min_break", d.Breaks[0].Type)
	assert.Equal(t, 0.5, d.Breaks[0].Duration)
	assert.True(t, d.Breaks[0].Required)

	var breakIntervals int
	for _, a := range d.Activities {
		if a.Status == domain.StatusOffDuty && a.DurationHours == 0.5 {
			breakIntervals++
		}
	}
	assert.Equal(t, 1, breakIntervals)

	// Single-day trip: pickup and dropoff both land on it.
	assert.Equal(t, 2.0, d.LoadUnloadHours)
	assert.InDelta(t, 12.75, d.OnDutyHours, 1e-9)
}

func TestComputeScheduleHighCycleBalanceTriggersRestart(t *testing.T) {
	e := newTestEngine(t)

	days, err := e.ComputeSchedule(domain.TripParameters{TotalDrivingHoursRequired: 11, CycleHoursUsedAtStart: 65})
	require.NoError(t, err)
	require.Len(t, days, 1)

	d := days[0]
	assert.GreaterOrEqual(t, d.Cycle8DayTotal, 70.0)
	assert.True(t, d.RequiresRestart)
	assert.False(t, d.Compliance.IsCompliant)
	assert.True(t, hasRule(d.Compliance, "70-hour/8-day limit (§395.3(b))"))
}

func TestComputeScheduleZeroHoursIsEmpty(t *testing.T) {
	e := newTestEngine(t)

	days, err := e.ComputeSchedule(domain.TripParameters{})
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestComputeScheduleRejectsInvalidParameters(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ComputeSchedule(domain.TripParameters{TotalDrivingHoursRequired: 5, CycleHoursUsedAtStart: 71})
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestComputeScheduleRejectsUnboundedDriving(t *testing.T) {
	e := newTestEngine(t)

	for _, hours := range []float64{1e300, 1e12, math.MaxFloat64, 11*domain.MaxScheduleDays + 0.5} {
		var err error
		require.NotPanics(t, func() {
			_, err = e.ComputeSchedule(domain.TripParameters{TotalDrivingHoursRequired: hours})
		}, "hours %v", hours)
		assert.ErrorIs(t, err, domain.ErrInvalidParameters, "hours %v", hours)
	}

	days, err := e.ComputeSchedule(domain.TripParameters{TotalDrivingHoursRequired: 11 * domain.MaxScheduleDays})
	require.NoError(t, err)
	assert.Len(t, days, domain.MaxScheduleDays)
}

func TestComputeScheduleEmitsTrailingDayBelowRounding(t *testing.T) {
	e := newTestEngine(t)

	// 330 tenths sum to 33 plus float drift; nudge it above 33 so the
	// fixed day count leaves a near-zero final day.
	var hours float64
	for i := 0; i < 330; i++ {
		hours += 0.1
	}
	hours = math.Max(hours, 33) + 1e-9
	require.Equal(t, 4, e.DayCount(hours))

	days, err := e.ComputeSchedule(domain.TripParameters{TotalDrivingHoursRequired: hours})
	require.NoError(t, err)
	require.Len(t, days, 4)

	last := days[3]
	assert.Equal(t, 4, last.DayNumber)
	assert.InDelta(t, 0, last.DrivingHours, 1e-6)
	assert.GreaterOrEqual(t, last.DrivingHours, 0.0)
	requireFullDay(t, last.Activities)

	var total float64
	for _, d := range days {
		total += d.DrivingHours
	}
	assert.InDelta(t, hours, total, 1e-9)
}

func TestComputeScheduleProperties(t *testing.T) {
	e := newTestEngine(t)
	limits := e.Limits()

	for _, hours := range []float64{0.5, 8, 11, 11.01, 22, 33, 40.5, 95, 123.4} {
		for _, cycle := range []float64{0, 20, 69.5} {
			days, err := e.ComputeSchedule(domain.TripParameters{
				TotalDrivingHoursRequired: hours,
				CycleHoursUsedAtStart:     cycle,
				TotalDistanceMiles:        hours * 55,
			})
			require.NoError(t, err)

			require.Len(t, days, int(math.Ceil(hours/limits.MaxDailyDriving)), "hours=%v", hours)

			var driving float64
			for i, d := range days {
				assert.Equal(t, i+1, d.DayNumber)
				assert.LessOrEqual(t, d.DrivingHours, limits.MaxDailyDriving)
				assert.GreaterOrEqual(t, d.OffDutyHours, limits.MinOffDutyHours)
				assert.LessOrEqual(t, d.OnDutyHours, limits.MaxDailyDutyWindow)
				assert.False(t, hasRule(d.Compliance, "11-hour driving limit (§395.3(a)(3))"))
				assert.Equal(t, d.DrivingHours > limits.BreakAfterHours, d.RequiresBreak)
				requireFullDay(t, d.Activities)
				driving += d.DrivingHours
			}
			assert.InDelta(t, hours, driving, 1e-6, "hours=%v", hours)
		}
	}
}

func TestComputeScheduleIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	p := domain.TripParameters{
		TotalDrivingHoursRequired: 37.5,
		CycleHoursUsedAtStart:     31,
		TotalDistanceMiles:        2060,
		StartDate:                 time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CurrentLocation:           "Chicago, IL",
		PickupLocation:            "Gary, IN",
		DropoffLocation:           "Denver, CO",
	}

	a, err := e.ComputeSchedule(p)
	require.NoError(t, err)
	b, err := e.ComputeSchedule(p)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestComputeScheduleFuelStopWhenIntervalCrossed(t *testing.T) {
	e := newTestEngine(t)

	// 605 miles per day: the 1000-mile mark falls on day 2.
	days, err := e.ComputeSchedule(domain.TripParameters{TotalDrivingHoursRequired: 22, TotalDistanceMiles: 1210})
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.False(t, days[0].HasFuelStop)
	assert.Empty(t, days[0].FuelStops)

	require.True(t, days[1].HasFuelStop)
	require.Len(t, days[1].FuelStops, 1)
	assert.InDelta(t, 1210, days[1].FuelStops[0].Mileage, 1e-9)
	assert.Equal(t, 1.0, days[1].FuelStops[0].Duration)
}

func TestComputeScheduleDatesAndRemarks(t *testing.T) {
	e := newTestEngine(t)

	days, err := e.ComputeSchedule(domain.TripParameters{
		TotalDrivingHoursRequired: 20,
		StartDate:                 time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		CurrentLocation:           "Dallas, TX",
		PickupLocation:            "Fort Worth, TX",
		DropoffLocation:           "Atlanta, GA",
	})
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Equal(t, "2025-12-31", days[0].Date)
	assert.Equal(t, "2026-01-01", days[1].Date)

	first := days[0].Remarks
	require.NotEmpty(t, first)
	assert.Equal(t, "Dallas, TX", first[0].Location)
	assert.Equal(t, "05:00", first[0].Time.String())
	assert.Equal(t, "Fort Worth, TX", first[1].Location)
	assert.Equal(t, "Rest stop", first[len(first)-1].Location)

	last := days[1].Remarks
	assert.Equal(t, "En route", last[0].Location)
	assert.Equal(t, "Atlanta, GA", last[len(last)-1].Location)
}

func TestComputeScheduleWithoutStartDateLeavesDateEmpty(t *testing.T) {
	e := newTestEngine(t)

	days, err := e.ComputeSchedule(domain.TripParameters{TotalDrivingHoursRequired: 4})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Empty(t, days[0].Date)
}

func TestDayCount(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, 0, e.DayCount(0))
	assert.Equal(t, 0, e.DayCount(-3))
	assert.Equal(t, 1, e.DayCount(11))
	assert.Equal(t, 2, e.DayCount(11.01))
	assert.Equal(t, 3, e.DayCount(33))
	assert.Equal(t, 0, e.DayCount(math.NaN()))
	assert.Equal(t, math.MaxInt32, e.DayCount(1e300))
}
