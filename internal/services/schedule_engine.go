package services

import (
	"fmt"
	"math"

	"hos-schedule-service/internal/domain"
)

// ScheduleEngine partitions a trip's driving into HOS-bounded duty days.
//
// The engine holds only read-only configuration; all running state lives in a
// single ComputeSchedule call, so one engine may serve concurrent requests.
type ScheduleEngine struct {
	limits      domain.RegulatoryLimits
	assumptions domain.DutyAssumptions
}

func NewScheduleEngine(limits domain.RegulatoryLimits, assumptions domain.DutyAssumptions) (*ScheduleEngine, error) {
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("new schedule engine: %w", err)
	}
	return &ScheduleEngine{limits: limits, assumptions: assumptions}, nil
}

func (e *ScheduleEngine) Limits() domain.RegulatoryLimits { return e.limits }

func (e *ScheduleEngine) Assumptions() domain.DutyAssumptions { return e.assumptions }

// DayCount returns how many duty days a trip needs: ceil(driving / daily cap).
// Counts past math.MaxInt32 saturate.
func (e *ScheduleEngine) DayCount(totalDrivingHours float64) int {
	if !(totalDrivingHours > 0) {
		return 0
	}
	n := math.Ceil(totalDrivingHours / e.limits.MaxDailyDriving)
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// ComputeSchedule produces one DayRecord per duty day, in order.
//
// The day count is fixed up front, so a trailing day whose driving rounded
// down to zero is still emitted. Days that break a limit are emitted with
// their violations; the engine never refuses to schedule. The result depends
// only on params and the engine configuration.
func (e *ScheduleEngine) ComputeSchedule(params domain.TripParameters) ([]domain.DayRecord, error) {
	if err := params.Validate(e.limits); err != nil {
		return nil, fmt.Errorf("compute schedule: %w", err)
	}

	total := e.DayCount(params.TotalDrivingHoursRequired)
	days := make([]domain.DayRecord, 0, total)
	if total == 0 {
		return days, nil
	}

	tracker := NewCycleTracker(params.CycleHoursUsedAtStart, e.limits.Max8DayCycleHours)
	milesPerDay := params.TotalDistanceMiles / float64(total)
	remaining := params.TotalDrivingHoursRequired

	for d := 1; d <= total; d++ {
		day := e.computeDay(d, total, math.Max(remaining, 0), milesPerDay, params, tracker)
		days = append(days, day)
		remaining -= day.DrivingHours
	}

	return days, nil
}

func (e *ScheduleEngine) computeDay(
	d int,
	total int,
	remaining float64,
	milesPerDay float64,
	params domain.TripParameters,
	tracker *CycleTracker,
) domain.DayRecord {
	l, a := e.limits, e.assumptions

	driving := math.Min(l.MaxDailyDriving, remaining)

	// Pickup on the first day, dropoff on the last; a one-day trip gets both.
	var loadUnload float64
	if d == 1 {
		loadUnload += a.LoadUnloadHours
	}
	if d == total {
		loadUnload += a.LoadUnloadHours
	}

	onDuty := driving + a.PreTripHours + a.PaperworkHours + loadUnload
	onDuty = math.Min(onDuty, l.MaxDailyDutyWindow)

	breaks := []domain.Break{}
	requiresBreak := driving > l.BreakAfterHours
	if requiresBreak {
		breaks = append(breaks, domain.Break{
			Type:        "30_min_break",
			Duration:    l.BreakDuration,
			Required:    true,
			Description: fmt.Sprintf("Required %g-minute break after %g hours driving (§395.3)", l.BreakDuration*60, l.BreakAfterHours),
		})
	}

	fuelStops := []domain.FuelStop{}
	cumulative := float64(d) * milesPerDay
	if l.FuelStopIntervalMiles > 0 {
		prev := float64(d-1) * milesPerDay
		if math.Floor(cumulative/l.FuelStopIntervalMiles) > math.Floor(prev/l.FuelStopIntervalMiles) {
			fuelStops = append(fuelStops, domain.FuelStop{
				Duration:    a.FuelStopHours,
				Description: fmt.Sprintf("Fuel stop required every %g miles", l.FuelStopIntervalMiles),
				Mileage:     cumulative,
			})
		}
	}

	var breakHours, fuelHours float64
	for _, b := range breaks {
		breakHours += b.Duration
	}
	for _, f := range fuelStops {
		fuelHours += f.Duration
	}

	// Rest never drops below the regulatory floor, even if the day's totals then exceed 24 hours.
	offDuty := math.Max(l.MinOffDutyHours, 24-(onDuty+breakHours+fuelHours+loadUnload))

	tracker.RecordDay(onDuty)

	timeline := BuildTimeline(TimelineInput{
		DrivingHours:  driving,
		BreakRequired: requiresBreak,
		FuelStop:      len(fuelStops) > 0,
	}, l, a)

	date := ""
	if !params.StartDate.IsZero() {
		date = params.StartDate.AddDate(0, 0, d-1).Format("2006-01-02")
	}

	return domain.DayRecord{
		DayNumber:       d,
		Date:            date,
		DrivingHours:    driving,
		OnDutyHours:     onDuty,
		OffDutyHours:    offDuty,
		SleeperHours:    0,
		Breaks:          breaks,
		FuelStops:       fuelStops,
		LoadUnloadHours: loadUnload,
		RequiresBreak:   requiresBreak,
		HasFuelStop:     len(fuelStops) > 0,
		Cycle7DayTotal:  tracker.Cycle7DayTotal(),
		Cycle8DayTotal:  tracker.Cycle8DayTotal(),
		RequiresRestart: tracker.RequiresRestart(),
		Activities:      timeline.Activities,
		Remarks:         BuildRemarks(d, total, params, timeline, l, a),
		Compliance: EvaluateCompliance(DayTotals{
			DrivingHours: driving,
			OnDutyHours:  onDuty,
			OffDutyHours: offDuty,
		}, tracker.Cycle8DayTotal(), l),
	}
}
