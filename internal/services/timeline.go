package services

import (
	"fmt"

	"hos-schedule-service/internal/domain"
)

// What the timeline needs to know about a day.
type TimelineInput struct {
	DrivingHours  float64
	BreakRequired bool
	FuelStop      bool
}

// A laid-out log day plus the anchor times remarks refer to.
type Timeline struct {
	Activities    []domain.ActivityInterval
	DutyStart     domain.ClockTime
	DutyEnd       domain.ClockTime
	BreakStart    domain.ClockTime
	HasBreak      bool
	FuelStopStart domain.ClockTime
	HasFuelStop   bool
}

type timelineBuilder struct {
	cursor int
	out    []domain.ActivityInterval
}

// add appends an interval at the cursor, clamped to the end of the day.
// It returns the interval start and false when nothing was appended.
func (b *timelineBuilder) add(status domain.DutyStatus, minutes int, description string) (domain.ClockTime, bool) {
	start := b.cursor
	if minutes <= 0 || start >= domain.MinutesPerDay {
		return domain.ClockTime(start), false
	}

	end := start + minutes
	if end > domain.MinutesPerDay {
		end = domain.MinutesPerDay
	}

	b.out = append(b.out, domain.ActivityInterval{
		Status:        status,
		Start:         domain.ClockTime(start),
		End:           domain.ClockTime(end),
		DurationHours: float64(end-start) / 60,
		Description:   description,
	})
	b.cursor = end

	return domain.ClockTime(start), true
}

// BuildTimeline lays out one log day on a minute grid covering 00:00-24:00
// with no gaps or overlaps.
//
// Fixed template: rest tail from the prior day, pre-trip inspection, driving in
// bounded segments with the mandatory break once cumulative driving reaches the
// break threshold, an optional fuel stop, post-trip inspection, then off duty
// through midnight. A day without driving collapses to the anchors and rest.
func BuildTimeline(in TimelineInput, limits domain.RegulatoryLimits, a domain.DutyAssumptions) Timeline {
	b := &timelineBuilder{}
	var t Timeline

	b.add(domain.StatusOffDuty, domain.MinutesFromHours(a.DayStartRestHours), "Off duty - rest period")

	t.DutyStart = domain.ClockTime(b.cursor)
	b.add(domain.StatusOnDuty, domain.MinutesFromHours(a.PreTripHours), "Pre-trip vehicle inspection")

	drivingMin := domain.MinutesFromHours(in.DrivingHours)
	segmentMax := domain.MinutesFromHours(a.MaxDrivingSegmentHours)
	if segmentMax <= 0 {
		segmentMax = drivingMin
	}
	breakAt := domain.MinutesFromHours(limits.BreakAfterHours)
	breakMin := domain.MinutesFromHours(limits.BreakDuration)
	breakDesc := fmt.Sprintf("%d-minute break required after %g hours driving", breakMin, limits.BreakAfterHours)

	pendingBreak := in.BreakRequired
	driven := 0
	for driven < drivingMin {
		seg := min(segmentMax, drivingMin-driven)
		// Cut the segment at the break threshold so the break lands exactly there.
		if pendingBreak && driven < breakAt {
			seg = min(seg, breakAt-driven)
		}

		b.add(domain.StatusDriving, seg, "Driving")
		driven += seg

		if pendingBreak && driven >= breakAt {
			t.BreakStart, t.HasBreak = b.add(domain.StatusOffDuty, breakMin, breakDesc)
			pendingBreak = false
		}
	}

	if in.FuelStop {
		t.FuelStopStart, t.HasFuelStop = b.add(domain.StatusOnDuty, domain.MinutesFromHours(a.FuelStopHours), "Fuel stop - refueling vehicle")
	}

	b.add(domain.StatusOnDuty, domain.MinutesFromHours(a.PostTripHours), "Post-trip inspection and paperwork")
	t.DutyEnd = domain.ClockTime(b.cursor)

	b.add(domain.StatusOffDuty, domain.MinutesPerDay-b.cursor, "Off duty - required rest period")

	t.Activities = b.out
	return t
}
