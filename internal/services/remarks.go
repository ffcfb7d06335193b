package services

import (
	"fmt"

	"hos-schedule-service/internal/domain"
)

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// BuildRemarks writes the narrative log remarks for one day.
// Times are taken from the day's timeline so remarks always line up with the grid.
func BuildRemarks(
	dayNumber int,
	totalDays int,
	params domain.TripParameters,
	t Timeline,
	limits domain.RegulatoryLimits,
	a domain.DutyAssumptions,
) []domain.Remark {
	startLocation := "En route"
	if dayNumber == 1 {
		startLocation = orDefault(params.CurrentLocation, "Terminal")
	}

	remarks := []domain.Remark{{
		Time:        t.DutyStart,
		Location:    startLocation,
		Description: "Reported for duty, began pre-trip inspection",
	}}

	if dayNumber == 1 && a.LoadUnloadHours > 0 {
		remarks = append(remarks, domain.Remark{
			Time:        t.DutyStart + domain.ClockFromHours(a.PreTripHours),
			Location:    orDefault(params.PickupLocation, "Pickup location"),
			Description: fmt.Sprintf("Arrived for pickup, %g hour loading time", a.LoadUnloadHours),
		})
	}

	if t.HasBreak {
		remarks = append(remarks, domain.Remark{
			Time:        t.BreakStart,
			Location:    "Rest area",
			Description: fmt.Sprintf("%g-minute break as required by §395.3(a)(3)(ii)", limits.BreakDuration*60),
		})
	}

	if t.HasFuelStop {
		remarks = append(remarks, domain.Remark{
			Time:        t.FuelStopStart,
			Location:    "Truck stop",
			Description: fmt.Sprintf("Fuel stop - required every %g miles", limits.FuelStopIntervalMiles),
		})
	}

	endLocation := "Rest stop"
	if dayNumber == totalDays {
		endLocation = orDefault(params.DropoffLocation, "Destination")
	}
	remarks = append(remarks, domain.Remark{
		Time:        t.DutyEnd,
		Location:    endLocation,
		Description: "End of duty day, began off-duty period",
	})

	return remarks
}
