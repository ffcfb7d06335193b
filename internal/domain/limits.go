package domain

import (
	"errors"
	"fmt"
)

// Regulatory hours-of-service limits for property-carrying drivers.
// Loaded once at startup and passed into the schedule engine; read-only thereafter.
type RegulatoryLimits struct {
	MaxDailyDriving       float64
	MaxDailyDutyWindow    float64
	MinOffDutyHours       float64
	BreakAfterHours       float64
	BreakDuration         float64
	Max8DayCycleHours     float64
	FuelStopIntervalMiles float64
}

// DefaultLimits returns the FMCSA 70-hour/8-day property-carrying limits.
func DefaultLimits() RegulatoryLimits {
	return RegulatoryLimits{
		MaxDailyDriving:       11,
		MaxDailyDutyWindow:    14,
		MinOffDutyHours:       10,
		BreakAfterHours:       8,
		BreakDuration:         0.5,
		Max8DayCycleHours:     70,
		FuelStopIntervalMiles: 1000,
	}
}

// Durations of routine non-driving work and timeline anchors.
// These are planning assumptions, not regulation.
type DutyAssumptions struct {
	PreTripHours           float64
	PaperworkHours         float64
	PostTripHours          float64
	LoadUnloadHours        float64
	FuelStopHours          float64
	MaxDrivingSegmentHours float64
	DayStartRestHours      float64
	AverageSpeedMph        float64
	EstimatedLegMiles      float64
}

func DefaultAssumptions() DutyAssumptions {
	return DutyAssumptions{
		PreTripHours:           0.5,
		PaperworkHours:         0.25,
		PostTripHours:          0.5,
		LoadUnloadHours:        1,
		FuelStopHours:          1,
		MaxDrivingSegmentHours: 4,
		DayStartRestHours:      5,
		AverageSpeedMph:        55,
		EstimatedLegMiles:      600,
	}
}

// Validate rejects limits the schedule engine cannot partition with.
func (l RegulatoryLimits) Validate() error {
	if l.MaxDailyDriving <= 0 {
		return fmt.Errorf("regulatory limits: max daily driving must be > 0, got %v", l.MaxDailyDriving)
	}
	if l.MaxDailyDutyWindow <= 0 {
		return fmt.Errorf("regulatory limits: max daily duty window must be > 0, got %v", l.MaxDailyDutyWindow)
	}
	if l.MinOffDutyHours < 0 || l.BreakAfterHours < 0 || l.BreakDuration < 0 {
		return errors.New("regulatory limits: rest and break values must not be negative")
	}
	if l.Max8DayCycleHours <= 0 {
		return fmt.Errorf("regulatory limits: 8-day cycle ceiling must be > 0, got %v", l.Max8DayCycleHours)
	}
	if l.FuelStopIntervalMiles < 0 {
		return fmt.Errorf("regulatory limits: fuel stop interval must not be negative, got %v", l.FuelStopIntervalMiles)
	}
	return nil
}
