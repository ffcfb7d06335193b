package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidParameters = errors.New("invalid trip parameters")

// MaxScheduleDays caps the duty days one schedule may span (ten years).
const MaxScheduleDays = 3660

// Inputs to a single schedule computation.
// TripParameters is immutable for the duration of one computation; the
// classification flags are consumed only by exception eligibility checks.
type TripParameters struct {
	TotalDrivingHoursRequired float64
	CycleHoursUsedAtStart     float64
	TotalDistanceMiles        float64
	StartDate                 time.Time

	RequiresCDL       bool
	AdverseConditions bool
	Hazmat            bool

	// Labels used only in remarks.
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
}

// Validate reports whether p lies inside the engine's input domain.
func (p TripParameters) Validate(limits RegulatoryLimits) error {
	if math.IsNaN(p.TotalDrivingHoursRequired) || math.IsInf(p.TotalDrivingHoursRequired, 0) || p.TotalDrivingHoursRequired < 0 {
		return fmt.Errorf("%w: total driving hours %v must be a finite value >= 0", ErrInvalidParameters, p.TotalDrivingHoursRequired)
	}
	if limits.MaxDailyDriving > 0 && math.Ceil(p.TotalDrivingHoursRequired/limits.MaxDailyDriving) > MaxScheduleDays {
		return fmt.Errorf(
			"%w: total driving hours %v would need more than %d duty days",
			ErrInvalidParameters, p.TotalDrivingHoursRequired, MaxScheduleDays,
		)
	}
	if math.IsNaN(p.CycleHoursUsedAtStart) || p.CycleHoursUsedAtStart < 0 || p.CycleHoursUsedAtStart > limits.Max8DayCycleHours {
		return fmt.Errorf(
			"%w: cycle hours used %v must be between 0 and %v",
			ErrInvalidParameters, p.CycleHoursUsedAtStart, limits.Max8DayCycleHours,
		)
	}
	if math.IsNaN(p.TotalDistanceMiles) || p.TotalDistanceMiles < 0 {
		return fmt.Errorf("%w: total distance %v must be >= 0", ErrInvalidParameters, p.TotalDistanceMiles)
	}
	return nil
}

// Represents a stored trip request.
type Trip struct {
	TripID            string    `json:"trip_id"`
	TripType          string    `json:"trip_type"`
	State             string    `json:"state,omitempty"`
	CurrentLocation   string    `json:"current_location"`
	PickupLocation    string    `json:"pickup_location"`
	DropoffLocation   string    `json:"dropoff_location"`
	CurrentCycleUsed  float64   `json:"current_cycle_used"`
	CMVWeight         int       `json:"cmv_weight"`
	RequiresCDL       bool      `json:"requires_cdl"`
	AdverseConditions bool      `json:"adverse_conditions"`
	IncludesHazmat    bool      `json:"includes_hazmat"`
	CreatedAt         time.Time `json:"created_at"`
}
