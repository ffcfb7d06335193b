package domain

import (
	"encoding/json"
	"fmt"
)

// DutyStatus is one of the four ELD grid rows.
type DutyStatus string

const (
	StatusOffDuty      DutyStatus = "off_duty"
	StatusSleeperBerth DutyStatus = "sleeper_berth"
	StatusDriving      DutyStatus = "driving"
	StatusOnDuty       DutyStatus = "on_duty"
)

func (s DutyStatus) String() string { return string(s) }

// IsValid returns true if the status is a recognized ELD row.
func (s DutyStatus) IsValid() bool {
	switch s {
	case StatusOffDuty, StatusSleeperBerth, StatusDriving, StatusOnDuty:
		return true
	}
	return false
}

// Minutes past midnight within a single log day, 0 (00:00) through 1440 (24:00).
type ClockTime int

const (
	MinutesPerDay           = 24 * 60
	EndOfDay      ClockTime = MinutesPerDay
)

// ClockFromHours rounds decimal hours to the nearest whole minute.
func ClockFromHours(h float64) ClockTime {
	return ClockTime(MinutesFromHours(h))
}

// MinutesFromHours converts decimal hours to whole minutes, rounding to nearest.
// Negative input yields zero.
func MinutesFromHours(h float64) int {
	if h <= 0 {
		return 0
	}
	return int(h*60 + 0.5)
}

func (c ClockTime) Hours() float64 { return float64(c) / 60 }

// Return the time as HH:MM; the end of the day renders as 24:00.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("clock time: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseClock parses an HH:MM string in the range 00:00..24:00.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	c := ClockTime(h*60 + m)
	if c > EndOfDay {
		return 0, fmt.Errorf("parse clock %q: past end of day", s)
	}
	return c, nil
}

// A contiguous block of one duty status inside a log day.
type ActivityInterval struct {
	Status        DutyStatus `json:"status"`
	Start         ClockTime  `json:"start"`
	End           ClockTime  `json:"end"`
	DurationHours float64    `json:"duration"`
	Description   string     `json:"description"`
}

type Remark struct {
	Time        ClockTime `json:"time"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

type Break struct {
	Type        string  `json:"type"`
	Duration    float64 `json:"duration"`
	Required    bool    `json:"required"`
	Description string  `json:"description"`
}

type FuelStop struct {
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
	Mileage     float64 `json:"mileage"`
}

type Violation struct {
	Rule        string  `json:"rule"`
	LimitValue  float64 `json:"limit"`
	ActualValue float64 `json:"actual"`
	Action      string  `json:"action,omitempty"`
}

type ComplianceResult struct {
	IsCompliant bool        `json:"is_compliant"`
	Violations  []Violation `json:"violations"`
	Summary     string      `json:"summary"`
}

// One duty day of an estimated schedule. Never mutated once produced.
//
// The activity timeline always covers exactly 24 hours. The hour totals follow
// the planning arithmetic instead, and OffDutyHours never drops below the
// regulatory minimum even when that pushes the totals past 24.
type DayRecord struct {
	DayNumber       int                `json:"day_number"`
	Date            string             `json:"date"`
	DrivingHours    float64            `json:"driving_hours"`
	OnDutyHours     float64            `json:"on_duty_hours"`
	OffDutyHours    float64            `json:"off_duty_hours"`
	SleeperHours    float64            `json:"sleeper_hours"`
	Breaks          []Break            `json:"breaks"`
	FuelStops       []FuelStop         `json:"fuel_stops"`
	LoadUnloadHours float64            `json:"load_unload_time"`
	RequiresBreak   bool               `json:"requires_break"`
	HasFuelStop     bool               `json:"has_fuel_stop"`
	Cycle7DayTotal  float64            `json:"cycle_7day_total"`
	Cycle8DayTotal  float64            `json:"cycle_8day_total"`
	RequiresRestart bool               `json:"requires_restart"`
	Activities      []ActivityInterval `json:"activities"`
	Remarks         []Remark           `json:"remarks"`
	Compliance      ComplianceResult   `json:"compliance"`
}

// Sum of the break durations scheduled for the day.
func (d DayRecord) BreakHours() float64 {
	var total float64
	for _, b := range d.Breaks {
		total += b.Duration
	}
	return total
}

func (d DayRecord) FuelStopHours() float64 {
	var total float64
	for _, f := range d.FuelStops {
		total += f.Duration
	}
	return total
}
