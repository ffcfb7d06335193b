package domain

// Represents a single driven leg of a trip.
type RouteLeg struct {
	Start         string  `json:"start"`
	End           string  `json:"end"`
	DistanceMiles float64 `json:"distance"`
	DurationHours float64 `json:"duration"`
}

// Represents the estimated route for a trip.
// A RouteEstimate feeds the schedule engine with total distance and the
// driving hours implied by the configured average speed.
// It is immutable planning data and contains no side effects.
type RouteEstimate struct {
	Legs            []RouteLeg `json:"legs"`
	DistanceMiles   float64    `json:"distance_miles"`
	DrivingHours    float64    `json:"driving_hours"`
	EstimatedDays   int        `json:"estimated_days"`
	AverageSpeedMph float64    `json:"average_speed"`
	Note            string     `json:"note,omitempty"`
}
