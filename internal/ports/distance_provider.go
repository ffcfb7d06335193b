package ports

import "context"

const metersPerMile = 1609.344

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Return the distance in statute miles.
func (r DistanceResult) Miles() float64 { return float64(r.DistanceMeters) / metersPerMile }

// MetersFromMiles converts statute miles to whole meters.
func MetersFromMiles(miles float64) int { return int(miles*metersPerMile + 0.5) }

// Contract for retrieving travel distance and duration between locations.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two locations.
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}
