package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/obs"
	"hos-schedule-service/internal/ports"
)

// Providers that only approximate distances describe how.
type estimateNoter interface {
	Note() string
}

// EstimateRoute measures the trip legs current->pickup->dropoff and converts
// total distance into driving hours at the given average speed.
//
// The current->pickup leg is skipped when the driver is already at the pickup.
// Driving hours come from distance and speed, not from the provider's duration,
// so a fixed-estimate provider and a routing service are interchangeable.
func EstimateRoute(
	ctx context.Context,
	provider ports.DistanceProvider,
	current string,
	pickup string,
	dropoff string,
	averageSpeedMph float64,
	maxDailyDriving float64,
) (_ *domain.RouteEstimate, err error) {
	defer obs.Time(ctx, "route.Estimate")(&err)

	if provider == nil {
		return nil, errors.New("estimate route: distance provider is nil")
	}
	if averageSpeedMph <= 0 {
		return nil, fmt.Errorf("estimate route: average speed must be > 0, got %v", averageSpeedMph)
	}

	current = strings.TrimSpace(current)
	pickup = strings.TrimSpace(pickup)
	dropoff = strings.TrimSpace(dropoff)
	if pickup == "" || dropoff == "" {
		return nil, errors.New("estimate route: pickup and dropoff must be non-empty")
	}

	type stop struct{ from, to string }
	stops := make([]stop, 0, 2)
	if current != "" && !strings.EqualFold(current, pickup) {
		stops = append(stops, stop{from: current, to: pickup})
	}
	stops = append(stops, stop{from: pickup, to: dropoff})

	est := &domain.RouteEstimate{
		Legs:            make([]domain.RouteLeg, 0, len(stops)),
		AverageSpeedMph: averageSpeedMph,
	}

	for _, s := range stops {
		r, err := provider.GetDistance(ctx, s.from, s.to)
		if err != nil {
			return nil, fmt.Errorf("estimate route: get distance %q -> %q: %w", s.from, s.to, err)
		}

		miles := r.Miles()
		est.Legs = append(est.Legs, domain.RouteLeg{
			Start:         s.from,
			End:           s.to,
			DistanceMiles: miles,
			DurationHours: miles / averageSpeedMph,
		})
		est.DistanceMiles += miles
	}

	if n, ok := provider.(estimateNoter); ok {
		est.Note = n.Note()
	}

	est.DrivingHours = est.DistanceMiles / averageSpeedMph
	if maxDailyDriving > 0 && est.DrivingHours > 0 {
		est.EstimatedDays = int(math.Ceil(est.DrivingHours / maxDailyDriving))
	}

	return est, nil
}
