package distance

import (
	"context"
	"errors"
	"fmt"

	"hos-schedule-service/internal/ports"
)

// FixedDistanceProvider estimates every leg at the same mileage. It is the
// fallback when no routing service is configured.
type FixedDistanceProvider struct {
	legMiles float64
	speedMph float64
}

func NewFixedDistanceProvider(legMiles float64, speedMph float64) (*FixedDistanceProvider, error) {
	if legMiles <= 0 {
		return nil, fmt.Errorf("fixed distance provider: leg miles must be > 0, got %v", legMiles)
	}
	if speedMph <= 0 {
		return nil, fmt.Errorf("fixed distance provider: speed must be > 0, got %v", speedMph)
	}
	return &FixedDistanceProvider{legMiles: legMiles, speedMph: speedMph}, nil
}

var _ ports.DistanceProvider = (*FixedDistanceProvider)(nil)

func (p *FixedDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	if normalize(origin) == "" || normalize(destination) == "" {
		return ports.DistanceResult{}, errors.New("fixed distance: origin and destination must be non-empty")
	}

	return ports.DistanceResult{
		DistanceMeters:  ports.MetersFromMiles(p.legMiles),
		DurationSeconds: int(p.legMiles / p.speedMph * 3600),
	}, nil
}

// Note marks estimates built from this provider as placeholders.
func (p *FixedDistanceProvider) Note() string {
	return fmt.Sprintf("Estimated route: %g miles per leg at %g mph; no routing service configured", p.legMiles, p.speedMph)
}
