package distance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/obs"
	"hos-schedule-service/internal/ports"
)

const (
	defaultORSBaseURL = "https://api.openrouteservice.org"
	// Heavy goods vehicle routing; car routes understate truck distance.
	defaultORSProfile = "driving-hgv"
)

// ORSDistanceProvider measures trip legs using OpenRouteService.
//
// Each leg is resolved through the distance cache first, then geocoded
// (through the geocode cache) and routed with the directions endpoint.
// Cache failures are logged and never fail a lookup. Safe for concurrent use.
type ORSDistanceProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	profile       string
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
	retry         retryPolicy
}

// Either cache may be nil.
func NewORSDistanceProvider(
	apiKey string,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
) (*ORSDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSDistanceProvider{
		session:       &http.Client{Timeout: 10 * time.Second},
		apiKey:        apiKey,
		baseURL:       defaultORSBaseURL,
		profile:       defaultORSProfile,
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
		retry:         defaultRetryPolicy(),
	}, nil
}

// WithBaseURL points the provider at another ORS instance.
func (o *ORSDistanceProvider) WithBaseURL(u string) *ORSDistanceProvider {
	o.baseURL = strings.TrimRight(u, "/")
	return o
}

var _ ports.DistanceProvider = (*ORSDistanceProvider)(nil)

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistance")(&err)

	from := normalize(origin)
	to := normalize(destination)
	if from == "" || to == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: origin and destination must be non-empty")
	}

	if from == to {
		return ports.DistanceResult{}, nil
	}

	if o.distanceCache != nil {
		hits, err := o.distanceCache.GetMany(ctx, from, []string{to})
		if err != nil {
			slog.WarnContext(ctx, "distance cache read failed", "origin", from, "err", err)
		} else if r, ok := hits[to]; ok {
			return r, nil
		}
	}

	coords, err := o.resolve(ctx, []string{from, to})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance %q -> %q: %w", from, to, err)
	}

	r, err := o.fetchRoute(ctx, coords[from], coords[to])
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get ORS distance %q -> %q: %w", from, to, err)
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.PutMany(ctx, from, map[string]ports.DistanceResult{to: r}); err != nil {
			slog.WarnContext(ctx, "distance cache write failed", "origin", from, "err", err)
		}
	}

	return r, nil
}

// resolve returns coordinates for every address, geocoding cache misses.
func (o *ORSDistanceProvider) resolve(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	coords := make(map[string]domain.Coordinates, len(addresses))

	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			slog.WarnContext(ctx, "geocode cache read failed", "err", err)
		}
		for k, v := range hits {
			coords[k] = v
		}
	}

	misses := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if _, ok := coords[a]; !ok {
			misses = append(misses, a)
		}
	}
	if len(misses) == 0 {
		return coords, nil
	}

	fresh, err := o.geocodeMany(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			slog.WarnContext(ctx, "geocode cache write failed", "err", err)
		}
	}

	for k, v := range fresh {
		coords[k] = v
	}
	for _, a := range addresses {
		if _, ok := coords[a]; !ok {
			return nil, fmt.Errorf("missing coordinate for %q", a)
		}
	}

	return coords, nil
}
