package distance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocodeMany resolves city or address strings one at a time via /geocode/search.
// Keys in the result are normalized.
func (o *ORSDistanceProvider) geocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	endpoint := o.baseURL + "/geocode/search"

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		norm := normalize(a)
		if _, ok := out[norm]; ok || norm == "" {
			continue
		}

		c, err := o.geocodeOne(ctx, endpoint, norm)
		if err != nil {
			return nil, err
		}
		out[norm] = c
	}

	return out, nil
}

func (o *ORSDistanceProvider) geocodeOne(ctx context.Context, endpoint string, address string) (domain.Coordinates, error) {
	q := url.Values{}
	q.Set("text", address)
	q.Set("boundary.country", "US")
	q.Set("size", "1")

	var decoded geocodeResponse
	if err := o.callJSON(ctx, http.MethodGet, endpoint, q, nil, &decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
