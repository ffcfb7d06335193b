package distance

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/obs"
	"hos-schedule-service/internal/ports"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Units       string      `json:"units"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// fetchRoute asks the directions endpoint for the best route between two points.
func (o *ORSDistanceProvider) fetchRoute(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.fetchRoute")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	var dr directionsResponse
	err = o.callJSON(ctx, http.MethodPost, endpoint, nil, directionsRequest{
		Coordinates: [][]float64{from.CoordsToList(), to.CoordsToList()},
		Units:       "m",
	}, &dr)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("directions request failed: %w", err)
	}

	if len(dr.Routes) == 0 {
		return ports.DistanceResult{}, fmt.Errorf("no route between %v and %v", from, to)
	}

	s := dr.Routes[0].Summary
	// ORS returns float metrics; round to whole meters and seconds.
	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(s.Distance)),
		DurationSeconds: int(math.Round(s.Duration)),
	}, nil
}
