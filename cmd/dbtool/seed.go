package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"hos-schedule-service/internal/api/dto"
	"hos-schedule-service/internal/services"
)

// seedTrips plans every request in a JSON array file and stores the results.
// Requests go through the same validation as the HTTP API.
func seedTrips(ctx context.Context, planner *services.TripPlanner, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("seed trips: read %q: %w", path, err)
	}

	var items []map[string]any
	if err := json.Unmarshal(b, &items); err != nil {
		return 0, fmt.Errorf("seed trips: parse json: %w", err)
	}

	for i, raw := range items {
		req, err := dto.ParseTripRequest(raw)
		if err != nil {
			return i, fmt.Errorf("seed trips: item %d: %w", i+1, err)
		}

		plan, err := planner.Plan(ctx, req)
		if err != nil {
			return i, fmt.Errorf("seed trips: item %d: %w", i+1, err)
		}

		slog.Info("seeded trip", "trip_id", plan.TripID, "days", len(plan.Days))
	}

	return len(items), nil
}
