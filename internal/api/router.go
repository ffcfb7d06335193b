package api

import (
	"context"
	"net/http"

	"hos-schedule-service/internal/api/handlers"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
// check may be nil.
func NewRouter(planner handlers.TripService, check func(ctx context.Context) error) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Check: check}
	tripHandler := &handlers.TripHandler{Planner: planner}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/trips", tripHandler.Plan)
	mux.HandleFunc("/trips/{id}", tripHandler.Get)

	return requestIDMiddleware(loggingMiddleware(mux))
}
