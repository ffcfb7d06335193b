package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"hos-schedule-service/internal/api/dto"
	"hos-schedule-service/internal/ports"
	"hos-schedule-service/internal/services"
)

const maxBodyBytes = 1 << 20

// TripService is the subset of the trip planner the handlers need.
type TripService interface {
	Plan(ctx context.Context, req services.TripRequest) (*services.TripPlan, error)
	Lookup(ctx context.Context, tripID string) (*services.StoredTrip, error)
}

type TripHandler struct {
	Planner TripService
}

// Plan validates an untyped trip payload, schedules it and stores the result.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var raw map[string]any

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()

	if err := dec.Decode(&raw); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	req, err := dto.ParseTripRequest(raw)
	if err != nil {
		var ve *dto.ValidationError
		if errors.As(err, &ve) {
			writeError(w, r, http.StatusBadRequest, ve.Msg)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	plan, err := h.Planner.Plan(r.Context(), req)
	if err != nil {
		slog.ErrorContext(r.Context(), "plan trip failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.PlanTripResponse{
		TripID:            plan.TripID,
		Trip:              plan.Trip,
		Route:             plan.Route,
		EldLogs:           plan.Days,
		ComplianceSummary: plan.Summary,
		Exceptions:        plan.Exceptions,
		LegalReferences:   plan.LegalReferences,
		GeneratedAt:       plan.GeneratedAt,
	})
}

// Get returns a stored trip and its logs.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "trip id is required")
		return
	}

	stored, err := h.Planner.Lookup(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "lookup trip failed", "trip_id", id, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GetTripResponse{
		Trip:              stored.Trip,
		EldLogs:           stored.Days,
		ComplianceSummary: stored.Summary,
	})
}
