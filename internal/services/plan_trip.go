package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/obs"
	"hos-schedule-service/internal/ports"

	"github.com/google/uuid"
)

// Validated trip request, as forwarded by the API layer.
type TripRequest struct {
	TripType          string
	State             string
	CurrentLocation   string
	PickupLocation    string
	DropoffLocation   string
	CurrentCycleUsed  float64
	CMVWeight         int
	RequiresCDL       bool
	AdverseConditions bool
	IncludesHazmat    bool
	// Zero means the current day.
	StartDate time.Time
}

// Everything produced for one trip request.
type TripPlan struct {
	TripID          string
	Trip            domain.Trip
	Route           domain.RouteEstimate
	Days            []domain.DayRecord
	Summary         domain.ComplianceSummary
	Exceptions      []domain.HOSException
	LegalReferences []domain.LegalReference
	GeneratedAt     time.Time
}

// A previously planned trip read back from storage.
type StoredTrip struct {
	Trip    domain.Trip
	Days    []domain.DayRecord
	Summary domain.ComplianceSummary
}

// TripPlanner coordinates route estimation, scheduling, caching and persistence.
// Cache is optional; Now and NewID default to the wall clock and NewTripID.
type TripPlanner struct {
	Engine   *ScheduleEngine
	Provider ports.DistanceProvider
	Repo     ports.TripRepository
	Cache    ports.ScheduleCache
	Now      func() time.Time
	NewID    func() string
}

// NewTripID returns an identifier of the form TRIP-1A2B3C4D.
func NewTripID() string {
	id := uuid.New()
	return "TRIP-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}

// ScheduleCacheKey digests everything the engine output depends on.
func ScheduleCacheKey(limits domain.RegulatoryLimits, a domain.DutyAssumptions, p domain.TripParameters) (string, error) {
	b, err := json.Marshal(struct {
		Limits      domain.RegulatoryLimits
		Assumptions domain.DutyAssumptions
		Params      domain.TripParameters
	}{limits, a, p})
	if err != nil {
		return "", fmt.Errorf("schedule cache key: %w", err)
	}

	sum := sha256.Sum256(b)
	return "schedule:" + hex.EncodeToString(sum[:]), nil
}

func (p *TripPlanner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *TripPlanner) newID() string {
	if p.NewID != nil {
		return p.NewID()
	}
	return NewTripID()
}

func (p *TripPlanner) check() error {
	if p.Engine == nil {
		return errors.New("trip planner: engine is nil")
	}
	if p.Provider == nil {
		return errors.New("trip planner: distance provider is nil")
	}
	if p.Repo == nil {
		return errors.New("trip planner: repository is nil")
	}
	return nil
}

// Plan estimates the route, computes the duty schedule and stores the result.
func (p *TripPlanner) Plan(ctx context.Context, req TripRequest) (_ *TripPlan, err error) {
	defer obs.Time(ctx, "trip.Plan")(&err)

	if err := p.check(); err != nil {
		return nil, err
	}

	limits := p.Engine.Limits()
	assumptions := p.Engine.Assumptions()

	route, err := EstimateRoute(
		ctx, p.Provider,
		req.CurrentLocation, req.PickupLocation, req.DropoffLocation,
		assumptions.AverageSpeedMph, limits.MaxDailyDriving,
	)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	now := p.now()
	start := req.StartDate
	if start.IsZero() {
		start = now
	}
	// Day stamps are calendar dates; drop the time of day.
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	params := domain.TripParameters{
		TotalDrivingHoursRequired: route.DrivingHours,
		CycleHoursUsedAtStart:     req.CurrentCycleUsed,
		TotalDistanceMiles:        route.DistanceMiles,
		StartDate:                 start,
		RequiresCDL:               req.RequiresCDL,
		AdverseConditions:         req.AdverseConditions,
		Hazmat:                    req.IncludesHazmat,
		CurrentLocation:           req.CurrentLocation,
		PickupLocation:            req.PickupLocation,
		DropoffLocation:           req.DropoffLocation,
	}

	days, err := p.schedule(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	tripType := req.TripType
	if tripType == "" {
		tripType = "interstate"
	}

	trip := domain.Trip{
		TripID:            p.newID(),
		TripType:          tripType,
		State:             req.State,
		CurrentLocation:   req.CurrentLocation,
		PickupLocation:    req.PickupLocation,
		DropoffLocation:   req.DropoffLocation,
		CurrentCycleUsed:  req.CurrentCycleUsed,
		CMVWeight:         req.CMVWeight,
		RequiresCDL:       req.RequiresCDL,
		AdverseConditions: req.AdverseConditions,
		IncludesHazmat:    req.IncludesHazmat,
		CreatedAt:         now.UTC(),
	}

	if err := p.Repo.SaveTrip(ctx, trip, days); err != nil {
		return nil, fmt.Errorf("plan trip: save trip %s: %w", trip.TripID, err)
	}

	slog.InfoContext(ctx, "trip planned",
		"trip_id", trip.TripID,
		"days", len(days),
		"distance_miles", route.DistanceMiles,
	)

	return &TripPlan{
		TripID:          trip.TripID,
		Trip:            trip,
		Route:           *route,
		Days:            days,
		Summary:         domain.Summarize(days),
		Exceptions:      CheckExceptions(params),
		LegalReferences: LegalReferences(),
		GeneratedAt:     now,
	}, nil
}

// schedule serves from the cache when possible. Cache failures only cost a recompute.
func (p *TripPlanner) schedule(ctx context.Context, params domain.TripParameters) ([]domain.DayRecord, error) {
	if p.Cache == nil {
		return p.Engine.ComputeSchedule(params)
	}

	key, err := ScheduleCacheKey(p.Engine.Limits(), p.Engine.Assumptions(), params)
	if err != nil {
		return nil, err
	}

	days, ok, err := p.Cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "schedule cache read failed", "key", key, "err", err)
	} else if ok {
		return days, nil
	}

	days, err = p.Engine.ComputeSchedule(params)
	if err != nil {
		return nil, err
	}

	if err := p.Cache.Put(ctx, key, days); err != nil {
		slog.WarnContext(ctx, "schedule cache write failed", "key", key, "err", err)
	}

	return days, nil
}

// Lookup reads a stored trip and recomputes its compliance summary.
func (p *TripPlanner) Lookup(ctx context.Context, tripID string) (_ *StoredTrip, err error) {
	defer obs.Time(ctx, "trip.Lookup")(&err)

	if p.Repo == nil {
		return nil, errors.New("trip planner: repository is nil")
	}

	trip, days, err := p.Repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("lookup trip %s: %w", tripID, err)
	}

	return &StoredTrip{Trip: *trip, Days: days, Summary: domain.Summarize(days)}, nil
}
