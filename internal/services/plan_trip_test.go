package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"hos-schedule-service/internal/adapters/distance"
	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTripRepo struct {
	trips   map[string]domain.Trip
	days    map[string][]domain.DayRecord
	saveErr error
}

func newMemTripRepo() *memTripRepo {
	return &memTripRepo{trips: map[string]domain.Trip{}, days: map[string][]domain.DayRecord{}}
}

func (r *memTripRepo) SaveTrip(ctx context.Context, trip domain.Trip, days []domain.DayRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.trips[trip.TripID] = trip
	r.days[trip.TripID] = days
	return nil
}

func (r *memTripRepo) GetTrip(ctx context.Context, id string) (*domain.Trip, []domain.DayRecord, error) {
	t, ok := r.trips[id]
	if !ok {
		return nil, nil, ports.ErrTripNotFound
	}
	return &t, r.days[id], nil
}

type memScheduleCache struct {
	entries map[string][]domain.DayRecord
	gets    int
	puts    int
	getErr  error
}

func (c *memScheduleCache) Get(ctx context.Context, key string) ([]domain.DayRecord, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	d, ok := c.entries[key]
	return d, ok, nil
}

func (c *memScheduleCache) Put(ctx context.Context, key string, days []domain.DayRecord) error {
	c.puts++
	c.entries[key] = days
	return nil
}

func newTestPlanner(t *testing.T, repo ports.TripRepository) *TripPlanner {
	t.Helper()

	provider, err := distance.NewFixedDistanceProvider(600, 55)
	require.NoError(t, err)

	return &TripPlanner{
		Engine:   newTestEngine(t),
		Provider: provider,
		Repo:     repo,
		Now:      func() time.Time { return time.Date(2025, 1, 6, 15, 4, 5, 0, time.UTC) },
		NewID:    func() string { return "TRIP-0000ABCD" },
	}
}

func TestNewTripIDFormat(t *testing.T) {
	id := NewTripID()
	assert.Regexp(t, regexp.MustCompile(`^TRIP-[0-9A-F]{8}$`), id)
	assert.NotEqual(t, id, NewTripID())
}

func TestPlanStoresTrip(t *testing.T) {
	repo := newMemTripRepo()
	p := newTestPlanner(t, repo)

	plan, err := p.Plan(context.Background(), TripRequest{
		CurrentLocation:  "Chicago, IL",
		PickupLocation:   "Gary, IN",
		DropoffLocation:  "Denver, CO",
		CurrentCycleUsed: 20,
		CMVWeight:        26000,
		RequiresCDL:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, "TRIP-0000ABCD", plan.TripID)
	assert.Equal(t, "interstate", plan.Trip.TripType)

	// Two 600-mile legs at 55 mph.
	assert.InDelta(t, 1200, plan.Route.DistanceMiles, 1e-3)
	assert.Len(t, plan.Days, 2)
	assert.Equal(t, "2025-01-06", plan.Days[0].Date)
	assert.Equal(t, len(plan.Days), plan.Summary.TotalDays)
	assert.Equal(t, []string{"sixteen_hour"}, kinds(plan.Exceptions))
	assert.Len(t, plan.LegalReferences, 4)

	stored, err := p.Lookup(context.Background(), plan.TripID)
	require.NoError(t, err)
	assert.Equal(t, plan.Trip, stored.Trip)
	assert.Equal(t, plan.Days, stored.Days)
	assert.Equal(t, plan.Summary, stored.Summary)
}

func TestPlanUsesRequestedStartDate(t *testing.T) {
	p := newTestPlanner(t, newMemTripRepo())

	plan, err := p.Plan(context.Background(), TripRequest{
		CurrentLocation: "Dallas, TX",
		PickupLocation:  "Dallas, TX",
		DropoffLocation: "Atlanta, GA",
		StartDate:       time.Date(2025, 7, 4, 18, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, plan.Days)
	assert.Equal(t, "2025-07-04", plan.Days[0].Date)
	assert.Len(t, plan.Route.Legs, 1)
}

func TestPlanRepositoryFailureFails(t *testing.T) {
	repo := newMemTripRepo()
	repo.saveErr = errors.New("disk full")
	p := newTestPlanner(t, repo)

	_, err := p.Plan(context.Background(), TripRequest{PickupLocation: "A", DropoffLocation: "B"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestPlanRejectsCycleOutOfRange(t *testing.T) {
	p := newTestPlanner(t, newMemTripRepo())

	_, err := p.Plan(context.Background(), TripRequest{PickupLocation: "A", DropoffLocation: "B", CurrentCycleUsed: 80})
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestPlanScheduleCache(t *testing.T) {
	cache := &memScheduleCache{entries: map[string][]domain.DayRecord{}}
	p := newTestPlanner(t, newMemTripRepo())
	p.Cache = cache

	req := TripRequest{PickupLocation: "A", DropoffLocation: "B", CurrentCycleUsed: 10}

	first, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.puts)

	second, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.puts, "second plan should be served from the cache")
	assert.Equal(t, first.Days, second.Days)
}

func TestPlanCacheErrorsDoNotFailRequest(t *testing.T) {
	cache := &memScheduleCache{entries: map[string][]domain.DayRecord{}, getErr: errors.New("connection refused")}
	p := newTestPlanner(t, newMemTripRepo())
	p.Cache = cache

	plan, err := p.Plan(context.Background(), TripRequest{PickupLocation: "A", DropoffLocation: "B"})
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Days)
}

func TestLookupUnknownTrip(t *testing.T) {
	p := newTestPlanner(t, newMemTripRepo())

	_, err := p.Lookup(context.Background(), "TRIP-FFFFFFFF")
	assert.ErrorIs(t, err, ports.ErrTripNotFound)
}

func TestScheduleCacheKeyDependsOnInputs(t *testing.T) {
	l, a := domain.DefaultLimits(), domain.DefaultAssumptions()

	k1, err := ScheduleCacheKey(l, a, domain.TripParameters{TotalDrivingHoursRequired: 10})
	require.NoError(t, err)
	k2, err := ScheduleCacheKey(l, a, domain.TripParameters{TotalDrivingHoursRequired: 10})
	require.NoError(t, err)
	k3, err := ScheduleCacheKey(l, a, domain.TripParameters{TotalDrivingHoursRequired: 10.5})
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Regexp(t, `^schedule:[0-9a-f]{64}$`, k1)
}
