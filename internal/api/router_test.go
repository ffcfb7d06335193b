package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hos-schedule-service/internal/adapters/distance"
	"hos-schedule-service/internal/adapters/repositories"
	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/db"
	"hos-schedule-service/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the real planner over in-memory SQLite and fixed distances.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(context.Background(), conn, db.SQLite))

	engine, err := services.NewScheduleEngine(domain.DefaultLimits(), domain.DefaultAssumptions())
	require.NoError(t, err)
	provider, err := distance.NewFixedDistanceProvider(600, 55)
	require.NoError(t, err)

	planner := &services.TripPlanner{
		Engine:   engine,
		Provider: provider,
		Repo:     repositories.NewSQLTripRepository(conn, db.SQLite),
		Now:      func() time.Time { return time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC) },
	}

	srv := httptest.NewServer(NewRouter(planner, conn.PingContext))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouterPlanThenFetch(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/trips", "application/json", strings.NewReader(
		`{"current_location":"Chicago, IL","pickup_location":"Gary, IN","dropoff_location":"Denver, CO","current_cycle_used":"20"}`,
	))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var created struct {
		TripID string `json:"trip_id"`
	}
	require.NoError(t, decodeJSON(resp, &created))
	assert.Regexp(t, `^TRIP-[0-9A-F]{8}$`, created.TripID)

	got, err := http.Get(srv.URL + "/trips/" + created.TripID)
	require.NoError(t, err)
	defer got.Body.Close()
	require.Equal(t, http.StatusOK, got.StatusCode)

	var fetched struct {
		Trip    domain.Trip        `json:"trip"`
		EldLogs []domain.DayRecord `json:"eld_logs"`
	}
	require.NoError(t, decodeJSON(got, &fetched))
	assert.Equal(t, created.TripID, fetched.Trip.TripID)
	require.Len(t, fetched.EldLogs, 2)
	assert.Equal(t, "2025-01-06", fetched.EldLogs[0].Date)
}

func TestRouterKeepsIncomingRequestID(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "trace-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "trace-42", resp.Header.Get("X-Request-ID"))
}

func TestRouterUnknownTrip(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/trips/TRIP-00000000")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func decodeJSON(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}
