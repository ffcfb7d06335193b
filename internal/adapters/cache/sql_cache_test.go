package cache

import (
	"context"
	"database/sql"
	"testing"

	"hos-schedule-service/internal/adapters/repositories"
	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/db"
	"hos-schedule-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, repositories.InitSchema(context.Background(), conn, db.SQLite))
	return conn
}

func TestSQLDistanceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSQLDistanceCache(openTestDB(t), db.SQLite)

	hits, err := c.GetMany(ctx, "Dallas, TX", []string{"Atlanta, GA"})
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, c.PutMany(ctx, "Dallas, TX", map[string]ports.DistanceResult{
		"Atlanta, GA": {DistanceMeters: 1255000, DurationSeconds: 42000},
		"Houston, TX": {DistanceMeters: 385000, DurationSeconds: 13000},
	}))

	// Upsert replaces an existing row.
	require.NoError(t, c.PutMany(ctx, "Dallas, TX", map[string]ports.DistanceResult{
		"Houston, TX": {DistanceMeters: 386000, DurationSeconds: 13100},
	}))

	hits, err = c.GetMany(ctx, "Dallas, TX", []string{"Atlanta, GA", " Houston, TX ", "Atlanta, GA", "Denver, CO", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]ports.DistanceResult{
		"Atlanta, GA": {DistanceMeters: 1255000, DurationSeconds: 42000},
		"Houston, TX": {DistanceMeters: 386000, DurationSeconds: 13100},
	}, hits)
}

func TestSQLDistanceCacheValidation(t *testing.T) {
	ctx := context.Background()
	c := NewSQLDistanceCache(openTestDB(t), db.SQLite)

	_, err := c.GetMany(ctx, "", []string{"x"})
	assert.Error(t, err)
	assert.Error(t, c.PutMany(ctx, "", map[string]ports.DistanceResult{"x": {}}))
	assert.Error(t, c.PutMany(ctx, "a", map[string]ports.DistanceResult{" ": {}}))

	empty := &SQLDistanceCache{}
	_, err = empty.GetMany(ctx, "a", []string{"b"})
	assert.Error(t, err)
}

func TestSQLGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSQLGeocodeCache(openTestDB(t), db.SQLite)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"Denver, CO": {Lon: -104.99, Lat: 39.74},
	}))

	hits, err := c.GetMany(ctx, []string{"Denver, CO", "Boise, ID"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, -104.99, hits["Denver, CO"].Lon, 1e-9)
	assert.InDelta(t, 39.74, hits["Denver, CO"].Lat, 1e-9)
}

func TestUniqueKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueKeys([]string{" a", "b", "a", "", "  "}))
}
