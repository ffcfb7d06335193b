package ports

import (
	"context"
	"hos-schedule-service/internal/domain"
)

// Persistent origin->destination distance lookups shared by distance providers.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}

// Persistent address->coordinate lookups shared by distance providers.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// Stores computed schedules keyed by a digest of the engine inputs.
// A miss is reported as (nil, false, nil).
type ScheduleCache interface {
	Get(ctx context.Context, key string) ([]domain.DayRecord, bool, error)
	Put(ctx context.Context, key string, days []domain.DayRecord) error
}
