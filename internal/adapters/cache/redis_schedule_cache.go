package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/obs"
	"hos-schedule-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisScheduleCache stores computed schedules as JSON under caller-built keys.
// Entries expire after TTL; a zero TTL keeps them until evicted.
type RedisScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisScheduleCache(addr string, password string, ttl time.Duration) *RedisScheduleCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisScheduleCache{client: rdb, ttl: ttl}
}

// NewRedisScheduleCacheFromClient wraps an existing client.
func NewRedisScheduleCacheFromClient(client *redis.Client, ttl time.Duration) *RedisScheduleCache {
	return &RedisScheduleCache{client: client, ttl: ttl}
}

var _ ports.ScheduleCache = (*RedisScheduleCache)(nil)

// Ping checks the connection at startup.
func (c *RedisScheduleCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("schedule cache: ping: %w", err)
	}
	return nil
}

func (c *RedisScheduleCache) Close() error {
	return c.client.Close()
}

func (c *RedisScheduleCache) Get(ctx context.Context, key string) (_ []domain.DayRecord, _ bool, err error) {
	defer obs.Time(ctx, "schedule.cache.Get")(&err)

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("schedule cache: get %s: %w", key, err)
	}

	var days []domain.DayRecord
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, false, fmt.Errorf("schedule cache: decode %s: %w", key, err)
	}

	return days, true, nil
}

func (c *RedisScheduleCache) Put(ctx context.Context, key string, days []domain.DayRecord) error {
	raw, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("schedule cache: encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("schedule cache: set %s: %w", key, err)
	}
	return nil
}
