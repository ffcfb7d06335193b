package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"hos-schedule-service/internal/domain"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number: %w", key, v, err)
	}
	return f, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration: %w", key, v, err)
	}
	return d, nil
}

// floatVar binds one env key to a float field for table-driven loading.
type floatVar struct {
	key string
	dst *float64
}

func loadFloats(vars []floatVar) error {
	for _, v := range vars {
		f, err := GetFloat(v.key, *v.dst)
		if err != nil {
			return err
		}
		*v.dst = f
	}
	return nil
}

// LoadLimits reads HOS_* overrides on top of the FMCSA defaults.
func LoadLimits() (domain.RegulatoryLimits, error) {
	l := domain.DefaultLimits()

	err := loadFloats([]floatVar{
		{"HOS_MAX_DAILY_DRIVING", &l.MaxDailyDriving},
		{"HOS_MAX_DAILY_DUTY_WINDOW", &l.MaxDailyDutyWindow},
		{"HOS_MIN_OFF_DUTY_HOURS", &l.MinOffDutyHours},
		{"HOS_BREAK_AFTER_HOURS", &l.BreakAfterHours},
		{"HOS_BREAK_DURATION", &l.BreakDuration},
		{"HOS_MAX_8DAY_CYCLE_HOURS", &l.Max8DayCycleHours},
		{"HOS_FUEL_STOP_INTERVAL_MILES", &l.FuelStopIntervalMiles},
	})
	if err != nil {
		return domain.RegulatoryLimits{}, fmt.Errorf("load limits: %w", err)
	}

	if err := l.Validate(); err != nil {
		return domain.RegulatoryLimits{}, fmt.Errorf("load limits: %w", err)
	}
	return l, nil
}

func LoadAssumptions() (domain.DutyAssumptions, error) {
	a := domain.DefaultAssumptions()

	err := loadFloats([]floatVar{
		{"HOS_PRE_TRIP_HOURS", &a.PreTripHours},
		{"HOS_PAPERWORK_HOURS", &a.PaperworkHours},
		{"HOS_POST_TRIP_HOURS", &a.PostTripHours},
		{"HOS_LOAD_UNLOAD_HOURS", &a.LoadUnloadHours},
		{"HOS_FUEL_STOP_HOURS", &a.FuelStopHours},
		{"HOS_MAX_DRIVING_SEGMENT_HOURS", &a.MaxDrivingSegmentHours},
		{"HOS_DAY_START_REST_HOURS", &a.DayStartRestHours},
		{"AVERAGE_SPEED_MPH", &a.AverageSpeedMph},
		{"ESTIMATED_LEG_MILES", &a.EstimatedLegMiles},
	})
	if err != nil {
		return domain.DutyAssumptions{}, fmt.Errorf("load assumptions: %w", err)
	}

	if a.AverageSpeedMph <= 0 {
		return domain.DutyAssumptions{}, fmt.Errorf("load assumptions: AVERAGE_SPEED_MPH must be > 0, got %v", a.AverageSpeedMph)
	}
	return a, nil
}

// Process-level settings for cmd/server.
type Server struct {
	Port             string
	LogLevel         string
	DBPath           string
	DatabaseURL      string
	ORSAPIKey        string
	RedisAddr        string
	RedisPassword    string
	ScheduleCacheTTL time.Duration
}

// UsePostgres reports whether storage should go to Postgres instead of SQLite.
func (s Server) UsePostgres() bool { return s.DatabaseURL != "" }

func LoadServer() (Server, error) {
	ttl, err := GetDuration("SCHEDULE_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return Server{}, fmt.Errorf("load server config: %w", err)
	}

	return Server{
		Port:             Get("PORT", "8080"),
		LogLevel:         Get("LOG_LEVEL", "info"),
		DBPath:           Get("DB_PATH", "data/app.db"),
		DatabaseURL:      Get("DATABASE_URL", ""),
		ORSAPIKey:        Get("ORS_API_KEY", ""),
		RedisAddr:        Get("REDIS_ADDR", ""),
		RedisPassword:    Get("REDIS_PASSWORD", ""),
		ScheduleCacheTTL: ttl,
	}, nil
}
