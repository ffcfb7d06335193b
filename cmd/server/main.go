package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hos-schedule-service/internal/adapters/cache"
	"hos-schedule-service/internal/adapters/distance"
	"hos-schedule-service/internal/adapters/repositories"
	"hos-schedule-service/internal/api"
	"hos-schedule-service/internal/config"
	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/db"
	"hos-schedule-service/internal/platform/logging"
	"hos-schedule-service/internal/ports"
	"hos-schedule-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, ORS or fixed estimates, Redis)
// behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, "hos-schedule-service", logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	if envErr != nil {
		slog.Info("no .env file found, using environment variables")
	}

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limits, err := config.LoadLimits()
	if err != nil {
		return err
	}
	assumptions, err := config.LoadAssumptions()
	if err != nil {
		return err
	}

	engine, err := services.NewScheduleEngine(limits, assumptions)
	if err != nil {
		return err
	}

	conn, dialect, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}

	provider, err := newProvider(cfg, conn, dialect, assumptions)
	if err != nil {
		return err
	}

	planner := &services.TripPlanner{
		Engine:   engine,
		Provider: provider,
		Repo:     repositories.NewSQLTripRepository(conn, dialect),
	}

	if cfg.RedisAddr != "" {
		sc := cache.NewRedisScheduleCache(cfg.RedisAddr, cfg.RedisPassword, cfg.ScheduleCacheTTL)
		defer sc.Close()

		// Redis is optional; run without it rather than refuse to start.
		if err := sc.Ping(ctx); err != nil {
			slog.Warn("schedule cache disabled", "addr", cfg.RedisAddr, "err", err)
		} else {
			planner.Cache = sc
		}
	}

	router := api.NewRouter(planner, conn.PingContext)

	// Write timeout covers cold-cache route lookups against ORS.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "store", dialect.String(), "schedule_cache", planner.Cache != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg config.Server) (*sql.DB, db.Dialect, error) {
	if cfg.UsePostgres() {
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, db.Postgres, err
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	return conn, db.SQLite, err
}

// newProvider uses ORS with database-backed caches when a key is configured,
// and fixed per-leg estimates otherwise.
func newProvider(
	cfg config.Server,
	conn *sql.DB,
	dialect db.Dialect,
	a domain.DutyAssumptions,
) (ports.DistanceProvider, error) {
	if cfg.ORSAPIKey == "" {
		slog.Info("ORS_API_KEY not set, using fixed leg estimates", "leg_miles", a.EstimatedLegMiles)
		return distance.NewFixedDistanceProvider(a.EstimatedLegMiles, a.AverageSpeedMph)
	}

	return distance.NewORSDistanceProvider(
		cfg.ORSAPIKey,
		cache.NewSQLDistanceCache(conn, dialect),
		cache.NewSQLGeocodeCache(conn, dialect),
	)
}
