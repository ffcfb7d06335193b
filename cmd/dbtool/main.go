package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"hos-schedule-service/internal/adapters/distance"
	"hos-schedule-service/internal/adapters/repositories"
	"hos-schedule-service/internal/config"
	"hos-schedule-service/internal/platform/db"
	"hos-schedule-service/internal/platform/logging"
	"hos-schedule-service/internal/services"

	"github.com/joho/godotenv"
)

// dbtool creates the schema and optionally seeds sample trips.
// Postgres is used when DATABASE_URL is set, SQLite at DB_PATH otherwise.
func main() {
	seedPath := flag.String("seed", "", "JSON file with an array of trip requests to plan and store")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found (using environment variables)")
	}

	slog.SetDefault(logging.New(os.Stderr, "hos-dbtool", logging.ParseLevel(config.Get("LOG_LEVEL", "info"))))

	if err := run(context.Background(), *seedPath); err != nil {
		slog.Error("dbtool failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, seedPath string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}

	conn, dialect, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	slog.Info("initializing database schema", "store", dialect.String())
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	slog.Info("schema ready")

	if seedPath == "" {
		return nil
	}

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

	// Seeding never calls out to a routing service.
	provider, err := distance.NewFixedDistanceProvider(assumptions.EstimatedLegMiles, assumptions.AverageSpeedMph)
	if err != nil {
		return err
	}

	planner := &services.TripPlanner{
		Engine:   engine,
		Provider: provider,
		Repo:     repositories.NewSQLTripRepository(conn, dialect),
	}

	slog.Info("seeding trips", "path", seedPath)
	n, err := seedTrips(ctx, planner, seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	slog.Info("seeding complete", "trips", n)

	return nil
}

func openStore(cfg config.Server) (*sql.DB, db.Dialect, error) {
	if cfg.UsePostgres() {
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, db.Postgres, err
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	return conn, db.SQLite, err
}
