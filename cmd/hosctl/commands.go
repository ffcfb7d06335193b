package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"hos-schedule-service/internal/adapters/repositories"
	"hos-schedule-service/internal/config"
	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/platform/db"
	"hos-schedule-service/internal/services"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hosctl",
		Short: "Hours-of-service schedule tool",
		Long: `Compute HOS-compliant duty schedules, check regulatory exceptions and
inspect stored trips. Limits and duty assumptions come from HOS_* environment
variables, falling back to the FMCSA property-carrying defaults.`,
		SilenceUsage: true,
	}

	root.AddCommand(scheduleCmd())
	root.AddCommand(exceptionsCmd())
	root.AddCommand(showCmd())
	return root
}

func newEngine() (*services.ScheduleEngine, error) {
	limits, err := config.LoadLimits()
	if err != nil {
		return nil, err
	}
	assumptions, err := config.LoadAssumptions()
	if err != nil {
		return nil, err
	}
	return services.NewScheduleEngine(limits, assumptions)
}

// scheduleCmd runs the engine directly on driving hours and distance.
func scheduleCmd() *cobra.Command {
	var hours, cycle, miles float64
	var start string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute a day-by-day duty schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}

			params := domain.TripParameters{
				TotalDrivingHoursRequired: hours,
				CycleHoursUsedAtStart:     cycle,
				TotalDistanceMiles:        miles,
			}
			if start != "" {
				t, err := time.Parse("2006-01-02", start)
				if err != nil {
					return fmt.Errorf("invalid start date (use YYYY-MM-DD): %w", err)
				}
				params.StartDate = t
			}

			days, err := engine.ComputeSchedule(params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputFormat == "json" {
				return writeJSON(out, days)
			}
			return writeDays(out, days)
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 0, "Total driving hours required")
	cmd.Flags().Float64Var(&cycle, "cycle", 0, "On-duty hours already used in the 8-day cycle")
	cmd.Flags().Float64Var(&miles, "miles", 0, "Total trip distance in miles")
	cmd.Flags().StringVar(&start, "start", "", "First duty day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
	_ = cmd.MarkFlagRequired("hours")
	return cmd
}

func exceptionsCmd() *cobra.Command {
	var miles float64
	var cdl, adverse, hazmat bool
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "exceptions",
		Short: "List the HOS exceptions a trip qualifies for",
		RunE: func(cmd *cobra.Command, args []string) error {
			found := services.CheckExceptions(domain.TripParameters{
				TotalDistanceMiles: miles,
				RequiresCDL:        cdl,
				AdverseConditions:  adverse,
				Hazmat:             hazmat,
			})

			out := cmd.OutOrStdout()
			if outputFormat == "json" {
				return writeJSON(out, found)
			}

			if len(found) == 0 {
				fmt.Fprintln(out, "No exceptions apply.")
				return nil
			}
			for _, e := range found {
				fmt.Fprintf(out, "%s (%s)\n", e.Name, e.CFRSection)
				for _, b := range e.Benefits {
					fmt.Fprintf(out, "  + %s\n", b)
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&miles, "miles", 0, "Total trip distance in miles")
	cmd.Flags().BoolVar(&cdl, "cdl", true, "Vehicle requires a CDL")
	cmd.Flags().BoolVar(&adverse, "adverse", false, "Adverse driving conditions expected")
	cmd.Flags().BoolVar(&hazmat, "hazmat", false, "Trip carries hazardous materials")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
	return cmd
}

// showCmd prints a stored trip from the configured database.
func showCmd() *cobra.Command {
	var dbPath string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "show [trip-id]",
		Short: "Show a stored trip and its logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				conn    *sql.DB
				dialect = db.SQLite
				err     error
			)
			if url := config.Get("DATABASE_URL", ""); url != "" {
				conn, err = db.Open(url)
				dialect = db.Postgres
			} else {
				conn, err = db.OpenSQLite(dbPath)
			}
			if err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer conn.Close()

			repo := repositories.NewSQLTripRepository(conn, dialect)
			trip, days, err := repo.GetTrip(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputFormat == "json" {
				return writeJSON(out, map[string]any{
					"trip":               trip,
					"eld_logs":           days,
					"compliance_summary": domain.Summarize(days),
				})
			}

			fmt.Fprintf(out, "%s  %s -> %s -> %s  (cycle used %.2fh)\n\n",
				trip.TripID, trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation, trip.CurrentCycleUsed)
			return writeDays(out, days)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", config.Get("DB_PATH", "data/app.db"), "Path to SQLite database")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeDays(w io.Writer, days []domain.DayRecord) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No driving required.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tDATE\tDRIVE\tON DUTY\tOFF DUTY\tBREAK\tFUEL\t8-DAY\tRESTART\tVIOLATIONS")
	for _, d := range days {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%t\t%t\t%.2f\t%t\t%d\n",
			d.DayNumber, d.Date, d.DrivingHours, d.OnDutyHours, d.OffDutyHours,
			d.RequiresBreak, d.HasFuelStop, d.Cycle8DayTotal, d.RequiresRestart,
			len(d.Compliance.Violations))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := domain.Summarize(days)
	status := "compliant"
	if !s.IsCompliant {
		status = fmt.Sprintf("%d violation(s)", s.ViolationCount)
	}
	_, err := fmt.Fprintf(w, "\n%d day(s), %.2f driving hours, %s\n", s.TotalDays, s.TotalTripHours, status)
	return err
}
