package cli

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/rec-dropins/internal/collector"
	"github.com/pfrederiksen/rec-dropins/internal/facility"
	"github.com/pfrederiksen/rec-dropins/internal/fetch"
	"github.com/pfrederiksen/rec-dropins/internal/logger"
	"github.com/pfrederiksen/rec-dropins/internal/run"
	"github.com/pfrederiksen/rec-dropins/internal/storage"
	"github.com/spf13/cobra"
)

var refreshFormat string

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Collect schedules from both sources and update the database",
	Long: `Refresh runs both collection strategies over every facility in the
directory, reconciles their results, and commits new records to the database.

The activity-search results are fetched directly; the rendered drop-in pages
go through a rate-limited client with randomized delays and a robots.txt
check. Individual fetch or parse failures are logged and skipped so one flaky
facility never blocks the rest of the run.

Example:
  rec-dropins refresh
  rec-dropins refresh --facilities facilities.json --db records.sqlite3
  rec-dropins refresh --format json`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().StringVar(&refreshFormat, "format", "text", "Output format: text or json")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(refreshFormat)
	if err != nil {
		return err
	}

	cfg, loc, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr)
	logger.SetDefault(log)

	facilities, err := facility.LoadDirectory(cfg.Facilities)
	if err != nil {
		return fmt.Errorf("loading facility directory: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Facilities: %d\n", len(facilities))
		fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Database)
		fmt.Fprintf(os.Stderr, "Timezone: %s\n", cfg.Timezone)
	}

	// The search results are server-rendered and cheap; only the rendered
	// facility pages get the full politeness treatment.
	searchClient := fetch.New(fetch.Config{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		MaxBytes:  cfg.MaxBytes,
		CacheTTL:  cfg.CacheTTL,
	})
	pageClient := fetch.New(fetch.Config{
		UserAgent:         cfg.UserAgent,
		Timeout:           cfg.Timeout,
		MaxBytes:          cfg.MaxBytes,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		JitterMin:         cfg.JitterMin,
		JitterMax:         cfg.JitterMax,
		CheckRobots:       cfg.CheckRobots,
		CacheTTL:          cfg.CacheTTL,
	})

	store, err := storage.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	runner := run.New(store, loc, log,
		collector.NewActiveSearch(searchClient, cfg.Activity, cfg.ProgramLabel),
		collector.NewFacilityPage(pageClient, cfg.Activity, cfg.ProgramLabel),
	)

	summary, err := runner.Run(cmd.Context(), facilities)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	return WriteSummary(os.Stdout, summary, format)
}
