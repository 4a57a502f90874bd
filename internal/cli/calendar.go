package cli

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/rec-dropins/internal/calendar"
	"github.com/pfrederiksen/rec-dropins/internal/storage"
	"github.com/spf13/cobra"
)

var (
	calFacilityID string
	calWeekday    string
	calDistrict   string
	calOut        string
)

// calendarCmd represents the calendar command
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Export stored records as an iCalendar file",
	Long: `Calendar exports matching records as an RFC 5545 iCalendar document.
Event UIDs are derived from each record's identity, so re-exporting the same
records produces the same calendar.

Example:
  rec-dropins calendar --facility-id north-york-cc --out dropins.ics
  rec-dropins calendar --district "East York" > dropins.ics`,
	RunE: runCalendar,
}

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().StringVar(&calFacilityID, "facility-id", "", "restrict to one facility")
	calendarCmd.Flags().StringVar(&calWeekday, "weekday", "", "weekday name (e.g. monday or Mon)")
	calendarCmd.Flags().StringVar(&calDistrict, "district", "", "district name")
	calendarCmd.Flags().StringVar(&calOut, "out", "", "output path (default: stdout)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	filter := storage.Filter{
		FacilityID: calFacilityID,
		District:   calDistrict,
	}
	if calWeekday != "" {
		wd, err := normalizeWeekday(calWeekday)
		if err != nil {
			return err
		}
		filter.Weekday = wd
	}

	store, err := storage.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	records, err := store.QueryRecords(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("querying records: %w", err)
	}

	ics := calendar.GenerateICS(records)

	if calOut == "" {
		fmt.Print(ics)
		return nil
	}
	if err := os.WriteFile(calOut, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", len(records), calOut)
	}
	return nil
}
