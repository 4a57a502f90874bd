package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/rec-dropins/internal/storage"
	"github.com/spf13/cobra"
)

var (
	listDay      string
	listWeekday  string
	listDistrict string
	listAfter    string
	listAge      int
	listFormat   string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored schedule records",
	Long: `List queries the local database. Filters combine with AND.

--day resolves today/tomorrow/yesterday (or a YYYY-MM-DD date) in the
configured timezone and matches records on that weekday. --after takes a
24-hour HH:MM local time. --age matches records whose age range contains the
value, treating a missing bound as open.

Example:
  rec-dropins list --day today --after 18:00
  rec-dropins list --weekday wednesday --district "North York" --age 19
  rec-dropins list --day 2025-09-01 --format json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listDay, "day", "", "today, tomorrow, yesterday, or YYYY-MM-DD")
	listCmd.Flags().StringVar(&listWeekday, "weekday", "", "weekday name (e.g. monday or Mon)")
	listCmd.Flags().StringVar(&listDistrict, "district", "", "district name")
	listCmd.Flags().StringVar(&listAfter, "after", "", "earliest local start time (HH:MM)")
	listCmd.Flags().IntVar(&listAge, "age", -1, "age the record's range must contain")
	listCmd.Flags().StringVar(&listFormat, "format", "text", "Output format: text or json")
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(listFormat)
	if err != nil {
		return err
	}
	if listDay != "" && listWeekday != "" {
		return fmt.Errorf("--day and --weekday are mutually exclusive")
	}

	cfg, loc, err := loadConfig()
	if err != nil {
		return err
	}

	filter := storage.Filter{District: listDistrict}

	if listDay != "" {
		day, err := resolveDay(listDay, time.Now().In(loc), loc)
		if err != nil {
			return err
		}
		filter.Weekday = day.Format("Mon")
	}
	if listWeekday != "" {
		wd, err := normalizeWeekday(listWeekday)
		if err != nil {
			return err
		}
		filter.Weekday = wd
	}
	if listAfter != "" {
		minutes, err := parseAfter(listAfter)
		if err != nil {
			return err
		}
		filter.MinStartMinutes = minutes
	}
	if listAge >= 0 {
		age := listAge
		filter.Age = &age
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

	return WriteRecords(os.Stdout, records, format, verbose)
}

// resolveDay turns a --day value into a calendar date in loc.
func resolveDay(s string, now time.Time, loc *time.Location) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	day, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (want today, tomorrow, yesterday, or YYYY-MM-DD)", s)
	}
	return day, nil
}

// normalizeWeekday maps long or short weekday names to the stored "Mon" form.
func normalizeWeekday(s string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d.String()[:3], nil
		}
	}
	return "", fmt.Errorf("invalid weekday %q", s)
}

// parseAfter converts a 24-hour HH:MM string to minutes since midnight.
func parseAfter(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
