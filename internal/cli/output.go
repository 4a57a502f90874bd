package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/rec-dropins/internal/record"
	"github.com/pfrederiksen/rec-dropins/internal/run"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, FormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
}

// WriteSummary writes a refresh summary in the specified format.
func WriteSummary(w io.Writer, summary run.Summary, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, summary)
	}

	fmt.Fprintf(w, "Facilities checked: %d\n", summary.Facilities)
	fmt.Fprintf(w, "Collector invocations: %d (%d failed)\n", summary.Invocations, summary.Failed)
	fmt.Fprintf(w, "Records collected: %d, merged: %d, new: %d\n",
		summary.Collected, summary.Merged, summary.Inserted)
	return nil
}

// WriteRecords writes query results in the specified format.
func WriteRecords(w io.Writer, records []record.Record, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, records)
	}
	return writeRecordsText(w, records, verbose)
}

// writeJSON outputs results as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeRecordsText outputs records as human-readable text
func writeRecordsText(w io.Writer, records []record.Record, verbose bool) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(w, "%s %s %s-%s  %s @ %s%s\n",
			rec.Weekday,
			rec.Start.Format("2006-01-02"),
			rec.Start.Format("15:04"),
			rec.End.Format("15:04"),
			rec.ProgramName,
			rec.FacilityName,
			recordBadges(rec),
		)
		if verbose {
			if rec.District != "" {
				fmt.Fprintf(w, "     District: %s\n", rec.District)
			}
			if rec.Address != "" {
				fmt.Fprintf(w, "     Address: %s\n", rec.Address)
			}
			fmt.Fprintf(w, "     Source: %s\n", rec.SourceURL)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d records\n", len(records))
	return nil
}

// recordBadges renders the optional age/fee/reservation suffix.
func recordBadges(rec record.Record) string {
	var badges string
	switch {
	case rec.AgeMin != nil && rec.AgeMax != nil:
		badges += fmt.Sprintf(" [%d-%d]", *rec.AgeMin, *rec.AgeMax)
	case rec.AgeMin != nil:
		badges += fmt.Sprintf(" [%d+]", *rec.AgeMin)
	case rec.AgeMax != nil:
		badges += fmt.Sprintf(" [up to %d]", *rec.AgeMax)
	}
	if rec.FeeCAD != nil {
		badges += fmt.Sprintf(" $%.2f", *rec.FeeCAD)
	}
	if rec.ReserveRequired {
		badges += " (reserve)"
	}
	return badges
}
