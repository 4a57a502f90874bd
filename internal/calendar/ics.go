// Package calendar renders schedule records as iCalendar (.ics) documents.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/rec-dropins/internal/record"
)

const prodID = "-//rec-dropins//rec-dropins//EN"

// GenerateICS renders one calendar containing a VEVENT per record. Events are
// identified by the record's deterministic ID, so regenerating a calendar for
// the same records yields the same UIDs.
func GenerateICS(records []record.Record) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", prodID))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	now := time.Now().UTC()
	for _, rec := range records {
		writeEvent(&ics, rec, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, rec record.Record, stamp time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@rec-dropins\r\n", rec.ID()))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(stamp)))
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(rec.Start)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(rec.End)))

	summary := fmt.Sprintf("%s @ %s", rec.ProgramName, rec.FacilityName)
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary)))

	location := rec.FacilityName
	if rec.Address != "" {
		location = fmt.Sprintf("%s, %s", rec.FacilityName, rec.Address)
	}
	ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location)))

	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(describe(rec))))
	if rec.SourceURL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", rec.SourceURL))
	}
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// describe builds the human-readable event description embedding age range,
// fee, and provenance.
func describe(rec record.Record) string {
	parts := []string{
		fmt.Sprintf("Ages: %s", ageLabel(rec.AgeMin, rec.AgeMax)),
	}
	if rec.FeeCAD != nil {
		parts = append(parts, fmt.Sprintf("Fee: $%.2f", *rec.FeeCAD))
	} else {
		parts = append(parts, "Fee: none listed")
	}
	if rec.ReserveRequired {
		parts = append(parts, "Reservation required")
	}
	if rec.SourceURL != "" {
		parts = append(parts, fmt.Sprintf("Source: %s", rec.SourceURL))
	}
	return strings.Join(parts, "\n")
}

func ageLabel(min, max *int) string {
	switch {
	case min == nil && max == nil:
		return "all ages"
	case max == nil:
		return fmt.Sprintf("%d+", *min)
	case min == nil:
		return fmt.Sprintf("up to %d", *max)
	default:
		return fmt.Sprintf("%d-%d", *min, *max)
	}
}

// formatICSTime formats an instant as an iCalendar UTC datetime.
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters per RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
