package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/rec-dropins/internal/record"
)

func sampleRecord(t *testing.T) record.Record {
	t.Helper()
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	start := time.Date(2025, 9, 1, 19, 30, 0, 0, loc)
	age := 19
	fee := 3.50
	return record.Record{
		FacilityID:      "north-york-cc",
		FacilityName:    "North York Community Centre",
		District:        "North York",
		Address:         "15 Example Ave, Toronto",
		ProgramName:     "Volleyball Drop-in",
		AgeMin:          &age,
		Weekday:         "Mon",
		Start:           start,
		End:             start.Add(2 * time.Hour),
		FeeCAD:          &fee,
		ReserveRequired: true,
		SourceURL:       "https://example.com/dropin",
	}
}

func TestGenerateICS(t *testing.T) {
	rec := sampleRecord(t)
	ics := GenerateICS([]record.Record{rec})

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//rec-dropins//rec-dropins//EN",
		"BEGIN:VEVENT",
		"UID:" + rec.ID() + "@rec-dropins",
		"DTSTAMP:",
		// 19:30 EDT is 23:30 UTC.
		"DTSTART:20250901T233000Z",
		"DTEND:20250902T013000Z",
		"SUMMARY:Volleyball Drop-in @ North York Community Centre",
		"LOCATION:North York Community Centre\\, 15 Example Ave\\, Toronto",
		"DESCRIPTION:",
		"Ages: 19+",
		"Fee: $3.50",
		"Reservation required",
		"URL:https://example.com/dropin",
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing required content: %s", field)
		}
	}

	if !strings.Contains(ics, "\r\n") {
		t.Error("ICS should use CRLF line endings")
	}
}

func TestGenerateICSMultipleEvents(t *testing.T) {
	first := sampleRecord(t)
	second := sampleRecord(t)
	second.Start = second.Start.AddDate(0, 0, 2)
	second.End = second.End.AddDate(0, 0, 2)

	ics := GenerateICS([]record.Record{first, second})

	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("VEVENT count = %d, want 2", got)
	}
	if first.ID() == second.ID() {
		t.Error("distinct events should have distinct UIDs")
	}
}

func TestGenerateICSEmpty(t *testing.T) {
	ics := GenerateICS(nil)
	if !strings.Contains(ics, "BEGIN:VCALENDAR") || strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("empty calendar should have no events but remain valid")
	}
}

func TestAgeLabel(t *testing.T) {
	lo, hi := 13, 18
	tests := []struct {
		name string
		min  *int
		max  *int
		want string
	}{
		{name: "open", want: "all ages"},
		{name: "min only", min: &lo, want: "13+"},
		{name: "max only", max: &hi, want: "up to 18"},
		{name: "both", min: &lo, max: &hi, want: "13-18"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageLabel(tt.min, tt.max); got != tt.want {
				t.Errorf("ageLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeICS(t *testing.T) {
	in := "Gym A; Court 1, basement\nbring shoes"
	out := escapeICS(in)
	if strings.ContainsAny(out, "\n") {
		t.Error("newlines should be escaped")
	}
	if !strings.Contains(out, "\\;") || !strings.Contains(out, "\\,") {
		t.Errorf("special characters not escaped: %q", out)
	}
}
