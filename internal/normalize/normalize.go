package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Weekday labels indexed by time.Weekday (Sunday = 0).
var weekdayLabels = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var (
	// Age grammars, tried in priority order. First match wins.
	ageRangePattern = regexp.MustCompile(`(\d+)\s*[–-]\s*(\d+)`)
	agePlusPattern  = regexp.MustCompile(`(\d+)\s*\+`)
	ageOlderPattern = regexp.MustCompile(`(\d+)\s*(?:years?\s*)?and\s*older`)

	// Separator meaning "through" between two times of day.
	timeSeparatorPattern = regexp.MustCompile(`(?i)\s*(?:–|—|-|\bto\b)\s*`)

	feePattern = regexp.MustCompile(`(\d+(?:\.\d{2})?)`)

	weekAnchorPattern = regexp.MustCompile(`(?i)week\s+of\s+(\d{4}-\d{2}-\d{2})`)
)

// Clock layouts tried when parsing one side of a time range. AM/PM variants
// come first so "07:30 PM" never half-matches a 24-hour layout.
var clockLayouts = []string{
	"3:04:05 PM",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
	"15:04:05",
	"15:04",
}

// ParseAgeRange extracts an age interval from free text. Empty input and the
// phrase "all ages" mean unrestricted, (nil, nil). Recognized grammars, in
// priority order: "N-M" (or en-dash), "N+", and "N [years] and older". Only
// the first matching grammar is applied.
func ParseAgeRange(text string) (min, max *int) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" || strings.Contains(s, "all ages") {
		return nil, nil
	}

	if m := ageRangePattern.FindStringSubmatch(s); m != nil {
		lo, err1 := strconv.Atoi(m[1])
		hi, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			return &lo, &hi
		}
		return nil, nil
	}

	if m := agePlusPattern.FindStringSubmatch(s); m != nil {
		lo, err := strconv.Atoi(m[1])
		if err == nil {
			return &lo, nil
		}
		return nil, nil
	}

	if m := ageOlderPattern.FindStringSubmatch(s); m != nil {
		lo, err := strconv.Atoi(m[1])
		if err == nil {
			return &lo, nil
		}
	}

	return nil, nil
}

// ParseTimeRange parses a free-text time span ("7:30 PM - 9:30 PM") into two
// instants on ref's calendar date in loc. The text is split once on the first
// "through" separator (hyphen, en-dash, em-dash, or the word "to"); each side
// is parsed as a time of day. Text without a separator is parsed as a single
// instant with a one hour duration. When the end does not land strictly after
// the start the span is assumed to cross midnight and the end moves to the
// next calendar day.
func ParseTimeRange(text string, ref time.Time, loc *time.Location) (start, end time.Time, ok bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, time.Time{}, false
	}

	parts := timeSeparatorPattern.Split(s, 2)
	if len(parts) < 2 {
		start, ok = parseClock(parts[0], ref, loc)
		if !ok {
			return time.Time{}, time.Time{}, false
		}
		return start, start.Add(time.Hour), true
	}

	start, okStart := parseClock(parts[0], ref, loc)
	end, okEnd := parseClock(parts[1], ref, loc)
	if !okStart || !okEnd {
		return time.Time{}, time.Time{}, false
	}

	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, true
}

// parseClock parses a single time of day and anchors it to ref's date in loc.
func parseClock(text string, ref time.Time, loc *time.Location) (time.Time, bool) {
	s := strings.ToUpper(strings.TrimSpace(text))
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := ref.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), true
	}
	return time.Time{}, false
}

// ParseFee returns the first decimal amount found in the text (integer part
// with an optional two-digit fraction), or nil when no amount is present.
func ParseFee(text string) *float64 {
	m := feePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &amount
}

// ParseWeekAnchor matches a "week of YYYY-MM-DD" header and returns the Monday
// beginning that week. A date already on a Monday is returned unchanged; any
// other date rounds backward to the preceding Monday. The returned time is
// midnight UTC and carries date semantics only.
func ParseWeekAnchor(text string) (time.Time, bool) {
	m := weekAnchorPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, false
	}
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d, true
}

// WeekdayLabel returns the fixed three-letter label (Mon..Sun) for t's weekday.
func WeekdayLabel(t time.Time) string {
	return weekdayLabels[int(t.Weekday())]
}
