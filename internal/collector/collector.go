package collector

import (
	"context"
	"regexp"
	"time"

	"github.com/pfrederiksen/rec-dropins/internal/facility"
	"github.com/pfrederiksen/rec-dropins/internal/record"
)

// Collector is one collection strategy. Collect returns fully assembled
// records for a facility or a recoverable error; the orchestrator isolates
// failures per invocation.
type Collector interface {
	Name() string

	// Endpoint returns the facility's source URL for this strategy, or ""
	// when the facility does not publish through it.
	Endpoint(fac facility.Facility) string

	Collect(ctx context.Context, fac facility.Facility, loc *time.Location) ([]record.Record, error)
}

// Fragment is one unvalidated free-text candidate for a schedule event, plus
// the calendar date it refers to. Fragments are ephemeral: extracted from a
// candidate markup block and consumed immediately by assembly.
type Fragment struct {
	ProgramName     string
	TimeText        string
	AgeText         string
	FeeText         string
	ReserveRequired bool
	Date            time.Time
	SourceURL       string
}

// Free-text extraction patterns shared by both strategies.
var (
	timeSpanPattern = regexp.MustCompile(`(?i)(\d{1,2}(?::\d{2})?\s*(?:AM|PM)\s*(?:-|–|—|to)\s*\d{1,2}(?::\d{2})?\s*(?:AM|PM))`)
	timeOnlyPattern = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*(?:AM|PM))`)
	agePattern      = regexp.MustCompile(`(?i)(all ages|\d+\s*[–-]\s*\d+|\d+\s*\+|adults\s*\(?\d+[^)\n]*\)?)`)
	feeTextPattern  = regexp.MustCompile(`\$\s*\d+(?:\.\d{2})?`)
	reservePattern  = regexp.MustCompile(`(?i)\b(?:reserve|register)`)
)

// assembleFragment turns a Fragment into a Record. A fragment whose time span
// fails to parse yields record.ErrNoTimeRange and is dropped by the caller.
func assembleFragment(fac facility.Facility, frag Fragment, loc *time.Location, now time.Time) (record.Record, error) {
	return record.Assemble(fac, frag.ProgramName, frag.AgeText, frag.Date,
		frag.TimeText, frag.FeeText, frag.ReserveRequired, frag.SourceURL, loc, now)
}
