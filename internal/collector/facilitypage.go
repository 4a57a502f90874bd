package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/rec-dropins/internal/facility"
	"github.com/pfrederiksen/rec-dropins/internal/fetch"
	"github.com/pfrederiksen/rec-dropins/internal/normalize"
	"github.com/pfrederiksen/rec-dropins/internal/record"
)

var dayHeadings = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// FacilityPage parses weekly "Drop-in Programs" pages. The pages come from a
// rendering endpoint, so the collector fetches through a rate-limited polite
// client and merges after ActiveSearch.
type FacilityPage struct {
	client       *fetch.Client
	activity     string
	programLabel string
}

// NewFacilityPage creates the facility-page collector.
func NewFacilityPage(client *fetch.Client, activity, programLabel string) *FacilityPage {
	return &FacilityPage{
		client:       client,
		activity:     strings.ToLower(activity),
		programLabel: programLabel,
	}
}

// Name identifies the strategy in logs and summaries.
func (c *FacilityPage) Name() string { return "facility-page" }

// Endpoint returns the facility's drop-in page URL, if any.
func (c *FacilityPage) Endpoint(fac facility.Facility) string { return fac.DropinPageURL }

// Collect fetches the facility's weekly drop-in page and extracts one record
// per relevant block under each weekday heading. Day-of-week sections resolve
// to absolute dates through the page's "week of" anchor; a page without one is
// assumed to describe the current week.
func (c *FacilityPage) Collect(ctx context.Context, fac facility.Facility, loc *time.Location) ([]record.Record, error) {
	page, err := c.client.Get(ctx, fac.DropinPageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching drop-in page for %s: %w", fac.ID, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing drop-in page markup: %w", err)
	}

	now := time.Now().In(loc)
	anchor := weekAnchor(doc, now)

	records := make([]record.Record, 0)
	seen := make(map[record.Key]bool)

	for i, day := range dayHeadings {
		dayDate := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, i)
		dayLower := strings.ToLower(day)

		doc.Find("h2,h3,h4").Each(func(_ int, heading *goquery.Selection) {
			if !strings.Contains(strings.ToLower(heading.Text()), dayLower) {
				return
			}

			for sib := heading.Next(); sib.Length() > 0 && !sib.Is("h2,h3,h4"); sib = sib.Next() {
				text := squashWhitespace(sib.Text())
				if !strings.Contains(strings.ToLower(text), c.activity) {
					continue
				}

				frag, ok := c.extractFragment(text, dayDate, fac.DropinPageURL)
				if !ok {
					continue
				}

				rec, err := assembleFragment(fac, frag, loc, now)
				if err != nil {
					continue
				}
				if seen[rec.Key()] {
					continue
				}
				seen[rec.Key()] = true
				records = append(records, rec)
			}
		})
	}

	return records, nil
}

// extractFragment reduces one block of day-section text to a Fragment. Blocks
// without an explicit time span are not candidates.
func (c *FacilityPage) extractFragment(text string, dayDate time.Time, sourceURL string) (Fragment, bool) {
	timeText := timeSpanPattern.FindString(text)
	if timeText == "" {
		return Fragment{}, false
	}

	return Fragment{
		ProgramName:     c.programLabel,
		TimeText:        timeText,
		AgeText:         agePattern.FindString(text),
		FeeText:         feeTextPattern.FindString(text),
		ReserveRequired: reservePattern.MatchString(text),
		Date:            dayDate,
		SourceURL:       sourceURL,
	}, true
}

// weekAnchor returns the Monday anchoring the page's week: the "week of"
// header when present, otherwise the most recent Monday relative to now.
func weekAnchor(doc *goquery.Document, now time.Time) time.Time {
	if anchor, ok := normalize.ParseWeekAnchor(doc.Text()); ok {
		return anchor
	}
	d := now
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
