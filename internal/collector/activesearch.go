package collector

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/rec-dropins/internal/facility"
	"github.com/pfrederiksen/rec-dropins/internal/fetch"
	"github.com/pfrederiksen/rec-dropins/internal/record"
)

// Date formats seen on activity-search result cards.
var (
	cardDatePattern = regexp.MustCompile(`(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)[a-z]*,?\s+[A-Za-z]{3}\s+\d{1,2},\s*\d{4}`)

	cardDateLayouts = []string{
		"Mon, Jan 2, 2006",
		"Monday, Jan 2, 2006",
		"Mon Jan 2, 2006",
	}

	timeAttrLayouts = []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"Jan 2, 2006",
	}
)

// ActiveSearch parses server-rendered activity-search result pages. It is the
// synchronous, lightweight strategy and its records win merge ties.
type ActiveSearch struct {
	client       *fetch.Client
	activity     string
	programLabel string
}

// NewActiveSearch creates the activity-search collector. activity is the
// lowercase keyword that marks a relevant result card; programLabel names the
// program when a card has no usable heading.
func NewActiveSearch(client *fetch.Client, activity, programLabel string) *ActiveSearch {
	return &ActiveSearch{
		client:       client,
		activity:     strings.ToLower(activity),
		programLabel: programLabel,
	}
}

// Name identifies the strategy in logs and summaries.
func (c *ActiveSearch) Name() string { return "active-search" }

// Endpoint returns the facility's activity-search URL, if any.
func (c *ActiveSearch) Endpoint(fac facility.Facility) string { return fac.ActiveSearchURL }

// Collect fetches and parses the facility's activity-search results.
// The result structure varies between deployments, so candidate blocks are
// selected loosely and reduced through the shared free-text patterns.
func (c *ActiveSearch) Collect(ctx context.Context, fac facility.Facility, loc *time.Location) ([]record.Record, error) {
	page, err := c.client.Get(ctx, fac.ActiveSearchURL)
	if err != nil {
		return nil, fmt.Errorf("fetching active search for %s: %w", fac.ID, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing active search markup: %w", err)
	}

	now := time.Now().In(loc)
	records := make([]record.Record, 0)
	seen := make(map[record.Key]bool)

	doc.Find("div,li,section").Each(func(i int, card *goquery.Selection) {
		text := squashWhitespace(card.Text())
		lower := strings.ToLower(text)
		if !strings.Contains(lower, c.activity) {
			return
		}

		frag, ok := c.extractFragment(card, text, fac.ActiveSearchURL)
		if !ok {
			return
		}

		rec, err := assembleFragment(fac, frag, loc, now)
		if err != nil {
			// Unparseable time span; expected noise in scraped text.
			return
		}

		// Nested containers surface the same card more than once.
		if seen[rec.Key()] {
			return
		}
		seen[rec.Key()] = true
		records = append(records, rec)
	})

	return records, nil
}

// extractFragment reduces one candidate card to a Fragment. Cards missing a
// time fragment or a resolvable date are not candidates.
func (c *ActiveSearch) extractFragment(card *goquery.Selection, text, sourceURL string) (Fragment, bool) {
	timeText := timeSpanPattern.FindString(text)
	if timeText == "" {
		timeText = timeOnlyPattern.FindString(text)
	}
	if timeText == "" {
		return Fragment{}, false
	}

	date, ok := c.extractDate(card, text)
	if !ok {
		return Fragment{}, false
	}

	programName := c.programLabel
	heading := card.Find("h2,h3,h4").First()
	if heading.Length() > 0 {
		if ht := squashWhitespace(heading.Text()); strings.Contains(strings.ToLower(ht), c.activity) {
			programName = ht
		}
	}

	return Fragment{
		ProgramName:     programName,
		TimeText:        timeText,
		AgeText:         agePattern.FindString(text),
		FeeText:         feeTextPattern.FindString(text),
		ReserveRequired: reservePattern.MatchString(text),
		Date:            date,
		SourceURL:       sourceURL,
	}, true
}

// extractDate resolves the card's calendar date, preferring a <time> element's
// datetime attribute, then its text, then a "Wdy, Mon D, YYYY" fragment in the
// card body.
func (c *ActiveSearch) extractDate(card *goquery.Selection, text string) (time.Time, bool) {
	timeEl := card.Find("time").First()
	if timeEl.Length() > 0 {
		if attr, exists := timeEl.Attr("datetime"); exists {
			if d, ok := parseCardDate(attr, timeAttrLayouts); ok {
				return d, true
			}
		}
		if d, ok := parseCardDate(squashWhitespace(timeEl.Text()), timeAttrLayouts); ok {
			return d, true
		}
	}

	if m := cardDatePattern.FindString(text); m != "" {
		if d, ok := parseCardDate(m, cardDateLayouts); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func parseCardDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func squashWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
