package record

import (
	"errors"
	"strings"
	"time"

	"github.com/pfrederiksen/rec-dropins/internal/facility"
	"github.com/pfrederiksen/rec-dropins/internal/normalize"
)

// ErrNoTimeRange reports a fragment whose time span could not be parsed.
// Callers drop the fragment; scraped text without a clean time span is
// expected noise, not an error condition worth logging.
var ErrNoTimeRange = errors.New("fragment has no parseable time range")

// ErrInvalidTimeOrder reports a span whose end does not land after its start
// even after overnight correction.
var ErrInvalidTimeOrder = errors.New("end time is not after start time")

// Assemble builds one Record from a facility and a fragment's raw pieces.
// The time text is parsed on eventDate in loc; an unparseable time range is
// fatal for the fragment (ErrNoTimeRange). An unparseable age or fee simply
// leaves the field absent. An age pair with min greater than max is dropped
// outright rather than reordered, since reordering would mask a source-format
// error.
func Assemble(fac facility.Facility, programName, ageText string, eventDate time.Time, timeText, feeText string, reserveRequired bool, sourceURL string, loc *time.Location, now time.Time) (Record, error) {
	start, end, ok := normalize.ParseTimeRange(timeText, eventDate, loc)
	if !ok {
		return Record{}, ErrNoTimeRange
	}
	if !end.After(start) {
		return Record{}, ErrInvalidTimeOrder
	}

	ageMin, ageMax := normalize.ParseAgeRange(ageText)
	if ageMin != nil && ageMax != nil && *ageMin > *ageMax {
		ageMin, ageMax = nil, nil
	}

	name := strings.TrimSpace(programName)
	if name == "" {
		name = DefaultProgramName
	}

	return Record{
		FacilityID:      fac.ID,
		FacilityName:    fac.Name,
		District:        fac.District,
		Address:         fac.Address,
		ProgramName:     name,
		AgeMin:          ageMin,
		AgeMax:          ageMax,
		Weekday:         normalize.WeekdayLabel(eventDate),
		Start:           start,
		End:             end,
		FeeCAD:          normalize.ParseFee(feeText),
		ReserveRequired: reserveRequired,
		SourceURL:       sourceURL,
		LastSeen:        now,
	}, nil
}
