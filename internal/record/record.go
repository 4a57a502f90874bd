package record

import (
	"crypto/sha1"
	"fmt"
	"time"
)

// DefaultProgramName is used when a fragment carries no usable program name.
const DefaultProgramName = "Drop-in Program"

// Record is one canonical schedule entry, denormalized at capture time so it
// stands alone for querying and export.
type Record struct {
	FacilityID      string    `json:"facility_id"`
	FacilityName    string    `json:"facility_name"`
	District        string    `json:"district"`
	Address         string    `json:"address"`
	ProgramName     string    `json:"program_name"`
	AgeMin          *int      `json:"age_min,omitempty"`
	AgeMax          *int      `json:"age_max,omitempty"`
	Weekday         string    `json:"weekday"`
	Start           time.Time `json:"start_datetime"`
	End             time.Time `json:"end_datetime"`
	FeeCAD          *float64  `json:"fee_cad,omitempty"`
	ReserveRequired bool      `json:"reserve_required"`
	SourceURL       string    `json:"source_url"`
	LastSeen        time.Time `json:"last_seen"`
}

// Key is the identity tuple. Records with equal keys are the same logical
// event regardless of which collector produced them. Start is compared as a
// Unix timestamp so equal instants match across timezone representations.
type Key struct {
	FacilityID  string
	StartUnix   int64
	ProgramName string
}

// Key returns the record's identity tuple.
func (r Record) Key() Key {
	return Key{
		FacilityID:  r.FacilityID,
		StartUnix:   r.Start.Unix(),
		ProgramName: r.ProgramName,
	}
}

// ID returns a deterministic hex identifier derived from the identity tuple,
// used as a stable UID for calendar export.
func (r Record) ID() string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%d|%s", r.FacilityID, r.Start.Unix(), r.ProgramName)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// StartMinutes returns the start time as minutes since local midnight, in the
// start instant's own location.
func (r Record) StartMinutes() int {
	return r.Start.Hour()*60 + r.Start.Minute()
}
