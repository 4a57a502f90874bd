package facility

import (
	"encoding/json"
	"fmt"
	"os"
)

// Facility describes one recreation centre and where its schedules are published.
// Either endpoint may be empty; a facility missing an endpoint is skipped by
// the corresponding collection strategy.
type Facility struct {
	ID              string `json:"facility_id"`
	Name            string `json:"facility_name"`
	District        string `json:"district"`
	Address         string `json:"address"`
	ActiveSearchURL string `json:"active_search_url"`
	DropinPageURL   string `json:"dropin_page_url"`
}

// directoryEntry tolerates the alternate key spellings that have shown up in
// hand-maintained directory files.
type directoryEntry struct {
	FacilityID      string `json:"facility_id"`
	FacilityName    string `json:"facility_name"`
	District        string `json:"district"`
	Address         string `json:"address"`
	ActiveSearchURL string `json:"active_search_url"`
	ActiveURL       string `json:"active_url"`
	ActiveSearchAlt string `json:"activeSearchUrl"`
	DropinPageURL   string `json:"dropin_page_url"`
	DropinURL       string `json:"dropin_url"`
	DropinPageAlt   string `json:"dropinPageUrl"`
}

// LoadDirectory reads the facility directory from a JSON file. Every entry
// must carry a non-empty, unique facility_id.
func LoadDirectory(path string) ([]Facility, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facility directory: %w", err)
	}

	var entries []directoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing facility directory: %w", err)
	}

	facilities := make([]Facility, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.FacilityID == "" {
			return nil, fmt.Errorf("facility at index %d is missing facility_id", i)
		}
		if seen[e.FacilityID] {
			return nil, fmt.Errorf("duplicate facility_id: %s", e.FacilityID)
		}
		seen[e.FacilityID] = true

		facilities = append(facilities, Facility{
			ID:              e.FacilityID,
			Name:            e.FacilityName,
			District:        e.District,
			Address:         e.Address,
			ActiveSearchURL: firstNonEmpty(e.ActiveSearchURL, e.ActiveURL, e.ActiveSearchAlt),
			DropinPageURL:   firstNonEmpty(e.DropinPageURL, e.DropinURL, e.DropinPageAlt),
		})
	}
	return facilities, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
