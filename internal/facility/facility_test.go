package facility

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDirectory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facilities.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing directory file: %v", err)
	}
	return path
}

func TestLoadDirectory(t *testing.T) {
	path := writeDirectory(t, `[
		{
			"facility_id": "north-york-cc",
			"facility_name": "North York Community Centre",
			"district": "North York",
			"address": "15 Example Ave, Toronto",
			"active_search_url": "https://example.com/active/north-york",
			"dropin_page_url": "https://example.com/dropin/north-york"
		},
		{
			"facility_id": "east-end-cc",
			"facility_name": "East End Community Centre",
			"district": "East York",
			"address": "22 Sample St, Toronto",
			"active_url": "https://example.com/active/east-end"
		}
	]`)

	facilities, err := LoadDirectory(path)
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	if len(facilities) != 2 {
		t.Fatalf("expected 2 facilities, got %d", len(facilities))
	}

	first := facilities[0]
	if first.ID != "north-york-cc" {
		t.Errorf("expected ID 'north-york-cc', got %q", first.ID)
	}
	if first.ActiveSearchURL != "https://example.com/active/north-york" {
		t.Errorf("unexpected active search URL: %q", first.ActiveSearchURL)
	}
	if first.DropinPageURL != "https://example.com/dropin/north-york" {
		t.Errorf("unexpected drop-in page URL: %q", first.DropinPageURL)
	}

	second := facilities[1]
	if second.ActiveSearchURL != "https://example.com/active/east-end" {
		t.Errorf("alternate key 'active_url' not honored, got %q", second.ActiveSearchURL)
	}
	if second.DropinPageURL != "" {
		t.Errorf("expected empty drop-in page URL, got %q", second.DropinPageURL)
	}
}

func TestLoadDirectoryAlternateKeys(t *testing.T) {
	path := writeDirectory(t, `[
		{
			"facility_id": "west-cc",
			"facility_name": "West Community Centre",
			"activeSearchUrl": "https://example.com/active/west",
			"dropinPageUrl": "https://example.com/dropin/west"
		}
	]`)

	facilities, err := LoadDirectory(path)
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if facilities[0].ActiveSearchURL != "https://example.com/active/west" {
		t.Errorf("camelCase active key not honored, got %q", facilities[0].ActiveSearchURL)
	}
	if facilities[0].DropinPageURL != "https://example.com/dropin/west" {
		t.Errorf("camelCase dropin key not honored, got %q", facilities[0].DropinPageURL)
	}
}

func TestLoadDirectoryMissingID(t *testing.T) {
	path := writeDirectory(t, `[{"facility_name": "Nameless Centre"}]`)

	if _, err := LoadDirectory(path); err == nil {
		t.Error("expected error for missing facility_id")
	}
}

func TestLoadDirectoryDuplicateID(t *testing.T) {
	path := writeDirectory(t, `[
		{"facility_id": "dup", "facility_name": "A"},
		{"facility_id": "dup", "facility_name": "B"}
	]`)

	if _, err := LoadDirectory(path); err == nil {
		t.Error("expected error for duplicate facility_id")
	}
}

func TestLoadDirectoryMissingFile(t *testing.T) {
	if _, err := LoadDirectory(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
