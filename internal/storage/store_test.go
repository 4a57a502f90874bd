package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pfrederiksen/rec-dropins/internal/record"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "records.sqlite3"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(facilityID, program string, start time.Time) record.Record {
	return record.Record{
		FacilityID:   facilityID,
		FacilityName: "Test Centre " + facilityID,
		District:     "North York",
		Address:      "15 Example Ave",
		ProgramName:  program,
		Weekday:      start.Format("Mon"),
		Start:        start,
		End:          start.Add(2 * time.Hour),
		SourceURL:    "https://example.com/" + facilityID,
		LastSeen:     time.Now(),
	}
}

func torontoStart(t *testing.T, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	return time.Date(2025, 9, day, hour, minute, 0, 0, loc)
}

func TestUpsertIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	records := []record.Record{
		testRecord("f1", "Volleyball Drop-in", torontoStart(t, 1, 19, 30)),
		testRecord("f1", "Volleyball Drop-in", torontoStart(t, 3, 18, 0)),
		testRecord("f2", "Volleyball Drop-in", torontoStart(t, 1, 19, 30)),
	}

	inserted, err := store.UpsertRecords(ctx, records)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if inserted != 3 {
		t.Errorf("first upsert inserted %d, want 3", inserted)
	}

	inserted, err = store.UpsertRecords(ctx, records)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second upsert inserted %d, want 0", inserted)
	}

	got, err := store.QueryRecords(ctx, Filter{})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("query returned %d records, want 3 (each logical event exactly once)", len(got))
	}
}

func TestUpsertPartialOverlap(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := []record.Record{
		testRecord("f1", "Volleyball Drop-in", torontoStart(t, 1, 19, 30)),
	}
	if _, err := store.UpsertRecords(ctx, first); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	second := []record.Record{
		testRecord("f1", "Volleyball Drop-in", torontoStart(t, 1, 19, 30)),
		testRecord("f1", "Volleyball Drop-in", torontoStart(t, 8, 19, 30)),
	}
	inserted, err := store.UpsertRecords(ctx, second)
	if err != nil {
		t.Fatalf("overlapping upsert failed: %v", err)
	}
	if inserted != 1 {
		t.Errorf("inserted = %d, want 1 (only the new row)", inserted)
	}
}

func TestUpsertFirstSeenWins(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	original := testRecord("f1", "Volleyball Drop-in", torontoStart(t, 1, 19, 30))
	original.SourceURL = "https://example.com/first-source"
	if _, err := store.UpsertRecords(ctx, []record.Record{original}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	later := original
	later.SourceURL = "https://example.com/second-source"
	if _, err := store.UpsertRecords(ctx, []record.Record{later}); err != nil {
		t.Fatalf("conflicting upsert failed: %v", err)
	}

	got, err := store.QueryRecords(ctx, Filter{})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].SourceURL != "https://example.com/first-source" {
		t.Errorf("SourceURL = %q, first-seen row should be retained", got[0].SourceURL)
	}
}

func TestUpsertEmptyBatch(t *testing.T) {
	store := openTestStore(t)
	inserted, err := store.UpsertRecords(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty upsert failed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0", inserted)
	}
}

func TestInsertRecordReportsDuplicate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	r := testRecord("f1", "Volleyball Drop-in", torontoStart(t, 1, 19, 30))
	if err := store.InsertRecord(ctx, r); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := store.InsertRecord(ctx, r)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate insert error = %v, want ErrAlreadyExists", err)
	}

	// Same identity tuple expressed in a different zone is still a duplicate.
	shifted := r
	shifted.Start = r.Start.UTC()
	shifted.End = r.End.UTC()
	if err := store.InsertRecord(ctx, shifted); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("zone-shifted duplicate error = %v, want ErrAlreadyExists", err)
	}
}

func TestQueryFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	monEvening := testRecord("f1", "Volleyball Drop-in", torontoStart(t, 1, 19, 30))
	age := 19
	monEvening.AgeMin = &age

	monMorning := testRecord("f2", "Volleyball Drop-in", torontoStart(t, 1, 9, 0))
	monMorning.District = "East York"
	lo, hi := 13, 18
	monMorning.AgeMin, monMorning.AgeMax = &lo, &hi

	wedAllAges := testRecord("f1", "Badminton Drop-in", torontoStart(t, 3, 18, 0))

	if _, err := store.UpsertRecords(ctx, []record.Record{monEvening, monMorning, wedAllAges}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	t.Run("by weekday", func(t *testing.T) {
		got, err := store.QueryRecords(ctx, Filter{Weekday: "Mon"})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d records, want 2", len(got))
		}
	})

	t.Run("by district", func(t *testing.T) {
		got, err := store.QueryRecords(ctx, Filter{District: "East York"})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(got) != 1 || got[0].FacilityID != "f2" {
			t.Errorf("district filter returned %d records", len(got))
		}
	})

	t.Run("by minimum start minutes", func(t *testing.T) {
		got, err := store.QueryRecords(ctx, Filter{Weekday: "Mon", MinStartMinutes: 17 * 60})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(got) != 1 || got[0].StartMinutes() != 19*60+30 {
			t.Errorf("min-start filter returned %d records", len(got))
		}
	})

	t.Run("by age within bounds", func(t *testing.T) {
		adult := 25
		got, err := store.QueryRecords(ctx, Filter{Age: &adult})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		// monEvening (19+, open max) and wedAllAges (no bounds) match;
		// monMorning (13-18) does not.
		if len(got) != 2 {
			t.Errorf("age filter returned %d records, want 2", len(got))
		}
		for _, r := range got {
			if r.AgeMax != nil && *r.AgeMax < adult {
				t.Errorf("record with age_max %d should not match age %d", *r.AgeMax, adult)
			}
		}
	})

	t.Run("by facility", func(t *testing.T) {
		got, err := store.QueryRecords(ctx, Filter{FacilityID: "f1"})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("facility filter returned %d records, want 2", len(got))
		}
	})

	t.Run("ordered by start then facility name", func(t *testing.T) {
		got, err := store.QueryRecords(ctx, Filter{})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %d records", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].Start.Before(got[i-1].Start) {
				t.Errorf("records out of order at index %d", i)
			}
		}
	})
}

func TestRoundTripPreservesFields(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	r := testRecord("f1", "Volleyball Drop-in", torontoStart(t, 1, 19, 30))
	fee := 3.50
	r.FeeCAD = &fee
	r.ReserveRequired = true

	if _, err := store.UpsertRecords(ctx, []record.Record{r}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := store.QueryRecords(ctx, Filter{})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records", len(got))
	}

	out := got[0]
	if !out.Start.Equal(r.Start) {
		t.Errorf("Start = %v, want %v", out.Start, r.Start)
	}
	if !out.End.Equal(r.End) {
		t.Errorf("End = %v, want %v", out.End, r.End)
	}
	if out.FeeCAD == nil || *out.FeeCAD != 3.50 {
		t.Errorf("FeeCAD = %v, want 3.50", out.FeeCAD)
	}
	if !out.ReserveRequired {
		t.Error("ReserveRequired lost in round trip")
	}
	if out.Weekday != r.Weekday {
		t.Errorf("Weekday = %q, want %q", out.Weekday, r.Weekday)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("expected error for blank path")
	}
}
