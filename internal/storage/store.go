package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/rec-dropins/internal/record"
	"github.com/pfrederiksen/rec-dropins/internal/storage/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrAlreadyExists reports an insert whose identity tuple is already stored.
var ErrAlreadyExists = errors.New("record already exists")

// Store persists schedule records in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite store at path and applies
// embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const insertSQL = `INSERT INTO records (
    facility_id, facility_name, district, address, program_name,
    age_min, age_max, weekday, start_dt, end_dt, start_unix, start_minutes,
    fee_cad, reserve_required, source_url, last_seen
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (facility_id, start_unix, program_name) DO NOTHING`

// UpsertRecords inserts records in one transaction and returns the number of
// genuinely new rows. Identity-tuple conflicts resolve to no-ops via the
// table's unique constraint; any other execution error aborts the whole batch
// and propagates to the caller.
func (s *Store) UpsertRecords(ctx context.Context, records []record.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning upsert tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		res, err := stmt.ExecContext(ctx, insertArgs(r)...)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting record %s: %w", r.ID(), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("counting inserted rows: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing upsert tx: %w", err)
	}
	return inserted, nil
}

const insertStrictSQL = `INSERT INTO records (
    facility_id, facility_name, district, address, program_name,
    age_min, age_max, weekday, start_dt, end_dt, start_unix, start_minutes,
    fee_cad, reserve_required, source_url, last_seen
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertRecord inserts a single record, returning ErrAlreadyExists when its
// identity tuple is already stored.
func (s *Store) InsertRecord(ctx context.Context, r record.Record) error {
	_, err := s.db.ExecContext(ctx, insertStrictSQL, insertArgs(r)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("record %s: %w", r.ID(), ErrAlreadyExists)
		}
		return fmt.Errorf("inserting record %s: %w", r.ID(), err)
	}
	return nil
}

func insertArgs(r record.Record) []interface{} {
	return []interface{}{
		r.FacilityID,
		r.FacilityName,
		r.District,
		r.Address,
		r.ProgramName,
		nullableInt(r.AgeMin),
		nullableInt(r.AgeMax),
		r.Weekday,
		r.Start.Format(time.RFC3339),
		r.End.Format(time.RFC3339),
		r.Start.Unix(),
		r.StartMinutes(),
		nullableFloat(r.FeeCAD),
		boolToInt(r.ReserveRequired),
		r.SourceURL,
		r.LastSeen.Format(time.RFC3339),
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// Filter narrows QueryRecords results. Zero values leave a dimension
// unconstrained. Age matches records whose range contains the value, treating
// an absent bound as open on that side.
type Filter struct {
	FacilityID      string
	Weekday         string
	District        string
	MinStartMinutes int
	Age             *int
}

// QueryRecords returns records matching the filter, ordered by start time
// then facility name.
func (s *Store) QueryRecords(ctx context.Context, f Filter) ([]record.Record, error) {
	query := `SELECT facility_id, facility_name, district, address, program_name,
    age_min, age_max, weekday, start_dt, end_dt, fee_cad, reserve_required,
    source_url, last_seen
FROM records`

	var conds []string
	var args []interface{}

	if f.FacilityID != "" {
		conds = append(conds, "facility_id = ?")
		args = append(args, f.FacilityID)
	}
	if f.Weekday != "" {
		conds = append(conds, "weekday = ?")
		args = append(args, f.Weekday)
	}
	if f.District != "" {
		conds = append(conds, "district = ?")
		args = append(args, f.District)
	}
	if f.MinStartMinutes > 0 {
		conds = append(conds, "start_minutes >= ?")
		args = append(args, f.MinStartMinutes)
	}
	if f.Age != nil {
		conds = append(conds, "(age_min IS NULL OR age_min <= ?)")
		conds = append(conds, "(age_max IS NULL OR age_max >= ?)")
		args = append(args, *f.Age, *f.Age)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_unix, facility_name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (record.Record, error) {
	var (
		r        record.Record
		ageMin   sql.NullInt64
		ageMax   sql.NullInt64
		startDT  string
		endDT    string
		fee      sql.NullFloat64
		reserve  int
		lastSeen string
	)
	err := rows.Scan(
		&r.FacilityID, &r.FacilityName, &r.District, &r.Address, &r.ProgramName,
		&ageMin, &ageMax, &r.Weekday, &startDT, &endDT, &fee, &reserve,
		&r.SourceURL, &lastSeen,
	)
	if err != nil {
		return record.Record{}, fmt.Errorf("scanning record: %w", err)
	}

	if ageMin.Valid {
		v := int(ageMin.Int64)
		r.AgeMin = &v
	}
	if ageMax.Valid {
		v := int(ageMax.Int64)
		r.AgeMax = &v
	}
	if fee.Valid {
		v := fee.Float64
		r.FeeCAD = &v
	}
	r.ReserveRequired = reserve != 0

	if r.Start, err = time.Parse(time.RFC3339, startDT); err != nil {
		return record.Record{}, fmt.Errorf("parsing start_dt %q: %w", startDT, err)
	}
	if r.End, err = time.Parse(time.RFC3339, endDT); err != nil {
		return record.Record{}, fmt.Errorf("parsing end_dt %q: %w", endDT, err)
	}
	if r.LastSeen, err = time.Parse(time.RFC3339, lastSeen); err != nil {
		return record.Record{}, fmt.Errorf("parsing last_seen %q: %w", lastSeen, err)
	}
	return r, nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
