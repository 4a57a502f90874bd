// Package storage persists schedule records in SQLite under the identity
// uniqueness constraint.
//
// Inserts are append-only with do-nothing-on-conflict semantics: the records
// table carries a unique index over (facility_id, start_unix, program_name)
// and conflict resolution is delegated entirely to that constraint, never to
// an application-level existence check. Two overlapping runs therefore cannot
// double-count a record. Migrations are embedded and applied when the store
// opens.
package storage
