// Package record defines the canonical drop-in schedule record and its assembler.
//
// A Record is the persisted unit of truth: one scheduled session at one
// facility, with timezone-aware start and end instants. Records are identified
// by the tuple (facility_id, start_datetime, program_name); two fragments that
// produce equal tuples describe the same logical event no matter which
// collector found them.
package record
