// Package facility loads the directory of recreation facilities to collect from.
//
// The directory is a JSON file listing each facility's identity, district,
// postal address, and up to two source endpoints, one per collection strategy.
// Facilities are immutable for the duration of a run.
package facility
