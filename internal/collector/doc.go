// Package collector implements the two collection strategies that discover
// drop-in schedule fragments on facility web sources.
//
// ActiveSearch parses server-rendered activity-search result pages; it is the
// lightweight strategy and merges first. FacilityPage parses the weekly
// "Drop-in Programs" pages served by a rendering endpoint and fetches through
// a rate-limited polite client. Both strategies reduce candidate markup blocks
// to Fragments, assemble them into records, and keep all markup-shape
// assumptions behind this package; the orchestrator sees only records or a
// recoverable error.
package collector
