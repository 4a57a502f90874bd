// Package normalize provides pure text-to-value parsers for scraped schedule fragments.
//
// Facility pages and activity-search results describe sessions in loose prose:
// "7:30 PM – 9:30 PM", "19+", "Adults (19 years and older)", "$3.50". The
// functions here turn those fragments into typed values anchored to a reference
// date and timezone. Every parser fails soft: an unrecognized input yields an
// absent result, never an error or a guess.
package normalize
