// Package run orchestrates one reconciliation run across all facilities and
// collection strategies.
//
// A run dispatches every facility x strategy invocation concurrently, isolates
// each invocation's failure, joins at a barrier, merges results in strategy
// priority order with identity-tuple dedup, and commits the survivors to the
// store in one bulk upsert. Collector failures are logged and yield empty
// results; a store failure is fatal for the run and propagates to the caller.
// There are no retries at any layer: re-running the pipeline is the retry.
package run
