package run

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pfrederiksen/rec-dropins/internal/collector"
	"github.com/pfrederiksen/rec-dropins/internal/facility"
	"github.com/pfrederiksen/rec-dropins/internal/logger"
	"github.com/pfrederiksen/rec-dropins/internal/record"
)

// Store is the persistence contract the runner commits to.
type Store interface {
	UpsertRecords(ctx context.Context, records []record.Record) (int, error)
}

// Result captures one facility x strategy invocation: records on success, an
// error on recoverable failure, or Skipped when the facility has no endpoint
// for the strategy.
type Result struct {
	Collector  string
	FacilityID string
	Records    []record.Record
	Err        error
	Skipped    bool
}

// Summary reports what one run did.
type Summary struct {
	Facilities  int `json:"facilities"`
	Invocations int `json:"invocations"`
	Failed      int `json:"failed"`
	Collected   int `json:"collected"`
	Merged      int `json:"merged"`
	Inserted    int `json:"inserted"`
}

// Runner executes reconciliation runs. Collectors are held in merge priority
// order: the first collector's records win identity-tuple ties.
type Runner struct {
	collectors []collector.Collector
	store      Store
	loc        *time.Location
	log        *logger.Logger
	metrics    *logger.Metrics
}

// New creates a Runner. The collector order fixes merge priority.
func New(store Store, loc *time.Location, log *logger.Logger, collectors ...collector.Collector) *Runner {
	return &Runner{
		collectors: collectors,
		store:      store,
		loc:        loc,
		log:        log,
		metrics:    logger.NewMetrics(),
	}
}

// Metrics exposes the run metrics tracker.
func (r *Runner) Metrics() *logger.Metrics { return r.metrics }

// Run performs one reconciliation run over the facility directory: dispatch,
// isolate, merge+dedup, commit. Only a store failure is returned as an error.
func (r *Runner) Run(ctx context.Context, facilities []facility.Facility) (Summary, error) {
	started := time.Now()
	results := r.dispatch(ctx, facilities)

	summary := Summary{Facilities: len(facilities)}
	for _, res := range results {
		if res.Skipped {
			continue
		}
		summary.Invocations++
		if res.Err != nil {
			summary.Failed++
			r.metrics.Add("invocations.failed", 1)
			r.log.Error("collector invocation failed", logger.Fields{
				"collector":   res.Collector,
				"facility_id": res.FacilityID,
			}, res.Err)
			continue
		}
		summary.Collected += len(res.Records)
		r.metrics.Add("records.collected."+res.Collector, int64(len(res.Records)))
	}

	merged := merge(results)
	summary.Merged = len(merged)

	inserted, err := r.store.UpsertRecords(ctx, merged)
	if err != nil {
		return summary, fmt.Errorf("committing records: %w", err)
	}
	summary.Inserted = inserted
	r.metrics.Add("records.inserted", int64(inserted))
	r.metrics.RecordTiming("run", time.Since(started))

	r.log.Info("run complete", logger.Fields{
		"facilities":  summary.Facilities,
		"invocations": summary.Invocations,
		"failed":      summary.Failed,
		"collected":   summary.Collected,
		"merged":      summary.Merged,
		"inserted":    summary.Inserted,
	})
	return summary, nil
}

// dispatch launches every facility x strategy invocation concurrently and
// joins before returning. Result slots are fixed in strategy-major, facility
// order so the later merge is deterministic.
func (r *Runner) dispatch(ctx context.Context, facilities []facility.Facility) []Result {
	results := make([]Result, len(r.collectors)*len(facilities))

	var wg sync.WaitGroup
	for ci, col := range r.collectors {
		for fi, fac := range facilities {
			slot := ci*len(facilities) + fi
			results[slot] = Result{Collector: col.Name(), FacilityID: fac.ID}

			if col.Endpoint(fac) == "" {
				results[slot].Skipped = true
				continue
			}

			wg.Add(1)
			go func(slot int, col collector.Collector, fac facility.Facility) {
				defer wg.Done()
				records, err := col.Collect(ctx, fac, r.loc)
				results[slot].Records = records
				results[slot].Err = err
			}(slot, col, fac)
		}
	}
	wg.Wait()

	return results
}

// merge concatenates results in slot order and drops records whose identity
// tuple was already seen. The first strategy to observe an event wins ties.
func merge(results []Result) []record.Record {
	var merged []record.Record
	seen := make(map[record.Key]bool)

	for _, res := range results {
		if res.Err != nil || res.Skipped {
			continue
		}
		for _, rec := range res.Records {
			key := rec.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, rec)
		}
	}
	return merged
}
