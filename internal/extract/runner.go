package extract

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/niksavis/burndown-chart-sub004/internal/mapping"
	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

// Options tunes an Engine.
type Options struct {
	// Workers bounds the batch worker pool. Defaults to GOMAXPROCS.
	Workers int
	// ReferenceTime is the "now" anchor closing open changelog intervals,
	// which keeps extraction deterministic and allows time-travel analysis.
	// Defaults to time.Now at construction.
	ReferenceTime time.Time
}

// Engine applies a validated mapping set to records. Stateless between
// runs; safe for concurrent use.
type Engine struct {
	set      *mapping.Set
	workers  int
	refTime  time.Time
	required map[string]bool

	// evalHook observes source evaluations. Tests use it to assert the
	// priority walk short-circuits.
	evalHook func(variable string, priority int)
}

// New builds an Engine over a validated Set.
func New(set *mapping.Set, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	refTime := opts.ReferenceTime
	if refTime.IsZero() {
		refTime = time.Now()
	}

	required := make(map[string]bool, set.Len())
	for _, m := range set.Mappings() {
		required[m.Name] = m.Required
	}

	return &Engine{
		set:      set,
		workers:  workers,
		refTime:  refTime,
		required: required,
	}
}

// Set returns the mapping set the engine runs.
func (e *Engine) Set() *mapping.Set { return e.set }

// ReferenceTime returns the engine's "now" anchor.
func (e *Engine) ReferenceTime() time.Time { return e.refTime }

// runCache memoizes per-record outcome rows within a single Run so
// duplicate record IDs are evaluated once. It is created inside Run and
// unreachable afterwards, so no state leaks across runs. Cache writes are
// rare relative to evaluation work, so a single lock is enough.
type runCache struct {
	mu      sync.Mutex
	entries map[string][]Outcome
}

func (c *runCache) get(recordID string) ([]Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	row, ok := c.entries[recordID]
	return row, ok
}

func (c *runCache) put(recordID string, row []Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[recordID]; !ok {
		c.entries[recordID] = row
	}
}

// Run evaluates every record against every mapping of the set. Pairs are
// isolated: one failure is recorded in its outcome and never aborts the
// batch. Records are processed by a bounded worker pool; outcome order
// follows input order regardless of scheduling. Cancelling the context
// stops submitting new records and returns the context error.
func (e *Engine) Run(ctx context.Context, records []record.Record) (*BatchResult, error) {
	mappings := e.set.Mappings()
	rows := make([][]Outcome, len(records))
	cache := &runCache{entries: make(map[string][]Outcome)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := records[i]
			if row, ok := cache.get(rec.ID); ok {
				rows[i] = row
				return nil
			}
			ev := newEvaluation(e, rec)
			row := make([]Outcome, 0, len(mappings))
			for j := range mappings {
				row = append(row, ev.extract(&mappings[j]))
			}
			rows[i] = row
			cache.put(rec.ID, row)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(records)*len(mappings))
	for _, row := range rows {
		outcomes = append(outcomes, row...)
	}
	return newBatchResult(outcomes, e.required), nil
}

// ExtractRecord evaluates every mapping against a single record with fresh
// per-record state.
func (e *Engine) ExtractRecord(rec record.Record) []Outcome {
	mappings := e.set.Mappings()
	ev := newEvaluation(e, rec)
	outcomes := make([]Outcome, 0, len(mappings))
	for i := range mappings {
		outcomes = append(outcomes, ev.extract(&mappings[i]))
	}
	return outcomes
}

// ExtractOne evaluates one variable against one record.
func (e *Engine) ExtractOne(rec record.Record, variable string) (Outcome, error) {
	m, ok := e.set.Get(variable)
	if !ok {
		return Outcome{}, fmt.Errorf("unknown variable %q", variable)
	}
	return newEvaluation(e, rec).extract(m), nil
}
