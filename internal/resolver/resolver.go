// Package resolver runs the second, global phase of a harvest: it walks every
// parsed requirement expression of a sealed catalog index, annotates atoms
// whose code is not in the catalog as special and records the inverse
// required-by edge on every resolved target.
//
// The pass is a pure function of the sealed index, so running it again yields
// the same annotations and required-by sets.
package resolver

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/reqgraph/internal/catalog"
	"github.com/specialistvlad/reqgraph/internal/ctxlog"
	"github.com/specialistvlad/reqgraph/internal/metrics"
	"github.com/specialistvlad/reqgraph/internal/requirement"
)

// DefaultWorkers is the worker count used when none is configured.
const DefaultWorkers = 8

// Report summarizes one resolution pass.
type Report struct {
	Disciplines int
	// Invalid counts disciplines skipped because their requirements failed to parse.
	Invalid  int
	Atoms    int
	Resolved int
	Special  int
	// Edges counts required-by edges added by this pass.
	Edges int
}

// Resolver resolves requirement atoms against a sealed catalog index.
type Resolver struct {
	workers int
}

// New creates a resolver. A non-positive worker count selects DefaultWorkers.
func New(workers int) *Resolver {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Resolver{workers: workers}
}

// counters accumulates per-worker results without locking.
type counters struct {
	invalid, atoms, resolved, special, edges atomic.Int64
}

// Resolve runs the pass over ix. It refuses an index that is still being
// merged, since atoms could otherwise be flagged special before their target
// shard arrived.
func (r *Resolver) Resolve(ctx context.Context, ix *catalog.Index) (Report, error) {
	logger := ctxlog.FromContext(ctx)
	if !ix.Sealed() {
		return Report{}, catalog.ErrNotSealed
	}

	disciplines := ix.All()
	readyChan := make(chan *catalog.Discipline, len(disciplines))
	for _, d := range disciplines {
		readyChan <- d
	}
	close(readyChan)

	var (
		wg sync.WaitGroup
		c  counters
	)
	logger.Debug("Starting resolver worker pool.", "workers", r.workers, "disciplines", len(disciplines))
	wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		go r.worker(ctx, ix, readyChan, &c, &wg, i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		logger.Warn("Resolution interrupted.", "error", err)
		return Report{}, err
	}

	report := Report{
		Disciplines: len(disciplines),
		Invalid:     int(c.invalid.Load()),
		Atoms:       int(c.atoms.Load()),
		Resolved:    int(c.resolved.Load()),
		Special:     int(c.special.Load()),
		Edges:       int(c.edges.Load()),
	}
	metrics.AtomsTotal.WithLabelValues("resolved").Add(float64(report.Resolved))
	metrics.AtomsTotal.WithLabelValues("special").Add(float64(report.Special))

	logger.Info("Cross-references resolved.",
		"disciplines", report.Disciplines,
		"atoms", report.Atoms,
		"resolved", report.Resolved,
		"special", report.Special,
		"invalid", report.Invalid,
	)
	return report, nil
}

// worker drains the ready channel, resolving one discipline at a time.
func (r *Resolver) worker(ctx context.Context, ix *catalog.Index, readyChan <-chan *catalog.Discipline, c *counters, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)

	for d := range readyChan {
		if ctx.Err() != nil {
			return
		}
		switch d.Requirements.Presence {
		case requirement.Invalid:
			logger.Debug("Skipping discipline with unparsable requirements.", "code", d.Code, "error", d.Requirements.Err)
			c.invalid.Add(1)
			continue
		case requirement.Absent:
			continue
		}
		resolveDiscipline(ix, d, c)
	}
}

// resolveDiscipline annotates d's atoms and back-propagates required-by edges.
// Only this worker touches d's atoms; targets are updated under their own lock.
func resolveDiscipline(ix *catalog.Index, d *catalog.Discipline, c *counters) {
	expr := d.Requirements.Expr
	c.atoms.Add(int64(expr.Atoms()))
	for gi := range expr {
		for ai := range expr[gi] {
			atom := &expr[gi][ai]

			target, ok := ix.Get(atom.Code)
			atom.Special = !ok
			if !ok {
				c.special.Add(1)
				continue
			}
			c.resolved.Add(1)
			if target.AddRequiredBy(d.Code) {
				c.edges.Add(1)
			}
		}
	}
}
