package shard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/reqgraph/internal/catalog"
	"github.com/specialistvlad/reqgraph/internal/ctxlog"
	"github.com/specialistvlad/reqgraph/internal/metrics"
	"github.com/specialistvlad/reqgraph/internal/requirement"
	"github.com/specialistvlad/reqgraph/internal/source"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds the number of shards processed at once.
const DefaultWorkers = 12

// ErrMalformedFragment is returned when a fragment cannot describe a discipline.
var ErrMalformedFragment = errors.New("malformed discipline fragment")

// ShardError reports the failure of one group's fetch-and-parse task.
type ShardError struct {
	Group string
	Err   error
}

// Error implements the error interface.
func (e *ShardError) Error() string {
	return fmt.Sprintf("shard %q: %v", e.Group, e.Err)
}

// Unwrap returns the underlying provider or extraction error.
func (e *ShardError) Unwrap() error {
	return e.Err
}

// Shard is the immutable result of one group's task.
type Shard struct {
	Group       string
	Disciplines []*catalog.Discipline
}

// Coordinator fans shard tasks out to a bounded pool and merges the results.
type Coordinator struct {
	provider source.Provider
	workers  int
}

// New creates a coordinator. A non-positive worker count selects DefaultWorkers.
func New(provider source.Provider, workers int) *Coordinator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Coordinator{provider: provider, workers: workers}
}

// Discover asks the provider for every group key in the catalog.
func (c *Coordinator) Discover(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Discovering catalog groups...")

	groups, err := c.provider.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover catalog groups: %w", err)
	}
	logger.Debug("Catalog groups discovered.", "count", len(groups))
	return groups, nil
}

// ResolveAllShards fetches and parses every group in parallel and merges the
// results into a sealed index. It fails with a *ShardError when any task
// fails and with a *catalog.IntegrityError when two records disagree about a
// code.
func (c *Coordinator) ResolveAllShards(ctx context.Context, groups []string) (*catalog.Index, error) {
	logger := ctxlog.FromContext(ctx)
	groups = dedupe(groups)
	logger.Debug("Starting shard ingestion.", "groups", len(groups), "workers", c.workers)

	shards := make([]Shard, len(groups))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, group := range groups {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return &ShardError{Group: group, Err: err}
			}
			start := time.Now()
			shard, err := c.runShard(gCtx, group)
			metrics.ShardDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.ShardsTotal.WithLabelValues("failed").Inc()
				return &ShardError{Group: group, Err: err}
			}
			metrics.ShardsTotal.WithLabelValues("ok").Inc()
			shards[i] = shard
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Shard ingestion failed, discarding all shards.", "error", err)
		return nil, err
	}
	logger.Debug("All shards completed, merging.")

	ix := catalog.NewIndex()
	for _, shard := range shards {
		if err := ix.Merge(shard.Disciplines); err != nil {
			logger.Error("Catalog merge failed.", "group", shard.Group, "error", err)
			return nil, err
		}
	}
	ix.Seal()

	logger.Info("Catalog index assembled.", "groups", len(shards), "disciplines", ix.Len())
	return ix, nil
}

// runShard fetches one group and turns its fragments into disciplines.
func (c *Coordinator) runShard(ctx context.Context, group string) (Shard, error) {
	ctx = ctxlog.With(ctx, "group", group)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Fetching shard.")

	fragments, err := c.provider.Disciplines(ctx, group)
	if err != nil {
		return Shard{}, err
	}

	disciplines, err := Parse(group, fragments)
	if err != nil {
		return Shard{}, err
	}

	logger.Debug("Shard parsed.", "disciplines", len(disciplines))
	return Shard{Group: group, Disciplines: disciplines}, nil
}

// Parse converts one group's fragments into disciplines. Requirement text
// that fails to parse only invalidates that discipline's requirements; a
// fragment without a usable code or name fails the whole group.
func Parse(group string, fragments []source.Fragment) ([]*catalog.Discipline, error) {
	disciplines := make([]*catalog.Discipline, 0, len(fragments))
	for i, f := range fragments {
		code := strings.TrimSpace(f.Code)
		if !requirement.IsCode(code) {
			return nil, fmt.Errorf("%w: fragment %d has code %q", ErrMalformedFragment, i, f.Code)
		}
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: discipline %s has no name", ErrMalformedFragment, code)
		}

		d := catalog.NewDiscipline(group, code, name, f.Requirements)
		d.Credits = f.Credits
		d.Syllabus = strings.TrimSpace(f.Syllabus)
		metrics.DisciplinesTotal.WithLabelValues(d.Requirements.Presence.String()).Inc()
		disciplines = append(disciplines, d)
	}
	return disciplines, nil
}

// dedupe drops repeated group keys, keeping the first occurrence.
func dedupe(groups []string) []string {
	seen := make(map[string]struct{}, len(groups))
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
