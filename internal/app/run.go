package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/specialistvlad/reqgraph/internal/catalog"
	"github.com/specialistvlad/reqgraph/internal/ctxlog"
	"github.com/specialistvlad/reqgraph/internal/curriculum"
	"github.com/specialistvlad/reqgraph/internal/depgraph"
	"github.com/specialistvlad/reqgraph/internal/metrics"
	"github.com/specialistvlad/reqgraph/internal/record"
	"github.com/specialistvlad/reqgraph/internal/resolver"
	"github.com/specialistvlad/reqgraph/internal/shard"
	"github.com/specialistvlad/reqgraph/internal/sink"
	"github.com/specialistvlad/reqgraph/internal/source"
)

// ErrNoCourses is returned when courses are requested from a provider that
// cannot list them.
var ErrNoCourses = errors.New("source does not provide courses")

// Result is the outcome of one harvest.
type Result struct {
	RunID   string
	Index   *catalog.Index
	Report  resolver.Report
	Groups  []record.Group
	Courses []record.Course
}

// Run executes one harvest and writes its results. The health check server,
// when enabled, lives for the duration of the run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, a.appConfig.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}

	res, err := a.Harvest(ctx)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("failure").Inc()
		return err
	}
	if err := a.write(ctx, res); err != nil {
		metrics.RunsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.RunsTotal.WithLabelValues("success").Inc()

	ctxlog.FromContext(ctx).Info("🏁 Harvest finished.",
		"run_id", res.RunID,
		"disciplines", res.Index.Len(),
		"groups", len(res.Groups),
		"special", res.Report.Special,
		"invalid", res.Report.Invalid,
		"courses", len(res.Courses),
	)
	return nil
}

// Harvest ingests every shard, resolves the catalog and serializes it. No
// sink is touched; a failed harvest returns no result.
func (a *App) Harvest(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	ctx = ctxlog.WithLogger(ctx, a.logger.With("run_id", runID))
	logger := ctxlog.FromContext(ctx)

	provider := a.provider
	if provider == nil {
		p, err := newProvider(a.config.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to create source: %w", err)
		}
		provider = p
	}

	coord := shard.New(provider, a.config.Harvest.Workers)
	groups := a.config.Harvest.Groups
	if len(groups) == 0 {
		discovered, err := coord.Discover(ctx)
		if err != nil {
			return nil, err
		}
		groups = discovered
	}

	logger.Info("🚀 Starting harvest...", "groups", len(groups))
	ix, err := coord.ResolveAllShards(ctx, groups)
	if err != nil {
		return nil, fmt.Errorf("shard ingestion failed: %w", err)
	}

	report, err := resolver.New(a.config.Harvest.ResolveWorkers).Resolve(ctx, ix)
	if err != nil {
		return nil, fmt.Errorf("resolution failed: %w", err)
	}

	g, err := depgraph.FromIndex(ix)
	if err != nil {
		return nil, fmt.Errorf("failed to build prerequisite graph: %w", err)
	}
	if err := g.DetectCycles(); err != nil {
		a.warnCycle(ctx, g, err)
	}

	res := &Result{
		RunID:  runID,
		Index:  ix,
		Report: report,
		Groups: record.FromIndex(ix),
	}

	if a.config.Harvest.Courses {
		courses, err := a.harvestCourses(ctx, provider, ix)
		if err != nil {
			return nil, err
		}
		res.Courses = courses
	}
	return res, nil
}

// warnCycle logs the neighbourhood of the discipline reported on a cycle.
func (a *App) warnCycle(ctx context.Context, g *depgraph.Graph, err error) {
	logger := ctxlog.FromContext(ctx)
	var cycleErr *depgraph.CycleError
	if !errors.As(err, &cycleErr) {
		logger.Warn("Prerequisite graph is not acyclic.", "error", err)
		return
	}
	prereqs, _ := g.Prerequisites(cycleErr.Code)
	dependents, _ := g.Dependents(cycleErr.Code)
	logger.Warn("Prerequisite graph is not acyclic.",
		"error", err,
		"code", cycleErr.Code,
		"prerequisites", prereqs,
		"dependents", dependents,
	)
}

func (a *App) harvestCourses(ctx context.Context, provider source.Provider, ix *catalog.Index) ([]record.Course, error) {
	logger := ctxlog.FromContext(ctx)
	cp, ok := provider.(source.CourseProvider)
	if !ok {
		return nil, ErrNoCourses
	}

	courses, err := cp.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}

	out := make([]record.Course, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		if unknown := curriculum.Unknown(c, ix); len(unknown) > 0 {
			logger.Warn("Curriculum references disciplines missing from the catalog.", "course", c.Code, "codes", unknown)
		}
		out = append(out, record.FromCourse(*c))
	}
	logger.Debug("Courses harvested.", "count", len(out))
	return out, nil
}

// write hands the result to every configured sink. The transactional
// SQLite sink runs first so a failed database write leaves no JSON files.
func (a *App) write(ctx context.Context, res *Result) error {
	out := a.config.Output
	var sinks []sink.Sink

	if out.SQLite != "" {
		path := out.SQLite
		if !filepath.IsAbs(path) {
			path = filepath.Join(out.Directory, path)
		}
		db, err := sink.OpenSQLite(path)
		if err != nil {
			return fmt.Errorf("failed to open sqlite output: %w", err)
		}
		defer db.Close()
		sinks = append(sinks, db)
	}
	sinks = append(sinks, sink.NewJSONDir(out.Directory))

	return writeAll(ctx, sinks, res)
}

// writeAll runs sinks in order and stops at the first failure.
func writeAll(ctx context.Context, sinks []sink.Sink, res *Result) error {
	for _, s := range sinks {
		if err := s.Write(ctx, res.Groups); err != nil {
			return fmt.Errorf("failed to write catalog: %w", err)
		}
		if res.Courses == nil {
			continue
		}
		if cw, ok := s.(sink.CourseWriter); ok {
			if err := cw.WriteCourses(ctx, res.Courses); err != nil {
				return fmt.Errorf("failed to write courses: %w", err)
			}
		}
	}
	return nil
}
