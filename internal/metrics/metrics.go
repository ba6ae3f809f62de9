// Package metrics exposes Prometheus instrumentation for harvest runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ShardsTotal counts shard fetch-and-parse tasks by result.
	ShardsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reqgraph_shards_total",
		Help: "Shard fetch-and-parse tasks by result",
	}, []string{"result"})

	// ShardDuration tracks how long a single shard takes to fetch and parse.
	ShardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reqgraph_shard_duration_seconds",
		Help:    "Shard fetch-and-parse duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
	})

	// DisciplinesTotal counts parsed disciplines by requirement presence.
	DisciplinesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reqgraph_disciplines_total",
		Help: "Parsed disciplines by requirement presence (absent, invalid, present)",
	}, []string{"presence"})

	// AtomsTotal counts resolved requirement atoms by outcome.
	AtomsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reqgraph_atoms_total",
		Help: "Requirement atoms by resolution outcome (resolved, special)",
	}, []string{"outcome"})

	// PagesTotal counts catalog page fetches by result.
	PagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reqgraph_pages_total",
		Help: "Catalog page fetches by result (ok, error)",
	}, []string{"result"})

	// RunsTotal counts harvest runs by result.
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reqgraph_runs_total",
		Help: "Harvest runs by result",
	}, []string{"result"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
