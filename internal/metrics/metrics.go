// Package metrics generalizes coregx/signals' ad hoc atomic.Int64 read/write
// counters (signal.go: s.reads, s.writes) into exported
// Prometheus collectors, so an embedding application can scrape them the
// same way it scrapes everything else in a juju-shaped stack.
// github.com/prometheus/client_golang is declared in juju-juju's go.mod,
// the only metrics stack present anywhere in the example corpus.
//
// Registration against the default registry is best-effort: an application
// that never wires up a Prometheus handler still gets correctly counting
// collectors, it just never exports them.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Reads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "binding",
		Name:      "reads_total",
		Help:      "Number of Get calls served by value bindings.",
	})

	Writes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "binding",
		Name:      "writes_total",
		Help:      "Number of Set/Update calls that actually changed a value binding.",
	})

	ComputedRecomputes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "binding",
		Name:      "computed_recomputes_total",
		Help:      "Number of times a computed binding's function was invoked.",
	})

	ComputedCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "binding",
		Name:      "computed_cache_hits_total",
		Help:      "Number of Get calls served from a computed binding's cache without recomputing.",
	})

	ComputedInvalidations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "binding",
		Name:      "computed_invalidations_total",
		Help:      "Number of times a computed binding's cache was invalidated by an upstream change.",
	})

	ComputedRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "binding",
		Name:      "computed_retries_total",
		Help:      "Number of times a computed binding's recompute loop restarted because a dependency changed mid-evaluation.",
	})

	ComputedPanics = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "binding",
		Name:      "computed_panics_total",
		Help:      "Number of times a computed binding's function panicked during recompute.",
	})

	RopeEditsApplied = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "binding",
		Name:      "rope_edits_applied_total",
		Help:      "Number of structural edits applied to rope bindings.",
	})

	RopeConsumersActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "binding",
		Name:      "rope_consumers_active",
		Help:      "Number of currently open rope binding stream consumers.",
	})
)

func init() {
	for _, c := range []prometheus.Collector{
		Reads, Writes,
		ComputedRecomputes, ComputedCacheHits, ComputedInvalidations, ComputedRetries, ComputedPanics,
		RopeEditsApplied, RopeConsumersActive,
	} {
		register(c)
	}
}

// register swallows AlreadyRegisteredError so re-importing this package in
// a test binary (or registering against a custom registry that already
// holds an identically-named collector) never panics.
func register(c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			panic(err)
		}
	}
}
