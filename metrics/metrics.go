// Package metrics exposes the cache and storage counters of the query layer.
// A nil *Collectors is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "olapcache"

type Collectors struct {
	registerer prometheus.Registerer

	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	storageFailures *prometheus.CounterVec
	lookups         *prometheus.CounterVec
	warmTasks       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		registerer: reg,
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Query results served from the cache.",
		}, []string{"scope"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Query results recomputed from storage.",
		}, []string{"scope"}),
		storageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_failures_total",
			Help:      "Storage calls degraded to a default result.",
		}, []string{"operation"}),
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Point lookups by identifier kind and outcome.",
		}, []string{"kind", "outcome"}),
		warmTasks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warm_tasks_total",
			Help:      "Cache warming tasks by view and outcome.",
		}, []string{"view", "outcome"}),
	}
}

// WatchStore exports the number of cache entries as a gauge.
func (c *Collectors) WatchStore(store interface{ Len() int }) {
	if c == nil {
		return
	}
	promauto.With(c.registerer).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_entries",
		Help:      "Entries held by the cache, expired ones included.",
	}, func() float64 {
		return float64(store.Len())
	})
}

func (c *Collectors) CacheHit(scope string) {
	if c == nil {
		return
	}
	c.cacheHits.WithLabelValues(scope).Inc()
}

func (c *Collectors) CacheMiss(scope string) {
	if c == nil {
		return
	}
	c.cacheMisses.WithLabelValues(scope).Inc()
}

func (c *Collectors) StorageFailure(operation string) {
	if c == nil {
		return
	}
	c.storageFailures.WithLabelValues(operation).Inc()
}

func (c *Collectors) Lookups(kind string, found, missing, failed int) {
	if c == nil {
		return
	}
	c.lookups.WithLabelValues(kind, "found").Add(float64(found))
	c.lookups.WithLabelValues(kind, "missing").Add(float64(missing))
	c.lookups.WithLabelValues(kind, "failed").Add(float64(failed))
}

func (c *Collectors) WarmTask(view string, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "degraded"
	}
	c.warmTasks.WithLabelValues(view, outcome).Inc()
}

// Value reads a counter, for tests and diagnostics.
func (c *Collectors) Value(name string, labels ...string) float64 {
	if c == nil {
		return 0
	}
	var vec *prometheus.CounterVec
	switch name {
	case "cache_hits_total":
		vec = c.cacheHits
	case "cache_misses_total":
		vec = c.cacheMisses
	case "storage_failures_total":
		vec = c.storageFailures
	case "lookups_total":
		vec = c.lookups
	case "warm_tasks_total":
		vec = c.warmTasks
	default:
		return 0
	}
	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}
