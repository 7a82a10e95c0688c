// Package prom exports cache and client metrics to Prometheus.
package prom

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"kvcache/cache"
	"kvcache/client"
)

// CacheMetrics implements cache.Metrics and exports Prometheus
// counters/gauges. Safe for concurrent use; all Prometheus metric types
// are goroutine-safe.
type CacheMetrics struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	evicts prometheus.Counter
	size   prometheus.Gauge
}

// NewCacheMetrics constructs a Prometheus adapter for a cache.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func NewCacheMetrics(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *CacheMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &CacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "evictions_total",
			Help:        "Entries evicted to satisfy capacity",
			ConstLabels: constLabels,
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(m.hits, m.misses, m.evicts, m.size)
	return m
}

// Hit increments the hit counter.
func (m *CacheMetrics) Hit() { m.hits.Inc() }

// Miss increments the miss counter.
func (m *CacheMetrics) Miss() { m.misses.Inc() }

// Evict increments the eviction counter.
func (m *CacheMetrics) Evict() { m.evicts.Inc() }

// Size updates the resident entries gauge.
func (m *CacheMetrics) Size(entries int) { m.size.Set(float64(entries)) }

var _ cache.Metrics = (*CacheMetrics)(nil)

// ClientMetrics implements client.Metrics: per-node attempt outcomes and
// exhausted candidate walks, labeled by logical operation.
type ClientMetrics struct {
	attempts  *prometheus.CounterVec // labels: op, ok
	exhausted *prometheus.CounterVec // labels: op
}

// NewClientMetrics constructs a Prometheus adapter for the routing client.
func NewClientMetrics(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *ClientMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &ClientMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "attempts_total",
			Help:        "Node attempts by operation and transport outcome",
			ConstLabels: constLabels,
		}, []string{"op", "ok"}),
		exhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "exhausted_total",
			Help:        "Candidate walks that ran out of nodes",
			ConstLabels: constLabels,
		}, []string{"op"}),
	}
	reg.MustRegister(m.attempts, m.exhausted)
	return m
}

// Attempt records one node attempt.
func (m *ClientMetrics) Attempt(op client.Op, ok bool) {
	m.attempts.WithLabelValues(string(op), strconv.FormatBool(ok)).Inc()
}

// Exhausted records a walk that failed on every candidate.
func (m *ClientMetrics) Exhausted(op client.Op) {
	m.exhausted.WithLabelValues(string(op)).Inc()
}

var _ client.Metrics = (*ClientMetrics)(nil)
