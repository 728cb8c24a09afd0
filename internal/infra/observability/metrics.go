package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	resolutionDuration *prometheus.HistogramVec
	mutationsTotal     *prometheus.CounterVec
	persistErrors      prometheus.Counter
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	activeFeatures     prometheus.Gauge
	activeModules      prometheus.Gauge
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		resolutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "opsuite_resolution_duration_seconds",
				Help:    "Duration of feature/module resolution by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		mutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsuite_profile_mutations_total",
				Help: "Total profile mutations by operation.",
			},
			[]string{"operation"},
		),
		persistErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "opsuite_persist_errors_total",
				Help: "Total best-effort persistence failures.",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsuite_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsuite_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		activeFeatures: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "opsuite_active_features",
				Help: "Number of currently active features.",
			},
		),
		activeModules: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "opsuite_active_modules",
				Help: "Number of currently visible modules.",
			},
		),
	}
}

// RecordResolutionDuration records the duration of a resolution pass.
func (m *Metrics) RecordResolutionDuration(operation string, d time.Duration) {
	m.resolutionDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrMutation increments the mutation counter for an operation.
func (m *Metrics) IncrMutation(operation string) {
	m.mutationsTotal.WithLabelValues(operation).Inc()
}

// IncrPersistError increments the persistence failure counter.
func (m *Metrics) IncrPersistError() {
	m.persistErrors.Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// SetDerivedSizes records the sizes of the current derived sets.
func (m *Metrics) SetDerivedSizes(features, modules int) {
	m.activeFeatures.Set(float64(features))
	m.activeModules.Set(float64(modules))
}

// MutationCount returns the cumulative mutation count across operations.
// Used by the resolution metrics snapshot endpoint.
func (m *Metrics) MutationCount() int64 {
	total := float64(0)
	for _, op := range []string{"initialize", "toggle_capability", "toggle_infrastructure", "set_capabilities", "set_infrastructure", "complete_setup", "reset"} {
		total += getCounterValue(m.mutationsTotal, op)
	}
	return int64(total)
}

// PersistErrorCount returns the cumulative persistence failure count.
func (m *Metrics) PersistErrorCount() int64 {
	c := &dto.Metric{}
	if err := m.persistErrors.Write(c); err != nil {
		return 0
	}
	if c.Counter != nil && c.Counter.Value != nil {
		return int64(*c.Counter.Value)
	}
	return 0
}

// CacheHitRate returns hits/(hits+misses) for the module preview cache.
func (m *Metrics) CacheHitRate() float64 {
	hits := getCounterValue(m.cacheHits, "module_preview")
	misses := getCounterValue(m.cacheMisses, "module_preview")
	if hits+misses == 0 {
		return 0
	}
	return hits / (hits + misses)
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
