// Package metrics defines the Prometheus collectors for harvesting,
// compilation and the site cache.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric.
const Namespace = "sitemap"

// Metrics implements the harvest, registry and sitemap recorders.
type Metrics struct {
	HarvestPages    *prometheus.CounterVec
	HarvestItems    *prometheus.CounterVec
	HarvestFailures *prometheus.CounterVec
	CompileDuration *prometheus.HistogramVec
	SiteCache       *prometheus.CounterVec
}

// New registers the collectors with reg, or the default registerer when
// reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HarvestPages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "harvest_pages_total",
			Help:      "Content pages fetched from the backend",
		}, []string{"strategy"}),
		HarvestItems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "harvest_items_total",
			Help:      "Content items harvested",
		}, []string{"strategy"}),
		HarvestFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "harvest_failures_total",
			Help:      "Language harvests stopped by an upstream fetch failure",
		}, []string{"strategy"}),
		CompileDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "compile_duration_seconds",
			Help:      "Time to compile a sitemap document",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		}, []string{"mode"}),
		SiteCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "site_cache_total",
			Help:      "Site descriptor cache lookups",
		}, []string{"result"}),
	}
}

func (m *Metrics) PageFetched(strategy string, items int) {
	m.HarvestPages.WithLabelValues(strategy).Inc()
	m.HarvestItems.WithLabelValues(strategy).Add(float64(items))
}

func (m *Metrics) FetchFailed(strategy string) {
	m.HarvestFailures.WithLabelValues(strategy).Inc()
}

func (m *Metrics) CompileObserved(mode string, d time.Duration) {
	m.CompileDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (m *Metrics) CacheResult(result string) {
	m.SiteCache.WithLabelValues(result).Inc()
}
