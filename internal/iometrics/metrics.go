// Package iometrics provides Prometheus metrics of bucket resolution,
// listing ingestion and search.
package iometrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes.
const (
	ResolvedExact    = "exact"
	ResolvedNeighbor = "neighbor"
	ResolvedCreated  = "created"
	ResolvedConflict = "conflict"
	ResolvedError    = "error"
)

// Listing outcomes.
const (
	ListingIngested  = "ingested"
	ListingSkipped   = "skipped"
	ListingDuplicate = "duplicate"
	ListingFailed    = "failed"
)

// Status labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics contains Prometheus metrics of the geobuckets engine.
// All recording methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	resolutionsTotal  *prometheus.CounterVec
	resolveDuration   prometheus.Histogram
	incrementsTotal   *prometheus.CounterVec
	listingsTotal     *prometheus.CounterVec
	searchesTotal     *prometheus.CounterVec
	searchResultsHist *prometheus.HistogramVec
	statsCacheTotal   *prometheus.CounterVec

	collectors []prometheus.Collector
}

// New creates metrics and registers them in registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.resolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geobuckets_resolutions_total",
			Help: "Total number of bucket resolutions by outcome",
		},
		[]string{"outcome"}, // exact, neighbor, created, conflict, error
	)

	m.resolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geobuckets_resolve_duration_seconds",
			Help:    "Time taken to resolve a bucket",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
	)

	m.incrementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geobuckets_count_increments_total",
			Help: "Total number of listing count increments",
		},
		[]string{"status"},
	)

	m.listingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geobuckets_listings_total",
			Help: "Total number of listings processed by outcome",
		},
		[]string{"outcome"}, // ingested, skipped, duplicate, failed
	)

	m.searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geobuckets_searches_total",
			Help: "Total number of searches",
		},
		[]string{"kind", "status"},
	)

	m.searchResultsHist = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geobuckets_search_results",
			Help:    "Number of results returned by searches",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1 to 128
		},
		[]string{"kind"},
	)

	m.statsCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geobuckets_stats_cache_total",
			Help: "Total number of stats report cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	m.collectors = []prometheus.Collector{
		m.resolutionsTotal,
		m.resolveDuration,
		m.incrementsTotal,
		m.listingsTotal,
		m.searchesTotal,
		m.searchResultsHist,
		m.statsCacheTotal,
	}
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// Registry returns the registry the metrics are registered in.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordResolution records the outcome and duration of one resolution.
func (m *Metrics) RecordResolution(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.resolutionsTotal.WithLabelValues(outcome).Inc()
	m.resolveDuration.Observe(d.Seconds())
}

// RecordIncrement records a listing count increment.
func (m *Metrics) RecordIncrement(status string) {
	if m == nil {
		return
	}
	m.incrementsTotal.WithLabelValues(status).Inc()
}

// RecordListing records the outcome of ingesting one listing.
func (m *Metrics) RecordListing(outcome string) {
	if m == nil {
		return
	}
	m.listingsTotal.WithLabelValues(outcome).Inc()
}

// RecordSearch records a search and the number of results it returned.
func (m *Metrics) RecordSearch(kind string, results int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.searchesTotal.WithLabelValues(kind, StatusError).Inc()
		return
	}
	m.searchesTotal.WithLabelValues(kind, StatusSuccess).Inc()
	m.searchResultsHist.WithLabelValues(kind).Observe(float64(results))
}

// RecordStatsCache records a lookup of the stats report cache.
func (m *Metrics) RecordStatsCache(hit bool) {
	if m == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	m.statsCacheTotal.WithLabelValues(res).Inc()
}

// WriteToTextfile writes all metrics of the registry in the text
// exposition format, for the node exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return WriteError(path, err)
	}
	return nil
}
