package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Backend API metrics
	BackendRequestsTotal   *prometheus.CounterVec
	BackendDurationSeconds *prometheus.HistogramVec

	// Resolution cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheEntries     prometheus.Gauge

	// Action dispatch metrics
	ActionDurationSeconds *prometheus.HistogramVec
	ActionRequestsTotal   *prometheus.CounterVec

	// Ingestion pipeline metrics
	IngestDocumentsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		BackendRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "unichat_backend_requests_total",
				Help: "Total number of backend API requests by endpoint and status",
			},
			[]string{"endpoint", "status"}, // status: success, error, timeout, not_found
		),

		BackendDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "unichat_backend_duration_seconds",
				Help:    "Backend API request duration in seconds by endpoint",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}, // matches 10s read / 30s generate timeouts
			},
			[]string{"endpoint"},
		),

		CacheHitsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "unichat_cache_hits_total",
				Help: "Total resolution cache hits by lookup type",
			},
			[]string{"lookup"},
		),

		CacheMissesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "unichat_cache_misses_total",
				Help: "Total resolution cache misses by lookup type",
			},
			[]string{"lookup"},
		),

		CacheEntries: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "unichat_cache_entries",
				Help: "Current number of resolution cache entries (expired included)",
			},
		),

		ActionDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "unichat_action_duration_seconds",
				Help:    "Action handler duration in seconds by action name",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"action"},
		),

		ActionRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "unichat_action_requests_total",
				Help: "Total action handler invocations by action name and outcome",
			},
			[]string{"action", "outcome"}, // outcome: success, not_found, missing_slot, error
		),

		IngestDocumentsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "unichat_ingest_documents_total",
				Help: "Total ingestion pipeline documents by stage and outcome",
			},
			[]string{"stage", "outcome"}, // stage: summarize, publish
		),
	}
}

// RecordBackendRequest records a backend API request with duration
func (m *Metrics) RecordBackendRequest(endpoint, status string, duration float64) {
	if m == nil {
		return
	}
	m.BackendRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.BackendDurationSeconds.WithLabelValues(endpoint).Observe(duration)
}

// RecordCacheHit records a resolution cache hit
func (m *Metrics) RecordCacheHit(lookup string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(lookup).Inc()
}

// RecordCacheMiss records a resolution cache miss
func (m *Metrics) RecordCacheMiss(lookup string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(lookup).Inc()
}

// RecordAction records an action handler invocation
func (m *Metrics) RecordAction(action, outcome string, duration float64) {
	if m == nil {
		return
	}
	m.ActionRequestsTotal.WithLabelValues(action, outcome).Inc()
	m.ActionDurationSeconds.WithLabelValues(action).Observe(duration)
}

// SetCacheEntries updates the resolution cache size gauge
func (m *Metrics) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.CacheEntries.Set(float64(n))
}

// RecordIngestDocument records an ingestion pipeline document outcome
func (m *Metrics) RecordIngestDocument(stage, outcome string) {
	if m == nil {
		return
	}
	m.IngestDocumentsTotal.WithLabelValues(stage, outcome).Inc()
}
