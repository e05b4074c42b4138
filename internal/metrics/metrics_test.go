package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordBackendRequest(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordBackendRequest("lista_disciplina", "success", 0.2)
	m.RecordBackendRequest("lista_disciplina", "success", 0.4)
	m.RecordBackendRequest("lista_disciplina", "timeout", 10)

	if got := testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues("lista_disciplina", "success")); got != 2 {
		t.Errorf("success counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues("lista_disciplina", "timeout")); got != 1 {
		t.Errorf("timeout counter = %v, want 1", got)
	}
}

func TestRecordCacheHitMiss(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordCacheHit("course_id")
	m.RecordCacheMiss("course_id")
	m.RecordCacheMiss("course_id")

	if got := testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("course_id")); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("course_id")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
}

func TestNilReceiverSafe(t *testing.T) {
	var m *Metrics
	// Metrics are optional everywhere; nil must be a no-op, not a panic.
	m.RecordBackendRequest("x", "success", 0)
	m.RecordCacheHit("x")
	m.RecordCacheMiss("x")
	m.RecordAction("x", "success", 0)
	m.RecordIngestDocument("summarize", "success")
}
