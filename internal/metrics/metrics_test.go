package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAction(t *testing.T) {
	m, err := NewWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordAction(ActionWhip)
	m.RecordAction(ActionWhip)
	m.RecordAction(ActionLike)

	assert.InDelta(t, 2, testutil.ToFloat64(m.engagementActions.WithLabelValues(ActionWhip)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.engagementActions.WithLabelValues(ActionLike)), 0)
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAction(ActionShare)
		m.RecordHTTPRequest(http.MethodGet, "/api/cases", 200, time.Millisecond)
		m.RecordCacheLookup("hit")
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.RecordHTTPRequest(http.MethodGet, "/api/cases/:id", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bugai_http_requests_total{method="GET",path="/api/cases/:id",status_code="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestDoubleRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewWithRegistry(registry)
	require.NoError(t, err)
	_, err = NewWithRegistry(registry)
	assert.Error(t, err)
}
