package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordsSearches(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSearch("video-car", "success", 120*time.Millisecond)
	m.ObserveSearch("video-car", "success", 80*time.Millisecond)
	m.ObserveSearch("video-car", "network", time.Second)
	m.IncUserRetry("video-car")
	m.IncUpstreamRetry("receipt-by-car")
	m.SetActiveSessions(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Searches.WithLabelValues("video-car", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("video-car", "network")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UserRetries.WithLabelValues("video-car")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRetries.WithLabelValues("receipt-by-car")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSearch("video-car", "success", time.Second)
		m.ObserveUpstreamRequest("receipt-by-car", "ok", time.Second)
		m.IncUpstreamRetry("receipt-by-car")
		m.IncUserRetry("video-car")
		m.SetActiveSessions(1)
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveUpstreamRequest("receipt-by-car", "ok", 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "police_fines_upstream_request_duration_seconds"))
}
