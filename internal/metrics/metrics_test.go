package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCall("list", "ok", time.Second)
		m.ObserveLate()
		m.ObserveRefresh("remote")
		m.SetRecords("hikes", 3)
		m.ObserveMutation("hikes", "add", nil)
		m.ObserveRequest("GET", "GET /api/v1/hikes", 200)
	})
	assert.Nil(t, m.Registry())
}

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveCall("list", "ok", 10*time.Millisecond)
	m.ObserveCall("list", "timeout", 15*time.Second)
	m.ObserveCall("add", "ok", time.Millisecond)
	m.ObserveLate()
	m.SetRecords("hikes", 12)
	m.ObserveMutation("attractions", "delete", errors.New("boom"))
	m.ObserveRequest("PUT", "PUT /api/v1/hikes/{index}", 409)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("list", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.late))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.records.WithLabelValues("hikes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("attractions", "delete", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("PUT", "PUT /api/v1/hikes/{index}", "409")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRefresh("bundled")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `trailmap_refreshes_total{source="bundled"} 1`)
}
