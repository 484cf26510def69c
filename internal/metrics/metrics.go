// Package metrics exposes prometheus collectors for remote calls, refreshes
// and collection sizes. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trailmap"

// Metrics groups the collectors used across the application.
type Metrics struct {
	registry *prometheus.Registry

	calls     *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	late      prometheus.Counter
	refreshes *prometheus.CounterVec
	records   *prometheus.GaugeVec
	mutations *prometheus.CounterVec
	requests  *prometheus.CounterVec
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "calls_total",
			Help:      "Remote calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "call_duration_seconds",
			Help:      "Time from dispatch to outcome for remote calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}, []string{"op"}),
		late: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "late_deliveries_total",
			Help:      "Responses that arrived after their call was settled.",
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Refreshes by the source that supplied the hikes.",
		}, []string{"source"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records currently held per kind.",
		}, []string{"kind"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Mutations by kind, operation and result.",
		}, []string{"kind", "op", "result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
	}
	reg.MustRegister(m.calls, m.duration, m.late, m.refreshes, m.records, m.mutations, m.requests)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCall records one settled remote call.
func (m *Metrics) ObserveCall(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveLate records a response that found no pending call.
func (m *Metrics) ObserveLate() {
	if m == nil {
		return
	}
	m.late.Inc()
}

// ObserveRefresh records which source won a refresh.
func (m *Metrics) ObserveRefresh(source string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(source).Inc()
}

// SetRecords sets the size gauge for a kind.
func (m *Metrics) SetRecords(kind string, n int) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(kind).Set(float64(n))
}

// ObserveMutation records the result of an add, update or delete.
func (m *Metrics) ObserveMutation(kind, op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mutations.WithLabelValues(kind, op, result).Inc()
}

// ObserveRequest records one served API request. route is the mux pattern,
// not the raw path, so record positions do not multiply the series.
func (m *Metrics) ObserveRequest(method, route string, code int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
