package infra

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported by the dashboard.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal      *prometheus.CounterVec
	FetchDuration   prometheus.Histogram
	CacheLookups    *prometheus.CounterVec
	FramesRendered  prometheus.Counter
	AnimationsTotal *prometheus.CounterVec
	ActivePlayers   prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
}

// NewMetrics creates the collectors on a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "fred_fetch_total",
			Help:      "Observation table loads from FRED by result.",
		}, []string{"result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "econdash",
			Name:      "fred_fetch_duration_seconds",
			Help:      "Duration of a full observation table load.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8),
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "cache_lookups_total",
			Help:      "Observation table cache lookups by outcome.",
		}, []string{"outcome"}),
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "animation_frames_total",
			Help:      "Animation frames rendered.",
		}),
		AnimationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "animations_total",
			Help:      "Finished animation runs by final state.",
		}, []string{"state"}),
		ActivePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "econdash",
			Name:      "animations_active",
			Help:      "Animation runs currently playing.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "econdash",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.CacheLookups,
		m.FramesRendered,
		m.AnimationsTotal,
		m.ActivePlayers,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
