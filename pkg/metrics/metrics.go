// Package metrics exposes Prometheus collectors for the site and its live
// runtime.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Metrics holds all application collectors on a private registry.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	PageViews *prometheus.CounterVec

	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter

	MessagesReceived *prometheus.CounterVec
	MessagesSent     *prometheus.CounterVec

	RenderDuration prometheus.Histogram
	DiffSize       prometheus.Histogram

	ErrorsTotal   *prometheus.CounterVec
	PanicsTotal   prometheus.Counter
	LogStatements *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		PageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_views_total",
			Help:      "Server rendered pages, by route.",
		}, []string{"route"}),

		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_connections_active",
			Help:      "Number of joined live sockets.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_connections_total",
			Help:      "Total live sockets joined.",
		}),

		MessagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_messages_received_total",
			Help:      "Messages received from clients, by event.",
		}, []string{"event"}),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_messages_sent_total",
			Help:      "Messages sent to clients, by event.",
		}, []string{"event"}),

		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Component render duration.",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		}),
		DiffSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "diff_size_bytes",
			Help:      "Size of diffs pushed to clients.",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
		}),

		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors, by type.",
		}, []string{"type"}),
		PanicsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "Panics recovered by the HTTP middleware.",
		}),
		LogStatements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_statements_total",
			Help:      "Number of log statements, differentiated by log level.",
		}, []string{"level"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.PageViews,
		m.ConnectionsActive,
		m.ConnectionsTotal,
		m.MessagesReceived,
		m.MessagesSent,
		m.RenderDuration,
		m.DiffSize,
		m.ErrorsTotal,
		m.PanicsTotal,
		m.LogStatements,
	)

	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry in exposition format.
// Compression is left to the router middleware.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry, DisableCompression: true})
}

// PageView counts a server rendered page.
func (m *Metrics) PageView(route string) {
	if m == nil {
		return
	}
	m.PageViews.WithLabelValues(route).Inc()
}

// ConnectionOpened records a joined socket.
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.ConnectionsTotal.Inc()
	m.ConnectionsActive.Inc()
}

// ConnectionClosed records a socket leaving.
func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.ConnectionsActive.Dec()
}

// MessageReceived counts an inbound message.
func (m *Metrics) MessageReceived(event string) {
	if m == nil {
		return
	}
	m.MessagesReceived.WithLabelValues(event).Inc()
}

// MessageSent counts an outbound message.
func (m *Metrics) MessageSent(event string) {
	if m == nil {
		return
	}
	m.MessagesSent.WithLabelValues(event).Inc()
}

// RecordError counts an error of the given type.
func (m *Metrics) RecordError(errType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errType).Inc()
}

// RecordPanic counts a recovered panic.
func (m *Metrics) RecordPanic() {
	if m == nil {
		return
	}
	m.PanicsTotal.Inc()
}

// RecordRender observes a render duration.
func (m *Metrics) RecordRender(duration time.Duration) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(duration.Seconds())
}

// RecordDiff observes the size of a diff pushed to a client.
func (m *Metrics) RecordDiff(size int) {
	if m == nil {
		return
	}
	m.DiffSize.Observe(float64(size))
}

// LogHook returns a zerolog hook counting log statements by level.
func (m *Metrics) LogHook() zerolog.Hook {
	return logHook{m: m}
}

type logHook struct {
	m *Metrics
}

// Run implements zerolog.Hook.
func (h logHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if h.m == nil || level == zerolog.NoLevel {
		return
	}
	h.m.LogStatements.WithLabelValues(level.String()).Inc()
}
