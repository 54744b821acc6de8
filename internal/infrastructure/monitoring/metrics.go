package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// WebSocket metrics
	WSSessions *prometheus.GaugeVec
	WSMessages *prometheus.CounterVec
	WSErrors   *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time
}

// NewMetrics creates a metrics collector on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demo_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "demo_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "demo_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		WSSessions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "demo_ws_sessions_active",
				Help: "Number of open websocket sessions",
			},
			[]string{"endpoint"},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demo_ws_messages_total",
				Help: "Total number of websocket text messages",
			},
			[]string{"endpoint", "direction"},
		),
		WSErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demo_ws_errors_total",
				Help: "Total number of websocket transport errors",
			},
			[]string{"endpoint"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "demo_uptime_seconds",
			Help: "Seconds since the service started",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// SessionOpened increments the open session gauge for endpoint.
func (m *Metrics) SessionOpened(endpoint string) {
	if m == nil {
		return
	}
	m.WSSessions.WithLabelValues(endpoint).Inc()
}

// SessionClosed decrements the open session gauge for endpoint.
func (m *Metrics) SessionClosed(endpoint string) {
	if m == nil {
		return
	}
	m.WSSessions.WithLabelValues(endpoint).Dec()
}

// MessageReceived counts an inbound text frame.
func (m *Metrics) MessageReceived(endpoint string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(endpoint, "in").Inc()
}

// MessageSent counts an outbound text frame.
func (m *Metrics) MessageSent(endpoint string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(endpoint, "out").Inc()
}

// SessionError counts a transport error reported to a listener.
func (m *Metrics) SessionError(endpoint string) {
	if m == nil {
		return
	}
	m.WSErrors.WithLabelValues(endpoint).Inc()
}
