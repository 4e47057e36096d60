package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Relay outcomes used as the "outcome" label.
const (
	OutcomeHandled    = "handled"
	OutcomeNotHandled = "not_handled"
	OutcomeFailed     = "failed"
)

// Metrics holds all Prometheus metrics for one relay instance. Each instance
// owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Relay metrics
	RelayMessages    *prometheus.CounterVec
	RelayDuration    *prometheus.HistogramVec
	RelayConnections *prometheus.CounterVec
	ChannelListeners prometheus.Gauge

	// Upstream metrics
	UpstreamDuration *prometheus.HistogramVec

	// Bootstrap metrics
	PageDecisions *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	startTime time.Time
	snapshot  Snapshot
	mu        sync.RWMutex
}

// Snapshot holds current counter values for the JSON health endpoint
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	Handled           int64   `json:"handled"`
	NotHandled        int64   `json:"not_handled"`
	Failed            int64   `json:"failed"`
	ActiveConnections int64   `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// NewMetrics creates a new metrics collector with its own registry
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
				Name: "bewly_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bewly_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bewly_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		RelayMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bewly_relay_messages_total",
				Help: "Relay messages by transport, query and outcome",
			},
			[]string{"transport", "query", "outcome"},
		),
		RelayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bewly_relay_dispatch_duration_seconds",
				Help:    "Time from message receipt to result",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"transport"},
		),
		RelayConnections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bewly_relay_connections_total",
				Help: "Connection events by transport",
			},
			[]string{"transport"},
		),
		ChannelListeners: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bewly_relay_channel_listeners",
				Help: "Message listeners currently attached to the channel",
			},
		),

		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bewly_upstream_request_duration_seconds",
				Help:    "Outbound API call duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"host", "status"},
		),

		PageDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bewly_page_decisions_total",
				Help: "Homepage bootstrap decisions by action",
			},
			[]string{"action"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bewly_ws_connections",
				Help: "Number of open WebSocket connections",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "bewly_uptime_seconds",
			Help: "Relay uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordRelayMessage records one dispatched message. Unhandled queries are
// folded into a single label value to keep cardinality bounded.
func (m *Metrics) RecordRelayMessage(transport, query, outcome string, duration time.Duration) {
	if outcome == OutcomeNotHandled {
		query = "other"
	}
	m.RelayMessages.WithLabelValues(transport, query, outcome).Inc()
	m.RelayDuration.WithLabelValues(transport).Observe(duration.Seconds())

	m.mu.Lock()
	switch outcome {
	case OutcomeHandled:
		m.snapshot.Handled++
	case OutcomeNotHandled:
		m.snapshot.NotHandled++
	case OutcomeFailed:
		m.snapshot.Failed++
	}
	m.mu.Unlock()
}

// RecordConnection records a connection event from a transport
func (m *Metrics) RecordConnection(transport string) {
	m.RelayConnections.WithLabelValues(transport).Inc()
}

// SetChannelListeners sets the number of listeners on the channel
func (m *Metrics) SetChannelListeners(count int) {
	m.ChannelListeners.Set(float64(count))
}

// RecordUpstream records an outbound API call. status is "error" when the
// call never produced a response.
func (m *Metrics) RecordUpstream(host, status string, duration time.Duration) {
	m.UpstreamDuration.WithLabelValues(host, status).Observe(duration.Seconds())
}

// RecordPageDecision records a bootstrap decision
func (m *Metrics) RecordPageDecision(action string) {
	m.PageDecisions.WithLabelValues(action).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns a copy of the current counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
