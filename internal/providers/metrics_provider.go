package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"feedboard/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	ObserveRemoteDuration(path string, duration time.Duration)
	IncRemoteErrors(path string, kind string)
	IncPollTicks(success bool)
	IncConfigSaves(success bool)
	SetSessionState(state int)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	remoteDuration  *prometheus.HistogramVec
	remoteErrors    *prometheus.CounterVec
	pollTicks       *prometheus.CounterVec
	configSaves     *prometheus.CounterVec
	sessionState    prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveRemoteDuration(path string, duration time.Duration) {
	m.remoteDuration.WithLabelValues(path).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncRemoteErrors(path string, kind string) {
	m.remoteErrors.WithLabelValues(path, kind).Inc()
}

func (m *MetricsProvider) IncPollTicks(success bool) {
	m.pollTicks.WithLabelValues(boolOutcome(success)).Inc()
}

func (m *MetricsProvider) IncConfigSaves(success bool) {
	m.configSaves.WithLabelValues(boolOutcome(success)).Inc()
}

func (m *MetricsProvider) SetSessionState(state int) {
	m.sessionState.Set(float64(state))
}

func boolOutcome(success bool) string {
	if success {
		return "ok"
	}
	return "error"
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "feedboard_requests_total",
			Help: "Total number of dashboard HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feedboard_request_duration_seconds",
			Help:    "Dashboard HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		remoteDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feedboard_remote_duration_seconds",
			Help:    "Bot API round-trip duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),

		remoteErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "feedboard_remote_errors_total",
			Help: "Classified bot API errors",
		}, []string{"path", "kind"}),

		pollTicks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "feedboard_poll_ticks_total",
			Help: "Stats poller tick outcomes",
		}, []string{"outcome"}),

		configSaves: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "feedboard_config_saves_total",
			Help: "Configuration save outcomes",
		}, []string{"outcome"}),

		sessionState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "feedboard_session_state",
			Help: "Current session state (0=unauthenticated 1=verifying 2=authenticated)",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) ObserveRemoteDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncRemoteErrors(_ string, _ string)               {}
func (n *noopMetrics) IncPollTicks(_ bool)                              {}
func (n *noopMetrics) IncConfigSaves(_ bool)                            {}
func (n *noopMetrics) SetSessionState(_ int)                            {}
