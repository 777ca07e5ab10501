package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes
const (
	LoginSucceeded = "success"
	LoginRejected  = "rejected"
	LoginError     = "error"
)

// Bearer token outcomes seen by the request authenticator
const (
	TokenAbsent        = "absent"
	TokenAuthenticated = "authenticated"
	TokenRejected      = "rejected"
	TokenSkipped       = "already_authenticated"
)

// Metrics collects application metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	loginAttempts   *prometheus.CounterVec
	tokenChecks     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		tokenChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Subsystem: "auth",
			Name:      "bearer_token_checks_total",
			Help:      "Bearer token evaluations by outcome.",
		}, []string{"outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gateway",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}

	m.registry.MustRegister(
		m.loginAttempts,
		m.tokenChecks,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordLogin counts a login attempt
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordTokenCheck counts a bearer token evaluation
func (m *Metrics) RecordTokenCheck(outcome string) {
	if m == nil {
		return
	}
	m.tokenChecks.WithLabelValues(outcome).Inc()
}

// ObserveRequest records the latency of a served request
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry (for tests and custom collectors)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
