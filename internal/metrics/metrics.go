// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cloudport"

// Metrics owns a private registry so tests can build as many instances as
// they need.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	contractTransitions *prometheus.CounterVec
	payments            *prometheus.CounterVec
	logGroupFailures    *prometheus.CounterVec
	eventsPublished     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)
	m.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.contractTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contract_transitions_total",
			Help:      "Contract state changes by resulting status.",
		},
		[]string{"status"},
	)
	m.payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Payment gateway calls by gateway, operation and result.",
		},
		[]string{"gateway", "operation", "result"},
	)
	m.logGroupFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_group_query_failures_total",
			Help:      "Failed log group queries of the admin log viewer.",
		},
		[]string{"log_type"},
	)
	m.eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contract_events_published_total",
			Help:      "Contract events handed to the queue by result.",
		},
		[]string{"result"},
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.contractTransitions,
		m.payments,
		m.logGroupFailures,
		m.eventsPublished,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ContractTransition(status string) {
	m.contractTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) Payment(gateway, operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.payments.WithLabelValues(gateway, operation, result).Inc()
}

func (m *Metrics) LogGroupFailure(logType string) {
	m.logGroupFailures.WithLabelValues(logType).Inc()
}

func (m *Metrics) EventPublished(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.eventsPublished.WithLabelValues(result).Inc()
}
