// Package metrics provides Prometheus metrics for the proxy.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts handled HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesdesk",
			Name:      "http_requests_total",
			Help:      "Total number of handled HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration measures HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "salesdesk",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// BackendDuration measures calls to the backend API.
	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "salesdesk",
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of backend API calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	// SessionEventsTotal counts cookie side effects.
	SessionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesdesk",
			Name:      "session_events_total",
			Help:      "Total number of session cookies set or cleared",
		},
		[]string{"action"},
	)

	// GuardRedirectsTotal counts page navigations redirected by the access guard.
	GuardRedirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesdesk",
			Name:      "guard_redirects_total",
			Help:      "Total number of guard redirects",
		},
		[]string{"target"},
	)

	// IdentityCacheTotal counts identity cache lookups.
	IdentityCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesdesk",
			Name:      "identity_cache_lookups_total",
			Help:      "Total number of identity cache lookups",
		},
		[]string{"result"},
	)
)

// RecordRequest records a handled HTTP request.
func RecordRequest(method, route string, status int, duration float64) {
	RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordBackend records a backend call. status 0 means the call failed.
func RecordBackend(method string, status int, duration float64) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	BackendDuration.WithLabelValues(method, label).Observe(duration)
}

func RecordSession(action string) {
	SessionEventsTotal.WithLabelValues(action).Inc()
}

func RecordRedirect(target string) {
	GuardRedirectsTotal.WithLabelValues(target).Inc()
}

func RecordIdentityLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	IdentityCacheTotal.WithLabelValues(result).Inc()
}
