// AngelaMos | 2026
// metrics.go

package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts is labelled by outcome: success, invalid_credentials,
	// blocked, deleted, error.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_admin_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_admin_authz_decisions_total",
			Help: "Authorization decisions by operation and result",
		},
		[]string{"operation", "decision"},
	)

	SessionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_admin_session_events_total",
			Help: "Session lifecycle events",
		},
		[]string{"event"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_admin_notifications_total",
			Help: "Outbound notification requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "delivery_admin_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "status"},
	)
)
