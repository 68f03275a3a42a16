// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "live_display"

// Outcome labels of webhook_notifications_total.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

type Metrics struct {
	WebhookNotifications    *prometheus.CounterVec
	RankingsRefreshFailures prometheus.Counter
	RelayConnections        prometheus.Gauge
	RelayEvents             *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		WebhookNotifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_notifications_total",
			Help:      "Webhook notifications handled, by message type and outcome.",
		}, []string{"kind", "outcome"}),
		RankingsRefreshFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_rankings_refresh_failures_total",
			Help:      "Rankings refreshes after a match score that failed.",
		}),
		RelayConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "relay_connections",
			Help:      "Open relay connections.",
		}),
		RelayEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_events_total",
			Help:      "Control events broadcast by the relay.",
		}, []string{"event"}),
	}
}

// NewNop returns collectors registered nowhere, for tests and tools.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
