// Package metrics exposes the bot's operational counters via Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the registry and the bot's instruments.
type Metrics struct {
	registry *prometheus.Registry

	MessagesReceived prometheus.Counter
	MessagesDropped  prometheus.Counter
	RepliesSent      prometheus.Counter
	OrdersConfirmed  prometheus.Counter
	SessionsExpired  prometheus.Counter
	ActiveSessions   prometheus.Gauge
}

// New creates a private registry with the bot instruments plus the standard
// Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_messages_received_total",
			Help: "Inbound messages accepted for handling.",
		}),
		MessagesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_messages_dropped_total",
			Help: "Inbound events dropped before the state machine (groups, self).",
		}),
		RepliesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_replies_sent_total",
			Help: "Outbound replies handed to the dispatcher.",
		}),
		OrdersConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_orders_confirmed_total",
			Help: "Orders that reached confirmation.",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_sessions_expired_total",
			Help: "Sessions reset by the inactivity watchdog.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orderbot_active_sessions",
			Help: "Conversations with an activated session.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.MessagesReceived,
		m.MessagesDropped,
		m.RepliesSent,
		m.OrdersConfirmed,
		m.SessionsExpired,
		m.ActiveSessions,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
