package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus instrumentation. Everything hangs
// off a private registry so tests can build as many servers as they like.
type Metrics struct {
	registry *prometheus.Registry

	ConnectionsTotal  prometheus.Counter
	SessionsActive    prometheus.Gauge
	LoginsTotal       prometheus.Counter
	LinesDelivered    prometheus.Counter
	MessagesDelivered prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multichat",
			Name:      "connections_total",
			Help:      "TCP connections accepted.",
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "multichat",
			Name:      "sessions_active",
			Help:      "Connections currently being served.",
		}),
		LoginsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multichat",
			Name:      "logins_total",
			Help:      "Successful account logins.",
		}),
		LinesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multichat",
			Name:      "channel_lines_delivered_total",
			Help:      "Channel lines delivered to recipients.",
		}),
		MessagesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multichat",
			Name:      "inbox_messages_delivered_total",
			Help:      "Inbox messages delivered.",
		}),
	}

	m.registry.MustRegister(m.ConnectionsTotal, m.SessionsActive,
		m.LoginsTotal, m.LinesDelivered, m.MessagesDelivered)
	return m
}

// Handler serves the metrics over HTTP.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
