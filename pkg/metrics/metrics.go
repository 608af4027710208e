package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Lifecycle transitions
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_transactions_total",
			Help: "Transactions entering each lifecycle status",
		},
		[]string{"status"},
	)

	// Best-effort notification outcomes
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_notifications_total",
			Help: "Notification email attempts by outcome",
		},
		[]string{"outcome"}, // sent|failed
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(TransactionsTotal)
	prometheus.MustRegister(NotificationsTotal)
}
