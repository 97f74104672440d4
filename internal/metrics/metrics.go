package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WagersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wagers_placed_total",
			Help: "Total wagers accepted (stake debited)",
		},
	)

	Settlements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wager_settlements_total",
			Help: "Total terminal wager transitions",
		},
		[]string{"outcome"}, // paid|lost|fraud
	)

	NotifyFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Settlement notifications that could not be published",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(WagersPlaced)
	prometheus.MustRegister(Settlements)
	prometheus.MustRegister(NotifyFailed)
	prometheus.MustRegister(WorkerQueueDepth)
}
