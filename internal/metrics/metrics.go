// Package metrics holds the Prometheus collectors of the service. They are
// registered on the default registry at init and served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verger_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "verger_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	SalesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verger_sales_created_total",
			Help: "Sales committed, by channel",
		},
		[]string{"channel"},
	)

	SyncSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verger_sync_skipped_total",
		Help: "Offline sale payloads rejected during batch sync",
	})

	LoyaltyAccrualFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verger_loyalty_accrual_failures_total",
		Help: "Loyalty accruals that failed after the sale was committed",
	})

	ReceiptJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verger_receipt_jobs_total",
			Help: "Receipt jobs by outcome (enqueued, sent, failed, dead)",
		},
		[]string{"outcome"},
	)

	PanicsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verger_http_panics_recovered_total",
		Help: "Handler panics turned into 500 responses",
	})
)
