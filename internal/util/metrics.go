package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"op"})

	CartClampsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_quantity_clamps_total",
		Help: "Total number of quantity requests clamped to the stock cap",
	})

	CheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total number of finalized checkouts",
	})

	CheckoutPersistFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_persist_failed_total",
		Help: "Total number of checkouts whose order write failed",
	})

	OrdersSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Total number of orders written to the ledger",
	})

	OrderStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Total number of order status transitions",
	}, []string{"to"})

	OrderStatusRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_status_rejected_total",
		Help: "Total number of rejected status transitions",
	})

	UploadsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uploads_rejected_total",
		Help: "Total number of uploads rejected by local validation",
	}, []string{"reason"})

	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uploads_total",
		Help: "Total number of images written to object storage",
	})

	LedgerSnapshotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_snapshots_total",
		Help: "Total number of full order snapshots pushed to subscribers",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
