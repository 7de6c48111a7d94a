package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders placed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of rejected order placements",
	}, []string{"reason"})

	PaymentVerifiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_verified_total",
		Help: "Total number of payments whose signature matched",
	})

	PaymentFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_failed_total",
		Help: "Total number of payments whose signature did not match",
	})

	SellSubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sell_submissions_total",
		Help: "Total number of device sell submissions",
	})

	SellEstimateRupees = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sell_estimate_rupees",
		Help:    "Distribution of computed sell estimates",
		Buckets: []float64{1000, 2500, 5000, 10000, 20000, 40000, 80000, 150000},
	})
)
