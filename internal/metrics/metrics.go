// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Chat requests by HTTP method and response status",
		},
		[]string{"method", "status"},
	)

	ChatErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_errors_total",
			Help: "Failed chat requests by error code",
		},
		[]string{"code"},
	)

	VendorCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_vendor_call_duration_seconds",
			Help:    "Duration of completion vendor calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"provider"},
	)
)
