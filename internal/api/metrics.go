package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdeck_api_requests_total",
		Help: "Requests made to the aggregator API by endpoint and result",
	}, []string{"endpoint", "result"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsdeck_api_request_duration_seconds",
		Help:    "Latency of aggregator API requests",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms .. ~2.5s
	}, []string{"endpoint"})
)

func observe(endpoint, result string, d time.Duration) {
	apiRequests.WithLabelValues(endpoint, result).Inc()
	apiLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}
