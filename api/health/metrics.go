package health

import (
	"net/http"
	"storefront_server/services"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "api",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "api",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	registerOnce sync.Once
)

// MetricsHandler registers the collectors on first use and serves them in the Prometheus format
func MetricsHandler() http.Handler {
	registerOnce.Do(func() {
		prometheus.MustRegister(HttpDuration, HttpRequests, services.OrdersPlaced)
	})
	return promhttp.Handler()
}
