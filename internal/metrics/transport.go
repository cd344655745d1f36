package metrics

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// API client Prometheus metrics. Always recorded; exported only once registered.
var (
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbsearch",
			Name:      "api_requests_total",
			Help:      "Total number of search API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kbsearch",
			Name:      "api_request_duration_seconds",
			Help:      "Search API request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	UploadItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbsearch",
			Name:      "upload_items_total",
			Help:      "Upload items by terminal status",
		},
		[]string{"status"}, // "succeeded" / "failed"
	)
)

// RegisterTransportMetrics registers the API client metrics on reg.
// Registering twice on the same registerer is a no-op.
func RegisterTransportMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{APIRequestsTotal, APIRequestDuration, UploadItemsTotal} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("register transport metric: %w", err)
		}
	}
	return nil
}

// StatusLabel maps an HTTP status code to a metrics label ("error" when no response arrived).
func StatusLabel(code int) string {
	if code == 0 {
		return "error"
	}
	return strconv.Itoa(code)
}
