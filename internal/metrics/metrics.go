// Package metrics provides Prometheus metrics for feature extraction.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "features"

var (
	// ArticlesExtracted counts extracted articles by input source.
	ArticlesExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_extracted_total",
			Help:      "Total number of articles run through feature extraction",
		},
		[]string{"source"},
	)

	// BatchDuration measures wall time of a whole batch.
	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of batch extractions in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// BatchSize observes batch sizes.
	BatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Distribution of batch sizes",
			Buckets:   []float64{1, 10, 100, 1000, 5000, 10000, 50000},
		},
		[]string{"source"},
	)

	// HTTPRequests counts API requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	// ErrorsTotal counts errors by operation and type.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of errors",
		},
		[]string{"operation", "error_type"},
	)
)

func sourceLabel(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}

// RecordBatch records a completed batch of n articles.
func RecordBatch(source string, n int, seconds float64) {
	source = sourceLabel(source)
	ArticlesExtracted.WithLabelValues(source).Add(float64(n))
	BatchDuration.WithLabelValues(source).Observe(seconds)
	BatchSize.WithLabelValues(source).Observe(float64(n))
}

// RecordError records an error.
func RecordError(operation, errorType string) {
	ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordRequest records a served HTTP request.
func RecordRequest(route, code string) {
	HTTPRequests.WithLabelValues(route, code).Inc()
}
