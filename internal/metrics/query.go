package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Query engine Prometheus metrics.
var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mediacat",
			Name:      "query_duration_seconds",
			Help:      "Catalog query duration in seconds, snapshot load included",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"outcome"},
	)

	QueryMatchedRecords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mediacat",
			Name:      "query_matched_records",
			Help:      "Records matching a query before pagination",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	QueryErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediacat",
			Name:      "query_errors_total",
			Help:      "Rejected or failed catalog queries",
		},
		[]string{"reason"},
	)

	StoredRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mediacat",
			Name:      "stored_records",
			Help:      "Records in the last loaded snapshot",
		},
	)
)

var registerQueryOnce sync.Once

// RegisterQueryMetrics registers the query metrics on the default registry. Safe to call more than once.
func RegisterQueryMetrics() {
	registerQueryOnce.Do(func() {
		prometheus.MustRegister(QueryDuration)
		prometheus.MustRegister(QueryMatchedRecords)
		prometheus.MustRegister(QueryErrorsTotal)
		prometheus.MustRegister(StoredRecords)
	})
}
