package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal counts fetch function calls by strategy
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unpaginated_fetches_total",
			Help: "Total number of fetch function calls by strategy",
		},
		[]string{"strategy"}, // "probe", "serial", "concurrent", "cursor"
	)

	// ItemsTotal counts materialized items by strategy
	ItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unpaginated_items_total",
			Help: "Total number of items materialized by strategy",
		},
		[]string{"strategy"},
	)

	// MaterializeDuration tracks the duration of complete materializations
	MaterializeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "unpaginated_materialize_duration_seconds",
			Help:    "Duration of complete materializations by strategy",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"strategy"},
	)

	// FailuresTotal counts failed materializations by kind
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unpaginated_failures_total",
			Help: "Total number of failed materializations by kind",
		},
		[]string{"kind"}, // "shape", "upstream"
	)
)
