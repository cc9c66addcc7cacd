// Package metrics provides the Prometheus registry and exposition handler
// for unpaginated. All metrics are defined in their respective packages
// (pagination, client, redissource) and registered via promauto.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by unpaginated.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back what Registry holds.
var Gatherer = prometheus.DefaultGatherer

// Prefix is shared by every metric name listed below.
const Prefix = "unpaginated_"

// Metrics Documentation
//
// Engine Metrics (pkg/pagination):
//   - unpaginated_fetches_total{strategy} (Counter): Fetch function calls by strategy
//     ("probe", "serial", "concurrent", "cursor")
//   - unpaginated_items_total{strategy} (Counter): Items materialized by strategy
//   - unpaginated_materialize_duration_seconds{strategy} (Histogram): Duration of complete materializations
//   - unpaginated_failures_total{kind} (Counter): Failed materializations ("shape", "upstream")
//
// HTTP Metrics (pkg/client):
//   - unpaginated_http_requests_total{status} (Counter): Page requests by HTTP status
//   - unpaginated_http_request_duration_seconds (Histogram): Page request duration
//   - unpaginated_http_errors_total{class} (Counter): Failed page requests by class
//
// Redis Metrics (pkg/redissource):
//   - unpaginated_redis_commands_total{command} (Counter): Redis commands issued while paging
//   - unpaginated_redis_errors_total{command} (Counter): Failed Redis commands
//
// Example Prometheus Queries:
//
//   # Pages per materialization
//   sum(rate(unpaginated_fetches_total[5m])) /
//   sum(rate(unpaginated_materialize_duration_seconds_count[5m]))
//
//   # Upstream failure rate
//   rate(unpaginated_failures_total{kind="upstream"}[5m])
//
//   # P95 materialization latency
//   histogram_quantile(0.95, rate(unpaginated_materialize_duration_seconds_bucket[5m]))

// Handler returns an http.Handler that serves the metrics in Gatherer.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Names returns the names of all registered unpaginated metric families.
// A labelled metric is listed once it has been observed at least once.
func Names() ([]string, error) {
	families, err := Gatherer.Gather()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), Prefix) {
			names = append(names, mf.GetName())
		}
	}
	return names, nil
}
