package redissource

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// commandsTotal counts Redis commands issued by fetch functions.
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unpaginated_redis_commands_total",
			Help: "Total Redis commands issued while paging",
		},
		[]string{"command"}, // "lrange", "llen", "scan"
	)

	// errorsTotal counts failed Redis commands.
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unpaginated_redis_errors_total",
			Help: "Total failed Redis commands while paging",
		},
		[]string{"command"}, // "lrange", "llen", "scan", "multi"
	)
)
