package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EventsConsumedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "agentic_events_consumed_total",
			Help: "Total number of enriched account events consumed.",
		},
	)

	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentic_decisions_total",
			Help: "Total number of decisions emitted, by severity.",
		},
		[]string{"severity"},
	)

	ActionsExecutedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentic_actions_executed_total",
			Help: "Total number of actions executed, by type and status.",
		},
		[]string{"type", "status"},
	)

	PublishFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentic_publish_failures_total",
			Help: "Total number of failed audit publishes, by record kind.",
		},
		[]string{"kind"},
	)

	MemoryInsertsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "agentic_memory_inserts_total",
			Help: "Total number of memory records inserted.",
		},
	)

	MemorySearchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "agentic_memory_searches_total",
			Help: "Total number of memory similarity searches.",
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentic_http_requests_total",
			Help: "Total number of HTTP requests, by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentic_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(
		EventsConsumedTotal,
		DecisionsTotal,
		ActionsExecutedTotal,
		PublishFailuresTotal,
		MemoryInsertsTotal,
		MemorySearchesTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
