package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTP request metrics, labelled by route template so ids do not explode cardinality.
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendars_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calendars_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

// CacheRequests counts read-through cache lookups by result (hit, miss, error).
var CacheRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "calendars_cache_requests_total",
		Help: "Calendar cache lookups by result",
	},
	[]string{"result"},
)

// EventsPublished counts change events by type and outcome.
var EventsPublished = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "calendars_events_published_total",
		Help: "Calendar change events handed to the publisher",
	},
	[]string{"type", "outcome"},
)

// Database connection pool metrics
var (
	DBOpenConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "calendars_db_open_connections",
			Help: "Number of open connections in the DB pool",
		},
		[]string{"db"},
	)

	DBIdleConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "calendars_db_idle_connections",
			Help: "Number of idle connections in the DB pool",
		},
		[]string{"db"},
	)

	DBInUseConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "calendars_db_in_use_connections",
			Help: "Number of in-use connections in the DB pool",
		},
		[]string{"db"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration)
	prometheus.MustRegister(CacheRequests, EventsPublished)
	prometheus.MustRegister(DBOpenConns, DBIdleConns, DBInUseConns)
}
