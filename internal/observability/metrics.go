package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	finderQueriesTotal     *prometheus.CounterVec
	finderLatencySeconds   *prometheus.HistogramVec
	eventLogWritesTotal    *prometheus.CounterVec
	notificationsPublished *prometheus.CounterVec
	feedCacheRequests      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		finderQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finder_queries_total",
			Help: "Finder executions partitioned by outcome.",
		}, []string{"finder", "outcome"})

		finderLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finder_query_seconds",
			Help:    "Time spent executing finder queries.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"finder"})

		eventLogWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "event_log_writes_total",
			Help: "Activity and audit events written.",
		}, []string{"kind", "action"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Notifications handed to delivery channels.",
		}, []string{"channel", "outcome"})

		feedCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "event_feed_cache_requests_total",
			Help: "Event feed cache lookups partitioned by result.",
		}, []string{"feed", "result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			finderQueriesTotal,
			finderLatencySeconds,
			eventLogWritesTotal,
			notificationsPublished,
			feedCacheRequests,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// FinderQueries exposes the finder execution counter.
func FinderQueries() *prometheus.CounterVec {
	RegisterMetrics()
	return finderQueriesTotal
}

// FinderLatency exposes the finder latency histogram.
func FinderLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return finderLatencySeconds
}

// EventLogWrites exposes the event log write counter.
func EventLogWrites() *prometheus.CounterVec {
	RegisterMetrics()
	return eventLogWritesTotal
}

// NotificationsPublished exposes the notification delivery counter.
func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// FeedCacheRequests exposes the event feed cache counter.
func FeedCacheRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return feedCacheRequests
}
