package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ListingPagesServed counts pages served per listing and whether the
	// requested number had to be clamped.
	ListingPagesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_listing_pages_served_total",
		Help: "Total number of listing pages served",
	}, []string{"listing", "clamped"})

	// CacheLookups counts cache-aside lookups by key family and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_cache_lookups_total",
		Help: "Cache lookups by key family and result (hit, miss, error)",
	}, []string{"family", "result"})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsCreated counts successfully created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_posts_created_total",
		Help: "Total number of posts created",
	})

	// FeedConnections is the gauge of open live feed websocket connections.
	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yatube_feed_connections",
		Help: "Number of open live feed WebSocket connections",
	})

	// FeedEvents counts live feed events delivered by type.
	FeedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_events_total",
		Help: "Total live feed events by type",
	}, []string{"event_type"})

	// FeedBackpressureDrops counts events dropped for slow feed clients.
	FeedBackpressureDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_feed_backpressure_drops_total",
		Help: "Total number of live feed events dropped due to backpressure",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
