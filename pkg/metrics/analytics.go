package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Total number of interaction events handed to the outbound queue
	EventsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_events_recorded_total",
		Help: "Total number of interaction events recorded",
	}, []string{"event_type"})

	// Page view sessions opened / closed by the tracker
	PageViewsOpened = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_page_views_opened_total",
		Help: "Total number of page view sessions opened",
	})

	PageViewsClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_page_views_closed_total",
		Help: "Total number of page view sessions closed",
	})

	// Cart mutations applied to the in-memory cart
	CartMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"operation"})

	// Best-effort remote calls that failed and were discarded
	OutboundFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_outbound_failures_total",
		Help: "Total number of discarded best-effort remote call failures",
	}, []string{"operation"})

	// Latency of the trending computation (pool fetch + rank)
	TrendingLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_trending_latency_seconds",
		Help:    "Latency of trending product computation",
		Buckets: prometheus.DefBuckets,
	})
)

func Init() {
	prometheus.MustRegister(
		EventsRecorded,
		PageViewsOpened,
		PageViewsClosed,
		CartMutations,
		OutboundFailures,
		TrendingLatency,
	)
}
