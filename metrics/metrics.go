package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nowplaying_http_requests_total",
			Help: "The total number of completed HTTP exchanges by outcome",
		},
		[]string{"client", "status"},
	)

	RequestsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nowplaying_http_requests_cancelled_total",
			Help: "The total number of HTTP exchanges cancelled before completion",
		},
		[]string{"client"},
	)

	RequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nowplaying_http_requests_in_flight",
			Help: "Number of HTTP exchanges currently in flight",
		},
		[]string{"client"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nowplaying_http_request_duration_seconds",
			Help:    "Duration of HTTP exchanges",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"client"},
	)

	FeedPagesServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nowplaying_feed_pages_served_total",
			Help: "The total number of feed pages served by the local API",
		},
		[]string{"status"},
	)

	PostersServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nowplaying_posters_served_total",
			Help: "The total number of poster requests served by the local API",
		},
		[]string{"status"},
	)
)
