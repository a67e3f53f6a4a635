package widget

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widget_fetch_total",
			Help: "Total catalog API reads issued by the widget, by kind",
		},
		[]string{"kind"},
	)

	fetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widget_fetch_failures_total",
			Help: "Failed catalog API reads, by kind",
		},
		[]string{"kind"},
	)

	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "widget_fetch_duration_seconds",
			Help:    "Catalog API read duration in seconds, by kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	staleDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "widget_stale_list_responses_discarded_total",
			Help: "List responses discarded because a newer page fetch superseded them",
		},
	)
)

const (
	fetchKindTotal   = "total_count"
	fetchKindAverage = "average_rating"
	fetchKindList    = "review_list"
)
