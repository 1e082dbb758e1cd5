package biz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	redirectOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redirector_outcomes_total",
			Help: "Token resolutions partitioned by outcome",
		},
		[]string{"outcome"},
	)

	degradedStages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redirector_degraded_total",
			Help: "Best-effort steps that failed without affecting the redirect",
		},
		[]string{"stage"},
	)

	geoLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "redirector_geo_lookup_duration_seconds",
			Help:    "Latency of geo enrichment lookups",
			Buckets: prometheus.DefBuckets,
		},
	)
)
