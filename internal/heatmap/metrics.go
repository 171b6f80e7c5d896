package heatmap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var zoneCount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "orbit_heat_zones",
		Help:    "Zones produced per aggregation pass",
		Buckets: prometheus.LinearBuckets(0, 5, 10),
	},
)

func RecordZoneCount(n int) { zoneCount.Observe(float64(n)) }
