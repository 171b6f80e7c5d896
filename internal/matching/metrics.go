package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gravityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orbit_gravity_scores",
			Help:    "Distribution of compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	candidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orbit_candidate_pool_size",
			Help:    "Candidates found per detection query",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
)

func RecordGravityScore(score int) {
	gravityScores.Observe(float64(score))
}

func RecordCandidatePool(n int) {
	candidatePoolSize.Observe(float64(n))
}
