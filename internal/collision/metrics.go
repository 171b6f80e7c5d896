package collision

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collisionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orbit_collisions_created_total",
			Help: "Total number of collisions initiated",
		},
	)

	collisionResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbit_collision_responses_total",
			Help: "Responder decisions by outcome",
		},
		[]string{"status"},
	)

	collisionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orbit_collisions_expired_total",
			Help: "Collisions that timed out or were declined",
		},
	)

	collisionsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orbit_collisions_completed_total",
			Help: "Collisions that ended in a finished session",
		},
	)

	sessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orbit_study_sessions_created_total",
			Help: "Study sessions started from mutual accepts",
		},
	)
)

func RecordCollisionCreated() { collisionsCreated.Inc() }

func RecordResponse(status string) { collisionResponses.WithLabelValues(status).Inc() }

func RecordExpired() { collisionsExpired.Inc() }

func RecordCompleted() { collisionsCompleted.Inc() }

func RecordSessionCreated() { sessionsCreated.Inc() }
