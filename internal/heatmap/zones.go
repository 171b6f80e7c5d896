// internal/heatmap/zones.go
// Greedy clustering of located users into density/mood zones.

package heatmap

import (
	"math"

	"github.com/orbitstudy/orbit-backend/internal/orbit"
)

const (
	// DefaultDeltaDegrees is roughly 100 meters of latitude.
	DefaultDeltaDegrees = 0.0009

	zoneRadiusMeters = 100.0
	fullDensityCount = 5
)

// Labels by vibe band.
const (
	LabelDeepFocus    = "Deep Focus Zone"
	LabelSocialHub    = "Social Hub"
	LabelStudyCluster = "Study Cluster"
)

// HeatZone is an ephemeral map overlay cluster. Zones are recomputed on
// every request from whoever is currently located; nothing is stored.
type HeatZone struct {
	Center      orbit.Location `json:"center"`
	Density     float64        `json:"density"`
	VibeScore   float64        `json:"vibeScore"`
	Radius      float64        `json:"radius"`
	ActiveUsers int            `json:"activeUsers"`
	Label       string         `json:"label"`
}

// vibeContribution maps one member's declared status onto the quiet to
// social axis.
func vibeContribution(status orbit.OrbitStatus) float64 {
	switch status {
	case orbit.StatusEventHorizon:
		return -1
	case orbit.StatusHighGravity:
		return 0.5
	case orbit.StatusInOrbit:
		return 1
	}
	return 0
}

func labelFor(vibe float64) string {
	switch {
	case vibe <= -0.3:
		return LabelDeepFocus
	case vibe >= 0.5:
		return LabelSocialHub
	}
	return LabelStudyCluster
}

// ComputeZones clusters users with a location into zones of two or more
// members. Each unprocessed user seeds a cluster of everyone within
// delta degrees of it on both axes; membership is seed-relative, not
// transitive, so which user seeds only shifts zone boundaries, never
// who clusters with whom.
func ComputeZones(users []*orbit.UserProfile, delta float64) []HeatZone {
	if delta <= 0 {
		delta = DefaultDeltaDegrees
	}

	located := make([]*orbit.UserProfile, 0, len(users))
	for _, u := range users {
		if u.HasLocation() {
			located = append(located, u)
		}
	}

	processed := make([]bool, len(located))
	var zones []HeatZone

	for i, seed := range located {
		if processed[i] {
			continue
		}
		processed[i] = true
		cluster := []*orbit.UserProfile{seed}

		for j := i + 1; j < len(located); j++ {
			if processed[j] {
				continue
			}
			other := located[j]
			if math.Abs(other.Location.Latitude-seed.Location.Latitude) <= delta &&
				math.Abs(other.Location.Longitude-seed.Location.Longitude) <= delta {
				processed[j] = true
				cluster = append(cluster, other)
			}
		}

		if len(cluster) < 2 {
			continue
		}
		zones = append(zones, buildZone(cluster))
	}
	return zones
}

func buildZone(cluster []*orbit.UserProfile) HeatZone {
	var lat, lng, vibe float64
	for _, member := range cluster {
		lat += member.Location.Latitude
		lng += member.Location.Longitude
		vibe += vibeContribution(member.Status())
	}
	n := float64(len(cluster))
	lat /= n
	lng /= n
	vibe /= n

	return HeatZone{
		Center:      orbit.Location{Latitude: lat, Longitude: lng},
		Density:     math.Min(n/fullDensityCount, 1),
		VibeScore:   vibe,
		Radius:      zoneRadiusMeters,
		ActiveUsers: len(cluster),
		Label:       labelFor(vibe),
	}
}
