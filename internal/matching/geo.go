// internal/matching/geo.go
// Pure geographic predicates for candidate detection.

package matching

import (
	"math"

	"github.com/orbitstudy/orbit-backend/internal/orbit"
)

const (
	earthRadiusMeters = 6371000.0

	// DefaultRadiusMeters is how close two users must be to count as
	// co-located.
	DefaultRadiusMeters = 100.0
)

// DistanceMeters returns the great-circle distance between two points.
func DistanceMeters(a, b orbit.Location) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLng := degreesToRadians(b.Longitude - a.Longitude)

	rLat1 := degreesToRadians(a.Latitude)
	rLat2 := degreesToRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// InRangeWithin reports whether both profiles have a location and sit
// within radiusMeters of each other. A missing location on either side
// is a stale read, answered with false rather than an error.
func InRangeWithin(a, b *orbit.UserProfile, radiusMeters float64) bool {
	if !a.HasLocation() || !b.HasLocation() {
		return false
	}
	return DistanceMeters(*a.Location, *b.Location) <= radiusMeters
}

// IsInRange applies the default co-location radius.
func IsInRange(a, b *orbit.UserProfile) bool {
	return InRangeWithin(a, b, DefaultRadiusMeters)
}

// HasMatchingStatus is true iff both users declared a status and the
// values are exactly equal. Unknown free-text statuses still match
// each other, which keeps older clients compatible.
func HasMatchingStatus(a, b *orbit.UserProfile) bool {
	if a.OrbitStatus == nil || b.OrbitStatus == nil {
		return false
	}
	return *a.OrbitStatus == *b.OrbitStatus
}

// DetectCandidates filters all to the profiles that could collide with
// self: somebody else, co-located and in the same declared mode.
func DetectCandidates(self *orbit.UserProfile, all []*orbit.UserProfile) []*orbit.UserProfile {
	candidates := make([]*orbit.UserProfile, 0)
	for _, other := range all {
		if other.ID == self.ID {
			continue
		}
		if !IsInRange(self, other) {
			continue
		}
		if !HasMatchingStatus(self, other) {
			continue
		}
		candidates = append(candidates, other)
	}
	return candidates
}
