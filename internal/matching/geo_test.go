package matching

import (
	"math"
	"testing"

	"github.com/orbitstudy/orbit-backend/internal/orbit"
)

func locatedProfile(id int64, lat, lng float64, status orbit.OrbitStatus) *orbit.UserProfile {
	p := &orbit.UserProfile{
		ID:       id,
		Location: &orbit.Location{Latitude: lat, Longitude: lng},
	}
	if status != "" {
		p.OrbitStatus = &status
	}
	return p
}

func TestDistanceMeters_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      orbit.Location
		want      float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         orbit.Location{Latitude: 40.7128, Longitude: -74.0060},
			b:         orbit.Location{Latitude: 40.7128, Longitude: -74.0060},
			want:      0,
			tolerance: 0.001,
		},
		{
			name:      "one degree of latitude (~111km)",
			a:         orbit.Location{Latitude: 0, Longitude: 0},
			b:         orbit.Location{Latitude: 1, Longitude: 0},
			want:      111195,
			tolerance: 200,
		},
		{
			name:      "across a campus quad (~100m)",
			a:         orbit.Location{Latitude: 40.80750, Longitude: -73.96260},
			b:         orbit.Location{Latitude: 40.80840, Longitude: -73.96260},
			want:      100,
			tolerance: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceMeters() = %f, want %f (±%f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	a := orbit.Location{Latitude: 25.0, Longitude: 121.0}
	b := orbit.Location{Latitude: 26.0, Longitude: 122.0}

	d1 := DistanceMeters(a, b)
	d2 := DistanceMeters(b, a)
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("distance is not symmetric: %f vs %f", d1, d2)
	}
}

func TestIsInRange(t *testing.T) {
	base := locatedProfile(1, 40.0000, -74.0000, orbit.StatusInOrbit)

	tests := []struct {
		name  string
		other *orbit.UserProfile
		want  bool
	}{
		{
			name:  "well within range",
			other: locatedProfile(2, 40.0003, -74.0000, orbit.StatusInOrbit), // ~33m
			want:  true,
		},
		{
			name:  "well out of range",
			other: locatedProfile(3, 40.0100, -74.0000, orbit.StatusInOrbit), // ~1.1km
			want:  false,
		},
		{
			name:  "other missing location",
			other: &orbit.UserProfile{ID: 4},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInRange(base, tt.other); got != tt.want {
				t.Errorf("IsInRange() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("self missing location", func(t *testing.T) {
		bare := &orbit.UserProfile{ID: 5}
		if IsInRange(bare, base) {
			t.Error("expected false when self has no location")
		}
	})
}

func TestHasMatchingStatus(t *testing.T) {
	inOrbit := orbit.StatusInOrbit
	highGravity := orbit.StatusHighGravity
	custom := orbit.OrbitStatus("Cramming")

	tests := []struct {
		name string
		a, b *orbit.OrbitStatus
		want bool
	}{
		{name: "both in orbit", a: &inOrbit, b: &inOrbit, want: true},
		{name: "different modes", a: &inOrbit, b: &highGravity, want: false},
		{name: "one unset", a: &inOrbit, b: nil, want: false},
		{name: "both unset", a: nil, b: nil, want: false},
		{name: "matching free-text status", a: &custom, b: &custom, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &orbit.UserProfile{ID: 1, OrbitStatus: tt.a}
			b := &orbit.UserProfile{ID: 2, OrbitStatus: tt.b}
			if got := HasMatchingStatus(a, b); got != tt.want {
				t.Errorf("HasMatchingStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectCandidates(t *testing.T) {
	self := locatedProfile(1, 40.0000, -74.0000, orbit.StatusInOrbit)

	all := []*orbit.UserProfile{
		self, // must be excluded
		locatedProfile(2, 40.0003, -74.0000, orbit.StatusInOrbit),     // candidate
		locatedProfile(3, 40.0003, -74.0000, orbit.StatusHighGravity), // wrong status
		locatedProfile(4, 41.0000, -74.0000, orbit.StatusInOrbit),     // too far
		{ID: 5, OrbitStatus: self.OrbitStatus},                        // no location
	}

	got := DetectCandidates(self, all)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("DetectCandidates() = %v, want exactly user 2", got)
	}
}

func TestDetectCandidates_EmptyPool(t *testing.T) {
	self := locatedProfile(1, 40.0, -74.0, orbit.StatusInOrbit)
	if got := DetectCandidates(self, nil); len(got) != 0 {
		t.Errorf("expected no candidates from empty pool, got %d", len(got))
	}
}
