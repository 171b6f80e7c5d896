package heatmap

import (
	"math"
	"testing"

	"github.com/orbitstudy/orbit-backend/internal/orbit"
)

func locatedUser(id int64, lat, lng float64, status orbit.OrbitStatus) *orbit.UserProfile {
	p := &orbit.UserProfile{
		ID:       id,
		Location: &orbit.Location{Latitude: lat, Longitude: lng},
	}
	if status != "" {
		p.OrbitStatus = &status
	}
	return p
}

func TestComputeZonesDeepFocusPair(t *testing.T) {
	// Two Event Horizon users about 50 m apart.
	users := []*orbit.UserProfile{
		locatedUser(1, 40.80750, -73.96250, orbit.StatusEventHorizon),
		locatedUser(2, 40.80795, -73.96250, orbit.StatusEventHorizon),
	}

	zones := ComputeZones(users, DefaultDeltaDegrees)
	if len(zones) != 1 {
		t.Fatalf("got %d zones, want 1", len(zones))
	}

	zone := zones[0]
	if zone.VibeScore != -1 {
		t.Errorf("vibeScore = %v, want -1", zone.VibeScore)
	}
	if zone.Label != LabelDeepFocus {
		t.Errorf("label = %q, want %q", zone.Label, LabelDeepFocus)
	}
	if zone.ActiveUsers != 2 {
		t.Errorf("activeUsers = %d, want 2", zone.ActiveUsers)
	}
	if want := 2.0 / 5.0; math.Abs(zone.Density-want) > 1e-9 {
		t.Errorf("density = %v, want %v", zone.Density, want)
	}
	if math.Abs(zone.Center.Latitude-40.807725) > 1e-9 {
		t.Errorf("center latitude = %v, want midpoint 40.807725", zone.Center.Latitude)
	}
}

func TestComputeZonesIsolatedUser(t *testing.T) {
	users := []*orbit.UserProfile{
		locatedUser(1, 40.80750, -73.96250, orbit.StatusInOrbit),
	}
	if zones := ComputeZones(users, DefaultDeltaDegrees); len(zones) != 0 {
		t.Fatalf("got %d zones for a lone user, want 0", len(zones))
	}

	// Two users far apart are two lone users, not a zone.
	users = append(users, locatedUser(2, 40.90000, -73.96250, orbit.StatusInOrbit))
	if zones := ComputeZones(users, DefaultDeltaDegrees); len(zones) != 0 {
		t.Fatalf("got %d zones for distant users, want 0", len(zones))
	}
}

func TestComputeZonesSkipsUnlocatedUsers(t *testing.T) {
	users := []*orbit.UserProfile{
		locatedUser(1, 40.80750, -73.96250, orbit.StatusInOrbit),
		{ID: 2}, // no location
		locatedUser(3, 40.80751, -73.96251, orbit.StatusInOrbit),
	}

	zones := ComputeZones(users, DefaultDeltaDegrees)
	if len(zones) != 1 {
		t.Fatalf("got %d zones, want 1", len(zones))
	}
	if zones[0].ActiveUsers != 2 {
		t.Errorf("activeUsers = %d, want 2 located members", zones[0].ActiveUsers)
	}
}

func TestComputeZonesVibeLabels(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []orbit.OrbitStatus
		wantVibe  float64
		wantLabel string
	}{
		{
			name:      "all social",
			statuses:  []orbit.OrbitStatus{orbit.StatusInOrbit, orbit.StatusInOrbit},
			wantVibe:  1,
			wantLabel: LabelSocialHub,
		},
		{
			name:      "hosting pair",
			statuses:  []orbit.OrbitStatus{orbit.StatusHighGravity, orbit.StatusHighGravity},
			wantVibe:  0.5,
			wantLabel: LabelSocialHub,
		},
		{
			name:      "mixed leans neutral",
			statuses:  []orbit.OrbitStatus{orbit.StatusInOrbit, orbit.StatusEventHorizon},
			wantVibe:  0,
			wantLabel: LabelStudyCluster,
		},
		{
			name:      "quiet majority",
			statuses:  []orbit.OrbitStatus{orbit.StatusEventHorizon, orbit.StatusEventHorizon, orbit.StatusInOrbit},
			wantVibe:  -1.0 / 3.0,
			wantLabel: LabelDeepFocus,
		},
		{
			name:      "unknown statuses are neutral",
			statuses:  []orbit.OrbitStatus{"Cramming", "Cramming"},
			wantVibe:  0,
			wantLabel: LabelStudyCluster,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var users []*orbit.UserProfile
			for i, status := range tt.statuses {
				users = append(users, locatedUser(int64(i+1), 40.80750+float64(i)*0.00001, -73.96250, status))
			}

			zones := ComputeZones(users, DefaultDeltaDegrees)
			if len(zones) != 1 {
				t.Fatalf("got %d zones, want 1", len(zones))
			}
			if math.Abs(zones[0].VibeScore-tt.wantVibe) > 1e-9 {
				t.Errorf("vibeScore = %v, want %v", zones[0].VibeScore, tt.wantVibe)
			}
			if zones[0].Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", zones[0].Label, tt.wantLabel)
			}
		})
	}
}

func TestComputeZonesDensityCapsAtOne(t *testing.T) {
	var users []*orbit.UserProfile
	for i := 0; i < 8; i++ {
		users = append(users, locatedUser(int64(i+1), 40.80750+float64(i)*0.00001, -73.96250, orbit.StatusInOrbit))
	}

	zones := ComputeZones(users, DefaultDeltaDegrees)
	if len(zones) != 1 {
		t.Fatalf("got %d zones, want 1", len(zones))
	}
	if zones[0].Density != 1 {
		t.Errorf("density = %v, want capped at 1", zones[0].Density)
	}
	if zones[0].ActiveUsers != 8 {
		t.Errorf("activeUsers = %d, want 8", zones[0].ActiveUsers)
	}
}
