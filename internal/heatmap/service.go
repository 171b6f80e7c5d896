// internal/heatmap/service.go

package heatmap

import (
	"context"

	"github.com/orbitstudy/orbit-backend/internal/orbit"
)

// ProfileSource supplies the live located user set.
type ProfileSource interface {
	LocatedProfiles(ctx context.Context) ([]*orbit.UserProfile, error)
}

type Service interface {
	Zones(ctx context.Context) ([]HeatZone, error)
}

type service struct {
	profiles ProfileSource
	delta    float64
}

func NewService(profiles ProfileSource, deltaDegrees float64) Service {
	if deltaDegrees <= 0 {
		deltaDegrees = DefaultDeltaDegrees
	}
	return &service{profiles: profiles, delta: deltaDegrees}
}

func (s *service) Zones(ctx context.Context) ([]HeatZone, error) {
	users, err := s.profiles.LocatedProfiles(ctx)
	if err != nil {
		return nil, err
	}

	zones := ComputeZones(users, s.delta)
	RecordZoneCount(len(zones))
	return zones, nil
}
