// internal/matching/service.go

package matching

import (
	"context"
	"errors"

	"github.com/orbitstudy/orbit-backend/internal/orbit"
)

var ErrNoLocation = errors.New("user has no current location")

// ProfileSource is the slice of the orbit service this package needs.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID int64) (*orbit.UserProfile, error)
	NearbyProfiles(ctx context.Context, lat, lng, radiusMeters float64) ([]*orbit.UserProfile, error)
}

type Service interface {
	// Compatibility scores another user against the caller.
	Compatibility(ctx context.Context, selfID, otherID int64) (*MatchingResult, error)
	// Candidates returns nearby, status-matching profiles for the caller.
	Candidates(ctx context.Context, selfID int64) ([]*orbit.UserProfile, error)
}

type service struct {
	profiles     ProfileSource
	radiusMeters float64
}

func NewService(profiles ProfileSource, radiusMeters float64) Service {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	return &service{profiles: profiles, radiusMeters: radiusMeters}
}

func (s *service) Compatibility(ctx context.Context, selfID, otherID int64) (*MatchingResult, error) {
	self, err := s.profiles.GetProfile(ctx, selfID)
	if err != nil {
		return nil, err
	}
	other, err := s.profiles.GetProfile(ctx, otherID)
	if err != nil {
		return nil, err
	}

	result := CalculateGravityPull(self, other)
	RecordGravityScore(result.Score)
	return result, nil
}

func (s *service) Candidates(ctx context.Context, selfID int64) ([]*orbit.UserProfile, error) {
	self, err := s.profiles.GetProfile(ctx, selfID)
	if err != nil {
		return nil, err
	}
	if !self.HasLocation() {
		return nil, ErrNoLocation
	}

	// The presence index prefilters by radius; the pure predicates
	// remain authoritative on the exact snapshot we hold.
	pool, err := s.profiles.NearbyProfiles(ctx, self.Location.Latitude, self.Location.Longitude, s.radiusMeters)
	if err != nil {
		return nil, err
	}

	candidates := DetectCandidates(self, pool)
	RecordCandidatePool(len(candidates))
	return candidates, nil
}
