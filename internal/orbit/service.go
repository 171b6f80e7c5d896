// internal/orbit/service.go

package orbit

import (
	"context"
	"log"
	"time"
)

type Service interface {
	EnsureProfile(ctx context.Context, userID int64, displayName string) error
	GetProfile(ctx context.Context, userID int64) (*UserProfile, error)
	GetProfiles(ctx context.Context, userIDs []int64) ([]*UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, dto *UpdateProfileDTO) (*UserProfile, error)
	SetOrbitStatus(ctx context.Context, userID int64, dto *SetStatusDTO) (*UserProfile, error)
	UpdateLocation(ctx context.Context, userID int64, dto *UpdateLocationDTO) error
	AwardMass(ctx context.Context, userID int64, delta int) (*UserProfile, error)
	LevelFor(ctx context.Context, userID int64) (*LevelInfo, error)

	// NearbyProfiles returns located profiles around a point. Redis
	// presence is preferred; a Postgres scan is the fallback.
	NearbyProfiles(ctx context.Context, lat, lng, radiusMeters float64) ([]*UserProfile, error)
	// LocatedProfiles returns the live user set for map rendering.
	LocatedProfiles(ctx context.Context) ([]*UserProfile, error)
}

type service struct {
	repo      Repository
	presence  *Presence
	scanLimit int
}

func NewService(repo Repository, presence *Presence, scanLimit int) Service {
	if scanLimit <= 0 {
		scanLimit = 200
	}
	return &service{repo: repo, presence: presence, scanLimit: scanLimit}
}

func (s *service) EnsureProfile(ctx context.Context, userID int64, displayName string) error {
	return s.repo.EnsureProfile(ctx, userID, displayName)
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) GetProfiles(ctx context.Context, userIDs []int64) ([]*UserProfile, error) {
	return s.repo.GetProfiles(ctx, userIDs)
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, dto *UpdateProfileDTO) (*UserProfile, error) {
	if err := s.repo.UpdateProfile(ctx, userID, dto); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) SetOrbitStatus(ctx context.Context, userID int64, dto *SetStatusDTO) (*UserProfile, error) {
	status := OrbitStatus(dto.OrbitStatus)

	// Event Horizon is a timed do-not-disturb; everything else clears
	// any previous end time.
	var horizonEnd *time.Time
	if status == StatusEventHorizon {
		minutes := dto.DurationMinutes
		if minutes <= 0 {
			minutes = 60
		}
		t := time.Now().Add(time.Duration(minutes) * time.Minute)
		horizonEnd = &t
	}

	if !status.Known() {
		log.Printf("orbit: user %d declared unknown status %q, storing as-is", userID, dto.OrbitStatus)
	}

	if err := s.repo.SetStatus(ctx, userID, status, horizonEnd); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) UpdateLocation(ctx context.Context, userID int64, dto *UpdateLocationDTO) error {
	now := time.Now()
	if err := s.repo.UpdateLocation(ctx, userID, dto.Latitude, dto.Longitude, now); err != nil {
		return err
	}

	// Presence is best effort; a Redis hiccup must not fail the write.
	if err := s.presence.Track(ctx, userID, dto.Latitude, dto.Longitude); err != nil {
		log.Printf("orbit: presence track failed for user %d: %v", userID, err)
	}
	return nil
}

func (s *service) AwardMass(ctx context.Context, userID int64, delta int) (*UserProfile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	info := ComputeLevel(profile.Mass + delta)
	if err := s.repo.AwardMass(ctx, userID, delta, info.Level, info.Rank); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) LevelFor(ctx context.Context, userID int64) (*LevelInfo, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ComputeLevel(profile.Mass)
	return &info, nil
}

func (s *service) NearbyProfiles(ctx context.Context, lat, lng, radiusMeters float64) ([]*UserProfile, error) {
	if s.presence.Enabled() {
		ids, err := s.presence.Nearby(ctx, lat, lng, radiusMeters, s.scanLimit)
		if err != nil {
			log.Printf("orbit: presence lookup failed, falling back to postgres: %v", err)
		} else if len(ids) > 0 {
			return s.repo.GetProfiles(ctx, ids)
		}
	}

	return s.repo.ListLocated(ctx, s.scanLimit)
}

func (s *service) LocatedProfiles(ctx context.Context) ([]*UserProfile, error) {
	return s.repo.ListLocated(ctx, s.scanLimit)
}
