// internal/orbit/models.go

package orbit

import (
	"time"

	"github.com/lib/pq"
)

// OrbitStatus is a user's self-declared availability mode. The three
// known values are a closed set, but arbitrary strings coming from
// older or newer clients are carried through untouched so that exact
// string matching keeps working across versions.
type OrbitStatus string

const (
	StatusInOrbit      OrbitStatus = "In Orbit"
	StatusHighGravity  OrbitStatus = "High Gravity"
	StatusEventHorizon OrbitStatus = "Event Horizon"
)

// Known reports whether the status is one of the closed set.
func (s OrbitStatus) Known() bool {
	switch s {
	case StatusInOrbit, StatusHighGravity, StatusEventHorizon:
		return true
	}
	return false
}

// Location is a point report attached to a profile.
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// UserProfile is the user document shared with the matching, collision
// and heatmap layers. Field names on the wire are a contract.
type UserProfile struct {
	ID                  int64          `json:"id" db:"user_id"`
	DisplayName         string         `json:"displayName" db:"display_name"`
	PhotoURL            *string        `json:"photoURL,omitempty" db:"photo_url"`
	Subjects            pq.StringArray `json:"subjects" db:"subjects"`
	TeachingSubjects    pq.StringArray `json:"teachingSubjects,omitempty" db:"teaching_subjects"`
	LearningSubjects    pq.StringArray `json:"learningSubjects,omitempty" db:"learning_subjects"`
	Location            *Location      `json:"location,omitempty" db:"-"`
	OrbitStatus         *OrbitStatus   `json:"orbitStatus,omitempty" db:"orbit_status"`
	EventHorizonEndTime *time.Time     `json:"eventHorizonEndTime,omitempty" db:"event_horizon_end_time"`
	Mass                int            `json:"mass" db:"mass"`
	Level               int            `json:"level" db:"level"`
	Rank                *string        `json:"rank,omitempty" db:"rank"`
	FollowersCount      int            `json:"followersCount" db:"followers_count"`
	FollowingCount      int            `json:"followingCount" db:"following_count"`
	CreatedAt           time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time      `json:"updatedAt" db:"updated_at"`

	// Flattened location columns for sqlx scanning; folded into
	// Location by the repository.
	LocLat *float64   `json:"-" db:"location_lat"`
	LocLng *float64   `json:"-" db:"location_lng"`
	LocAt  *time.Time `json:"-" db:"location_at"`
}

// Status returns the declared status, or "" when none is set.
func (p *UserProfile) Status() OrbitStatus {
	if p.OrbitStatus == nil {
		return ""
	}
	return *p.OrbitStatus
}

// HasLocation reports whether the profile carries a usable position.
func (p *UserProfile) HasLocation() bool {
	return p != nil && p.Location != nil
}

// foldLocation lifts the flattened columns into the Location field.
func (p *UserProfile) foldLocation() {
	if p.LocLat != nil && p.LocLng != nil {
		loc := Location{Latitude: *p.LocLat, Longitude: *p.LocLng}
		if p.LocAt != nil {
			loc.Timestamp = *p.LocAt
		}
		p.Location = &loc
	}
}

// DTOs

type UpdateProfileDTO struct {
	DisplayName      *string  `json:"displayName" validate:"omitempty,min=1,max=60"`
	PhotoURL         *string  `json:"photoURL" validate:"omitempty,url"`
	Subjects         []string `json:"subjects" validate:"omitempty,max=20,dive,min=1,max=80"`
	TeachingSubjects []string `json:"teachingSubjects" validate:"omitempty,max=20,dive,min=1,max=80"`
	LearningSubjects []string `json:"learningSubjects" validate:"omitempty,max=20,dive,min=1,max=80"`
}

type SetStatusDTO struct {
	OrbitStatus     string `json:"orbitStatus" validate:"required,min=1,max=40"`
	DurationMinutes int    `json:"durationMinutes" validate:"omitempty,min=5,max=480"`
}

type UpdateLocationDTO struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}
