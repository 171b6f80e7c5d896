// internal/collision/models.go

package collision

import (
	"encoding/json"
	"time"
)

// Status is the overall lifecycle state of a collision.
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCompleted Status = "completed"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusExpired || s == StatusCompleted
}

// ParticipantStatus is one side's answer to the proposal.
type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "pending"
	ParticipantAccepted ParticipantStatus = "accepted"
	ParticipantDeclined ParticipantStatus = "declined"
)

// Collision is one candidate pairing between exactly two users. The
// profile snapshots are frozen at creation time so the proposal card
// stays stable while the live profiles keep changing underneath.
type Collision struct {
	ID            string            `json:"id" db:"id"`
	UserID1       int64             `json:"userId1" db:"user_id1"`
	UserID2       int64             `json:"userId2" db:"user_id2"`
	User1Profile  json.RawMessage   `json:"user1Profile" db:"user1_profile"`
	User2Profile  json.RawMessage   `json:"user2Profile" db:"user2_profile"`
	Status        Status            `json:"status" db:"status"`
	User1Status   ParticipantStatus `json:"user1Status" db:"user1_status"`
	User2Status   ParticipantStatus `json:"user2Status" db:"user2_status"`
	MatchedStatus string            `json:"matchedStatus" db:"matched_status"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
	ExpiresAt     time.Time         `json:"expiresAt" db:"expires_at"`
	UpdatedAt     time.Time         `json:"updatedAt" db:"updated_at"`
}

// Involves reports whether the user is one of the two participants.
func (c *Collision) Involves(userID int64) bool {
	return c.UserID1 == userID || c.UserID2 == userID
}

// StatusOf returns the sub-status for the given participant. The bool
// is false for a stranger.
func (c *Collision) StatusOf(userID int64) (ParticipantStatus, bool) {
	switch userID {
	case c.UserID1:
		return c.User1Status, true
	case c.UserID2:
		return c.User2Status, true
	}
	return "", false
}

// BothAccepted reports whether the pairing is ready for a session.
func (c *Collision) BothAccepted() bool {
	return c.User1Status == ParticipantAccepted && c.User2Status == ParticipantAccepted
}

// Overdue reports whether the proposal has outlived its window.
func (c *Collision) Overdue(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// StudySession is the confirmed focus session behind a ready collision.
type StudySession struct {
	ID              string     `json:"id" db:"id"`
	CollisionID     string     `json:"collisionId" db:"collision_id"`
	Participant1    int64      `json:"-" db:"participant1"`
	Participant2    int64      `json:"-" db:"participant2"`
	StartTime       time.Time  `json:"startTime" db:"start_time"`
	EndTime         *time.Time `json:"endTime,omitempty" db:"end_time"`
	DurationMinutes int        `json:"duration" db:"duration_minutes"`
}

// Participants returns both user ids in stored order.
func (s *StudySession) Participants() [2]int64 {
	return [2]int64{s.Participant1, s.Participant2}
}

// MarshalJSON emits the participants pair as an array, which is the
// shape the clients consume.
func (s *StudySession) MarshalJSON() ([]byte, error) {
	type alias StudySession
	return json.Marshal(struct {
		*alias
		Participants [2]int64 `json:"participants"`
	}{
		alias:        (*alias)(s),
		Participants: s.Participants(),
	})
}

// DTOs

type CreateCollisionDTO struct {
	TargetID      int64  `json:"targetId" validate:"required"`
	MatchedStatus string `json:"matchedStatus" validate:"required,min=1,max=40"`
}

type RespondDTO struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}

type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=expired completed"`
}
