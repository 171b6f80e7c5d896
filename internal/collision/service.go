// internal/collision/service.go

package collision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/orbitstudy/orbit-backend/internal/orbit"
)

var (
	ErrSelfCollision      = errors.New("cannot collide with yourself")
	ErrInvalidParticipant = errors.New("user is not part of this collision")
	ErrCollisionTerminal  = errors.New("collision already expired or completed")
	ErrAlreadyDeclined    = errors.New("cannot change a declined response")
)

// ProfileDirectory is the slice of the orbit service this package needs.
type ProfileDirectory interface {
	GetProfile(ctx context.Context, userID int64) (*orbit.UserProfile, error)
	AwardMass(ctx context.Context, userID int64, delta int) (*orbit.UserProfile, error)
}

// Notifier pushes collision events at both participants. Duplicate
// deliveries are acceptable; lost ones are recovered by the
// subscription stream.
type Notifier interface {
	NotifyCollision(event string, c *Collision)
	NotifySessionReady(c *Collision, s *StudySession)
}

type Service interface {
	Create(ctx context.Context, initiatorID int64, dto *CreateCollisionDTO) (*Collision, error)
	Respond(ctx context.Context, collisionID string, userID int64, status ParticipantStatus) (*Collision, error)
	// UpdateStatus applies a terminal transition. actorID <= 0 means a
	// system caller (the sweeper); otherwise the actor must be a
	// participant.
	UpdateStatus(ctx context.Context, collisionID string, actorID int64, status Status) error
	List(ctx context.Context, userID int64) ([]*Collision, error)
	Get(ctx context.Context, collisionID string, userID int64) (*Collision, error)
	SessionFor(ctx context.Context, collisionID string, userID int64) (*StudySession, error)
	// ExpireOverdue sweeps active collisions past their window.
	ExpireOverdue(ctx context.Context) (int, error)
}

type Config struct {
	TTL             time.Duration
	SessionDuration time.Duration
	MassAward       int
}

type service struct {
	repo     Repository
	profiles ProfileDirectory
	notifier Notifier
	cfg      Config
}

func NewService(repo Repository, profiles ProfileDirectory, notifier Notifier, cfg Config) Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = 15 * time.Minute
	}
	return &service{repo: repo, profiles: profiles, notifier: notifier, cfg: cfg}
}

func (s *service) Create(ctx context.Context, initiatorID int64, dto *CreateCollisionDTO) (*Collision, error) {
	if initiatorID == dto.TargetID {
		return nil, ErrSelfCollision
	}

	initiator, err := s.profiles.GetProfile(ctx, initiatorID)
	if err != nil {
		return nil, fmt.Errorf("loading initiator profile: %w", err)
	}
	target, err := s.profiles.GetProfile(ctx, dto.TargetID)
	if err != nil {
		return nil, fmt.Errorf("loading target profile: %w", err)
	}

	initiatorSnap, err := json.Marshal(initiator)
	if err != nil {
		return nil, err
	}
	targetSnap, err := json.Marshal(target)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Collision{
		ID:            uuid.NewString(),
		UserID1:       initiatorID,
		UserID2:       dto.TargetID,
		User1Profile:  initiatorSnap,
		User2Profile:  targetSnap,
		Status:        StatusActive,
		User1Status:   ParticipantAccepted, // initiating is accepting
		User2Status:   ParticipantPending,
		MatchedStatus: dto.MatchedStatus,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.cfg.TTL),
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	RecordCollisionCreated()
	if s.notifier != nil {
		s.notifier.NotifyCollision("collision_created", c)
	}
	return c, nil
}

func (s *service) Respond(ctx context.Context, collisionID string, userID int64, status ParticipantStatus) (*Collision, error) {
	c, err := s.repo.Get(ctx, collisionID)
	if err != nil {
		return nil, err
	}

	// Lazy expiry: any reader that notices the window has passed
	// issues the (idempotent) expire write itself.
	if c.Status == StatusActive && c.Overdue(time.Now()) {
		if err := s.expire(ctx, c); err != nil {
			return nil, err
		}
	}

	if c.Status.Terminal() {
		return nil, ErrCollisionTerminal
	}

	current, ok := c.StatusOf(userID)
	if !ok {
		return nil, ErrInvalidParticipant
	}

	// Sub-statuses only move forward: pending -> accepted/declined.
	if current == ParticipantDeclined {
		return nil, ErrAlreadyDeclined
	}
	if current == status {
		// Echoed optimistic update; nothing to apply.
		return c, nil
	}

	side := 1
	if userID == c.UserID2 {
		side = 2
	}

	if err := s.repo.SetUserStatus(ctx, collisionID, side, status); err != nil {
		if errors.Is(err, ErrCollisionNotFound) {
			// Deleted underneath us; the terminal state is "gone"
			// either way.
			return c, nil
		}
		return nil, err
	}

	// Apply optimistically; the subscription stream will echo this.
	if side == 1 {
		c.User1Status = status
	} else {
		c.User2Status = status
	}
	c.UpdatedAt = time.Now()

	RecordResponse(string(status))

	switch {
	case status == ParticipantDeclined:
		// A decline from either side kills the collision immediately.
		if err := s.expire(ctx, c); err != nil {
			return nil, err
		}
	case c.BothAccepted():
		if err := s.ensureSession(ctx, c); err != nil {
			log.Printf("collision: session creation for %s failed: %v", c.ID, err)
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyCollision("collision_updated", c)
	}
	return c, nil
}

func (s *service) UpdateStatus(ctx context.Context, collisionID string, actorID int64, status Status) error {
	if !status.Terminal() {
		return fmt.Errorf("status %q is not a valid transition target", status)
	}

	c, err := s.repo.Get(ctx, collisionID)
	if err != nil {
		if errors.Is(err, ErrCollisionNotFound) {
			// Status-only write against a missing document is a no-op.
			return nil
		}
		return err
	}

	if actorID > 0 && !c.Involves(actorID) {
		return ErrInvalidParticipant
	}

	if c.Status == status {
		// Another reader already applied the same transition.
		return nil
	}
	if c.Status.Terminal() {
		return ErrCollisionTerminal
	}

	notFound, err := s.repo.SetStatus(ctx, collisionID, status)
	if err != nil {
		return err
	}
	if notFound {
		return nil
	}
	c.Status = status
	c.UpdatedAt = time.Now()

	now := time.Now()
	switch status {
	case StatusExpired:
		RecordExpired()
		if err := s.repo.EndSession(ctx, collisionID, now); err != nil {
			log.Printf("collision: ending session for expired %s failed: %v", collisionID, err)
		}
	case StatusCompleted:
		RecordCompleted()
		if err := s.repo.EndSession(ctx, collisionID, now); err != nil {
			log.Printf("collision: ending session for completed %s failed: %v", collisionID, err)
		}
		s.awardMass(ctx, c)
	}

	if s.notifier != nil {
		s.notifier.NotifyCollision("collision_updated", c)
	}
	return nil
}

func (s *service) List(ctx context.Context, userID int64) ([]*Collision, error) {
	return s.repo.ListByParticipant(ctx, userID)
}

func (s *service) Get(ctx context.Context, collisionID string, userID int64) (*Collision, error) {
	c, err := s.repo.Get(ctx, collisionID)
	if err != nil {
		return nil, err
	}
	if !c.Involves(userID) {
		return nil, ErrInvalidParticipant
	}
	return c, nil
}

func (s *service) SessionFor(ctx context.Context, collisionID string, userID int64) (*StudySession, error) {
	c, err := s.repo.Get(ctx, collisionID)
	if err != nil {
		return nil, err
	}
	if !c.Involves(userID) {
		return nil, ErrInvalidParticipant
	}
	return s.repo.GetSessionByCollision(ctx, collisionID)
}

func (s *service) ExpireOverdue(ctx context.Context) (int, error) {
	overdue, err := s.repo.ListOverdueActive(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, c := range overdue {
		if err := s.expire(ctx, c); err != nil {
			log.Printf("collision: sweep expire of %s failed: %v", c.ID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

// expire transitions the collision to expired and closes any session.
// Idempotent: concurrent expirers all converge on the same row state.
func (s *service) expire(ctx context.Context, c *Collision) error {
	notFound, err := s.repo.SetStatus(ctx, c.ID, StatusExpired)
	if err != nil {
		return err
	}
	if notFound {
		return nil
	}
	c.Status = StatusExpired
	c.UpdatedAt = time.Now()
	RecordExpired()

	if err := s.repo.EndSession(ctx, c.ID, time.Now()); err != nil {
		log.Printf("collision: ending session for expired %s failed: %v", c.ID, err)
	}
	if s.notifier != nil {
		s.notifier.NotifyCollision("collision_updated", c)
	}
	return nil
}

// ensureSession creates the study session once both sides accepted.
// The unique constraint on collision_id makes this idempotent.
func (s *service) ensureSession(ctx context.Context, c *Collision) error {
	session := &StudySession{
		ID:              uuid.NewString(),
		CollisionID:     c.ID,
		Participant1:    c.UserID1,
		Participant2:    c.UserID2,
		StartTime:       time.Now(),
		DurationMinutes: int(s.cfg.SessionDuration.Minutes()),
	}

	created, err := s.repo.CreateSession(ctx, session)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	RecordSessionCreated()
	if s.notifier != nil {
		s.notifier.NotifySessionReady(c, session)
	}
	return nil
}

func (s *service) awardMass(ctx context.Context, c *Collision) {
	if s.cfg.MassAward <= 0 {
		return
	}
	for _, userID := range []int64{c.UserID1, c.UserID2} {
		if _, err := s.profiles.AwardMass(ctx, userID, s.cfg.MassAward); err != nil {
			log.Printf("collision: mass award to user %d failed: %v", userID, err)
		}
	}
}
