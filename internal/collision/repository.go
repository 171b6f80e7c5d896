// internal/collision/repository.go

package collision

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrCollisionNotFound = errors.New("collision not found")
	ErrSessionNotFound   = errors.New("study session not found")
)

type Repository interface {
	Create(ctx context.Context, c *Collision) error
	Get(ctx context.Context, id string) (*Collision, error)
	// SetUserStatus persists one side's response. Returns
	// ErrCollisionNotFound when the row is gone.
	SetUserStatus(ctx context.Context, id string, side int, status ParticipantStatus) error
	// SetStatus persists an overall status transition. Writing to a
	// missing row reports notFound=true instead of an error so the
	// caller can treat it as a benign no-op.
	SetStatus(ctx context.Context, id string, status Status) (notFound bool, err error)
	ListByUser1(ctx context.Context, userID int64) ([]*Collision, error)
	ListByUser2(ctx context.Context, userID int64) ([]*Collision, error)
	ListByParticipant(ctx context.Context, userID int64) ([]*Collision, error)
	ListOverdueActive(ctx context.Context, now time.Time) ([]*Collision, error)

	CreateSession(ctx context.Context, s *StudySession) (created bool, err error)
	GetSessionByCollision(ctx context.Context, collisionID string) (*StudySession, error)
	EndSession(ctx context.Context, collisionID string, endTime time.Time) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, c *Collision) error {
	query := `
		INSERT INTO collisions (
			id, user_id1, user_id2, user1_profile, user2_profile,
			status, user1_status, user2_status, matched_status,
			created_at, expires_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID1, c.UserID2, c.User1Profile, c.User2Profile,
		c.Status, c.User1Status, c.User2Status, c.MatchedStatus,
		c.CreatedAt, c.ExpiresAt,
	)
	return err
}

func (r *postgresRepository) Get(ctx context.Context, id string) (*Collision, error) {
	var c Collision
	query := `SELECT * FROM collisions WHERE id = $1`

	err := r.db.GetContext(ctx, &c, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCollisionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) SetUserStatus(ctx context.Context, id string, side int, status ParticipantStatus) error {
	column := "user1_status"
	if side == 2 {
		column = "user2_status"
	}

	query := `UPDATE collisions SET ` + column + ` = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCollisionNotFound
	}
	return nil
}

func (r *postgresRepository) SetStatus(ctx context.Context, id string, status Status) (bool, error) {
	// Guarded so that concurrent writers racing to expire the same
	// collision, or an optimistic update echoed back at us, cannot
	// flip a terminal state.
	query := `
		UPDATE collisions
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND (status = $2 OR status NOT IN ('expired', 'completed'))
	`

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the row is gone or a different terminal state won the
		// race; both are no-ops for a status-only write.
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM collisions WHERE id = $1)`, id); err != nil {
			return false, err
		}
		return !exists, nil
	}
	return false, nil
}

func (r *postgresRepository) ListByUser1(ctx context.Context, userID int64) ([]*Collision, error) {
	return r.list(ctx, `SELECT * FROM collisions WHERE user_id1 = $1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepository) ListByUser2(ctx context.Context, userID int64) ([]*Collision, error) {
	return r.list(ctx, `SELECT * FROM collisions WHERE user_id2 = $1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepository) ListByParticipant(ctx context.Context, userID int64) ([]*Collision, error) {
	return r.list(ctx, `SELECT * FROM collisions WHERE user_id1 = $1 OR user_id2 = $1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]*Collision, error) {
	var collisions []*Collision
	if err := r.db.SelectContext(ctx, &collisions, query, args...); err != nil {
		return nil, err
	}
	return collisions, nil
}

func (r *postgresRepository) ListOverdueActive(ctx context.Context, now time.Time) ([]*Collision, error) {
	var collisions []*Collision
	query := `SELECT * FROM collisions WHERE status = 'active' AND expires_at < $1`

	if err := r.db.SelectContext(ctx, &collisions, query, now); err != nil {
		return nil, err
	}
	return collisions, nil
}

func (r *postgresRepository) CreateSession(ctx context.Context, s *StudySession) (bool, error) {
	// One session per collision, no matter how many observers notice
	// the ready state at once.
	query := `
		INSERT INTO study_sessions (id, collision_id, participant1, participant2, start_time, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (collision_id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.CollisionID, s.Participant1, s.Participant2, s.StartTime, s.DurationMinutes,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *postgresRepository) GetSessionByCollision(ctx context.Context, collisionID string) (*StudySession, error) {
	var s StudySession
	query := `SELECT * FROM study_sessions WHERE collision_id = $1`

	err := r.db.GetContext(ctx, &s, query, collisionID)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) EndSession(ctx context.Context, collisionID string, endTime time.Time) error {
	query := `UPDATE study_sessions SET end_time = $2 WHERE collision_id = $1 AND end_time IS NULL`

	_, err := r.db.ExecContext(ctx, query, collisionID, endTime)
	return err
}
