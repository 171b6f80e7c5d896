// internal/orbit/repository.go

package orbit

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repository interface {
	EnsureProfile(ctx context.Context, userID int64, displayName string) error
	GetProfile(ctx context.Context, userID int64) (*UserProfile, error)
	GetProfiles(ctx context.Context, userIDs []int64) ([]*UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, dto *UpdateProfileDTO) error
	SetStatus(ctx context.Context, userID int64, status OrbitStatus, horizonEnd *time.Time) error
	UpdateLocation(ctx context.Context, userID int64, lat, lng float64, at time.Time) error
	AwardMass(ctx context.Context, userID int64, delta int, level int, rank string) error
	ListLocated(ctx context.Context, limit int) ([]*UserProfile, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) EnsureProfile(ctx context.Context, userID int64, displayName string) error {
	query := `
		INSERT INTO user_profiles (user_id, display_name, subjects, teaching_subjects, learning_subjects)
		VALUES ($1, $2, '{}', '{}', '{}')
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, displayName)
	return err
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	var p UserProfile
	query := `SELECT * FROM user_profiles WHERE user_id = $1`

	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	p.foldLocation()
	return &p, nil
}

func (r *postgresRepository) GetProfiles(ctx context.Context, userIDs []int64) ([]*UserProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var profiles []*UserProfile
	query := `SELECT * FROM user_profiles WHERE user_id = ANY($1)`

	err := r.db.SelectContext(ctx, &profiles, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		p.foldLocation()
	}
	return profiles, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, userID int64, dto *UpdateProfileDTO) error {
	query := `
		UPDATE user_profiles
		SET display_name      = COALESCE($2, display_name),
		    photo_url         = COALESCE($3, photo_url),
		    subjects          = COALESCE($4, subjects),
		    teaching_subjects = COALESCE($5, teaching_subjects),
		    learning_subjects = COALESCE($6, learning_subjects),
		    updated_at        = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		userID, dto.DisplayName, dto.PhotoURL,
		nullableArray(dto.Subjects), nullableArray(dto.TeachingSubjects), nullableArray(dto.LearningSubjects),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) SetStatus(ctx context.Context, userID int64, status OrbitStatus, horizonEnd *time.Time) error {
	query := `
		UPDATE user_profiles
		SET orbit_status = $2, event_horizon_end_time = $3, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, userID, string(status), horizonEnd)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateLocation(ctx context.Context, userID int64, lat, lng float64, at time.Time) error {
	query := `
		UPDATE user_profiles
		SET location_lat = $2, location_lng = $3, location_at = $4, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, userID, lat, lng, at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) AwardMass(ctx context.Context, userID int64, delta int, level int, rank string) error {
	query := `
		UPDATE user_profiles
		SET mass = mass + $2, level = $3, rank = $4, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, userID, delta, level, rank)
	return err
}

// ListLocated returns profiles that currently expose a position,
// freshest reports first. Used as the Redis-less fallback for nearby
// lookups and for heat zone rendering.
func (r *postgresRepository) ListLocated(ctx context.Context, limit int) ([]*UserProfile, error) {
	var profiles []*UserProfile
	query := `
		SELECT * FROM user_profiles
		WHERE location_lat IS NOT NULL AND location_lng IS NOT NULL
		ORDER BY location_at DESC NULLS LAST
		LIMIT $1
	`

	err := r.db.SelectContext(ctx, &profiles, query, limit)
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		p.foldLocation()
	}
	return profiles, nil
}

// nullableArray maps an absent slice to NULL so COALESCE keeps the
// stored value, while an explicit empty slice clears it.
func nullableArray(values []string) interface{} {
	if values == nil {
		return nil
	}
	return pq.Array(values)
}
