// internal/schedule/repository.go

package schedule

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrSlotNotFound = errors.New("time slot not found")

type Repository interface {
	CreateSlot(ctx context.Context, slot *TimeSlot) error
	ListSlots(ctx context.Context, userID int64) ([]TimeSlot, error)
	DeleteSlot(ctx context.Context, userID int64, slotID string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateSlot(ctx context.Context, slot *TimeSlot) error {
	query := `
		INSERT INTO time_slots (id, user_id, day, start_time, end_time, label)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		slot.ID, slot.UserID, slot.Day, slot.StartTime, slot.EndTime, slot.Label,
	)
	return err
}

func (r *postgresRepository) ListSlots(ctx context.Context, userID int64) ([]TimeSlot, error) {
	var slots []TimeSlot
	query := `SELECT * FROM time_slots WHERE user_id = $1 ORDER BY day, start_time`

	if err := r.db.SelectContext(ctx, &slots, query, userID); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return slots, nil
}

func (r *postgresRepository) DeleteSlot(ctx context.Context, userID int64, slotID string) error {
	query := `DELETE FROM time_slots WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, slotID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSlotNotFound
	}
	return nil
}
