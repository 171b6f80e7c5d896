// internal/schedule/service.go

package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service interface {
	CreateSlot(ctx context.Context, userID int64, dto *CreateSlotDTO) (*TimeSlot, error)
	ListSlots(ctx context.Context, userID int64) ([]TimeSlot, error)
	DeleteSlot(ctx context.Context, userID int64, slotID string) error
	Gaps(ctx context.Context, userID int64) ([]DetectedGap, error)
	CurrentGap(ctx context.Context, userID int64, now time.Time) (*DetectedGap, error)
}

type service struct {
	repo   Repository
	minGap int
}

func NewService(repo Repository, minGapMinutes int) Service {
	if minGapMinutes <= 0 {
		minGapMinutes = MinGapMinutes
	}
	return &service{repo: repo, minGap: minGapMinutes}
}

func (s *service) CreateSlot(ctx context.Context, userID int64, dto *CreateSlotDTO) (*TimeSlot, error) {
	slot := &TimeSlot{
		ID:        uuid.NewString(),
		UserID:    userID,
		Day:       dto.Day,
		StartTime: dto.StartTime,
		EndTime:   dto.EndTime,
		Label:     dto.Label,
	}

	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *service) ListSlots(ctx context.Context, userID int64) ([]TimeSlot, error) {
	return s.repo.ListSlots(ctx, userID)
}

func (s *service) DeleteSlot(ctx context.Context, userID int64, slotID string) error {
	return s.repo.DeleteSlot(ctx, userID, slotID)
}

func (s *service) Gaps(ctx context.Context, userID int64) ([]DetectedGap, error) {
	slots, err := s.repo.ListSlots(ctx, userID)
	if err != nil {
		return nil, err
	}
	return DetectGaps(slots, s.minGap), nil
}

func (s *service) CurrentGap(ctx context.Context, userID int64, now time.Time) (*DetectedGap, error) {
	slots, err := s.repo.ListSlots(ctx, userID)
	if err != nil {
		return nil, err
	}
	return CurrentGap(slots, now, s.minGap), nil
}
