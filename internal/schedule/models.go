// internal/schedule/models.go

package schedule

// TimeSlot is a user-authored weekly recurring busy interval. Times are
// "HH:MM" strings on the wire and in storage.
type TimeSlot struct {
	ID        string `json:"id" db:"id"`
	UserID    int64  `json:"-" db:"user_id"`
	Day       string `json:"day" db:"day"`
	StartTime string `json:"startTime" db:"start_time"`
	EndTime   string `json:"endTime" db:"end_time"`
	Label     string `json:"label" db:"label"`
}

// DetectedGap is a derived free window between two busy slots. Gaps are
// always recomputed from the current slot set, never stored.
type DetectedGap struct {
	Day             string `json:"day"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// DTOs

type CreateSlotDTO struct {
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
	Label     string `json:"label" validate:"omitempty,max=80"`
}
