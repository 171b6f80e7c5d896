package schedule

import (
	"testing"
	"time"
)

func slot(day, start, end string) TimeSlot {
	return TimeSlot{Day: day, StartTime: start, EndTime: end}
}

func TestDetectGaps(t *testing.T) {
	tests := []struct {
		name  string
		slots []TimeSlot
		want  []DetectedGap
	}{
		{
			name: "one hour between two classes",
			slots: []TimeSlot{
				slot("Monday", "09:00", "10:30"),
				slot("Monday", "11:30", "13:00"),
			},
			want: []DetectedGap{
				{Day: "Monday", StartTime: "10:30", EndTime: "11:30", DurationMinutes: 60},
			},
		},
		{
			name: "ten minute space is below threshold",
			slots: []TimeSlot{
				slot("Monday", "09:00", "10:30"),
				slot("Monday", "10:40", "12:00"),
			},
			want: nil,
		},
		{
			name: "exactly fifteen minutes counts",
			slots: []TimeSlot{
				slot("Tuesday", "09:00", "10:00"),
				slot("Tuesday", "10:15", "11:00"),
			},
			want: []DetectedGap{
				{Day: "Tuesday", StartTime: "10:00", EndTime: "10:15", DurationMinutes: 15},
			},
		},
		{
			name: "no cross day gaps",
			slots: []TimeSlot{
				slot("Monday", "09:00", "10:00"),
				slot("Tuesday", "14:00", "15:00"),
			},
			want: nil,
		},
		{
			name: "single slot yields nothing",
			slots: []TimeSlot{
				slot("Wednesday", "09:00", "17:00"),
			},
			want: nil,
		},
		{
			name:  "empty schedule",
			slots: nil,
			want:  nil,
		},
		{
			name: "unsorted input is sorted per day",
			slots: []TimeSlot{
				slot("Friday", "13:00", "14:00"),
				slot("Friday", "09:00", "10:00"),
				slot("Friday", "11:00", "12:00"),
			},
			want: []DetectedGap{
				{Day: "Friday", StartTime: "10:00", EndTime: "11:00", DurationMinutes: 60},
				{Day: "Friday", StartTime: "12:00", EndTime: "13:00", DurationMinutes: 60},
			},
		},
		{
			name: "days emitted in week order",
			slots: []TimeSlot{
				slot("Thursday", "09:00", "10:00"),
				slot("Thursday", "11:00", "12:00"),
				slot("Monday", "09:00", "10:00"),
				slot("Monday", "11:00", "12:00"),
			},
			want: []DetectedGap{
				{Day: "Monday", StartTime: "10:00", EndTime: "11:00", DurationMinutes: 60},
				{Day: "Thursday", StartTime: "10:00", EndTime: "11:00", DurationMinutes: 60},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectGaps(tt.slots, MinGapMinutes)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d gaps %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("gap %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDetectGapsNeverNegative(t *testing.T) {
	// Back-to-back slots share an edge; the zero-width space must not
	// surface as a gap.
	gaps := DetectGaps([]TimeSlot{
		slot("Monday", "09:00", "10:00"),
		slot("Monday", "10:00", "11:00"),
	}, MinGapMinutes)
	if len(gaps) != 0 {
		t.Fatalf("got %v, want no gaps", gaps)
	}

	for _, g := range DetectGaps([]TimeSlot{
		slot("Monday", "08:00", "09:00"),
		slot("Monday", "09:30", "10:30"),
		slot("Monday", "12:00", "13:00"),
	}, MinGapMinutes) {
		if g.DurationMinutes < MinGapMinutes {
			t.Errorf("gap %+v is below the threshold", g)
		}
	}
}

func TestCurrentGap(t *testing.T) {
	slots := []TimeSlot{
		slot("Monday", "09:00", "10:30"),
		slot("Monday", "11:30", "13:00"),
	}

	// 2026-03-02 is a Monday.
	monday := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
	}

	if got := CurrentGap(slots, monday(11, 0), MinGapMinutes); got == nil {
		t.Error("11:00 Monday is inside the gap, got nil")
	} else if got.StartTime != "10:30" || got.EndTime != "11:30" {
		t.Errorf("got %+v, want the 10:30-11:30 gap", got)
	}

	if got := CurrentGap(slots, monday(9, 30), MinGapMinutes); got != nil {
		t.Errorf("9:30 Monday is inside a class, got %+v", got)
	}

	// Same clock time on Tuesday is not in any gap.
	tuesday := time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC)
	if got := CurrentGap(slots, tuesday, MinGapMinutes); got != nil {
		t.Errorf("Tuesday has no slots, got %+v", got)
	}

	// Sunday is outside the schedule week entirely.
	sunday := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	if got := CurrentGap(slots, sunday, MinGapMinutes); got != nil {
		t.Errorf("Sunday is unscheduled, got %+v", got)
	}
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:05", 545, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMinutes(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseMinutes(%q) = %d, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseMinutes(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
