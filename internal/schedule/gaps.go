// internal/schedule/gaps.go
// Pure gap detection over a weekly busy schedule.

package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MinGapMinutes is the smallest free window worth surfacing.
const MinGapMinutes = 15

// weekdays in schedule order. Sunday is intentionally absent.
var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var weekdayIndex = func() map[string]int {
	m := make(map[string]int, len(weekdays))
	for i, d := range weekdays {
		m[d] = i
	}
	return m
}()

// parseMinutes converts "HH:MM" to minutes since midnight.
func parseMinutes(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed time %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed time %q", hhmm)
	}
	return h*60 + m, nil
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DetectGaps returns, per day independently, the free windows between
// consecutive slots that are at least minGap minutes long. Slots with
// unparseable times are skipped. Overlapping slots are assumed not to
// occur; behavior on overlapping input is unspecified.
func DetectGaps(slots []TimeSlot, minGap int) []DetectedGap {
	if minGap <= 0 {
		minGap = MinGapMinutes
	}

	type interval struct {
		start, end int
	}
	byDay := make(map[string][]interval)
	for _, slot := range slots {
		start, err := parseMinutes(slot.StartTime)
		if err != nil {
			continue
		}
		end, err := parseMinutes(slot.EndTime)
		if err != nil {
			continue
		}
		byDay[slot.Day] = append(byDay[slot.Day], interval{start: start, end: end})
	}

	var gaps []DetectedGap
	for _, day := range weekdays {
		intervals := byDay[day]
		if len(intervals) < 2 {
			continue
		}
		sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })

		for i := 0; i < len(intervals)-1; i++ {
			gap := intervals[i+1].start - intervals[i].end
			if gap < minGap {
				continue
			}
			gaps = append(gaps, DetectedGap{
				Day:             day,
				StartTime:       formatMinutes(intervals[i].end),
				EndTime:         formatMinutes(intervals[i+1].start),
				DurationMinutes: gap,
			})
		}
	}
	return gaps
}

// CurrentGap maps now onto the weekly schedule and returns the gap
// containing it, if any. At most one gap can contain a given instant.
func CurrentGap(slots []TimeSlot, now time.Time, minGap int) *DetectedGap {
	day := now.Weekday().String()
	if _, ok := weekdayIndex[day]; !ok {
		return nil
	}
	minutes := now.Hour()*60 + now.Minute()

	for _, gap := range DetectGaps(slots, minGap) {
		if gap.Day != day {
			continue
		}
		start, err := parseMinutes(gap.StartTime)
		if err != nil {
			continue
		}
		end, err := parseMinutes(gap.EndTime)
		if err != nil {
			continue
		}
		if minutes >= start && minutes < end {
			g := gap
			return &g
		}
	}
	return nil
}
