package service

import (
	"fmt"
	"time"
)

const mondayLayout = "2006-01-02"

// WeekLabel returns the ISO-8601 week key ("2024-W05") of t in its own location.
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MondayOf returns the Monday that opens the ISO week named by label.
func MondayOf(label string) (time.Time, error) {
	var year, week int
	if _, err := fmt.Sscanf(label, "%4d-W%2d", &year, &week); err != nil {
		return time.Time{}, fmt.Errorf("parse week label %q: %w", label, err)
	}
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("parse week label %q: week out of range", label)
	}

	// January 4th always falls in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -isoWeekdayIndex(jan4))
	monday = monday.AddDate(0, 0, (week-1)*7)

	if y, w := monday.ISOWeek(); y != year || w != week {
		return time.Time{}, fmt.Errorf("parse week label %q: year has no such week", label)
	}
	return monday, nil
}

// isoWeekdayIndex maps Monday to 0 through Sunday to 6.
func isoWeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
