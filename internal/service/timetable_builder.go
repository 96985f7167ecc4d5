package service

import (
	"strings"
	"time"

	"github.com/noah-isme/lesson-booking-api/internal/models"
	"github.com/noah-isme/lesson-booking-api/pkg/config"
)

// PeriodMatchMode selects how many catalog periods a lesson may land in.
type PeriodMatchMode string

const (
	// PeriodMatchAll places a lesson in every period whose range holds its start time.
	PeriodMatchAll PeriodMatchMode = config.PeriodMatchAll
	// PeriodMatchFirst places a lesson only in the first such period in catalog order.
	PeriodMatchFirst PeriodMatchMode = config.PeriodMatchFirst
)

// periodRange is a parsed "HH:MM-HH:MM" catalog entry in minutes since midnight.
type periodRange struct {
	name  string
	start int
	end   int
}

func (p periodRange) contains(minute int) bool {
	return minute >= p.start && minute <= p.end
}

// parsePeriodRange splits a period name into its bounds. Names without exactly
// two parseable tokens are reported as not ok.
func parsePeriodRange(name string) (periodRange, bool) {
	tokens := strings.Split(name, "-")
	if len(tokens) != 2 {
		return periodRange{}, false
	}
	start, ok := parseClock(tokens[0])
	if !ok {
		return periodRange{}, false
	}
	end, ok := parseClock(tokens[1])
	if !ok {
		return periodRange{}, false
	}
	return periodRange{name: name, start: start, end: end}, true
}

func parseClock(raw string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// TimetableBuilder lays lessons out on a week x period x weekday grid. Weeks,
// weekdays and clock times are read in the builder's location, whatever zone
// the store hands timestamps back in.
type TimetableBuilder struct {
	mode     PeriodMatchMode
	location *time.Location
}

// NewTimetableBuilder constructs a builder; unknown modes fall back to
// PeriodMatchAll and a nil location means UTC.
func NewTimetableBuilder(mode PeriodMatchMode, location *time.Location) *TimetableBuilder {
	if mode != PeriodMatchFirst {
		mode = PeriodMatchAll
	}
	if location == nil {
		location = time.UTC
	}
	return &TimetableBuilder{mode: mode, location: location}
}

// Mode returns the active period match mode.
func (b *TimetableBuilder) Mode() PeriodMatchMode {
	return b.mode
}

// Location returns the zone timetables are laid out in.
func (b *TimetableBuilder) Location() *time.Location {
	return b.location
}

// Localize moves a lesson's times into the builder's location.
func (b *TimetableBuilder) Localize(lesson models.Lesson) models.Lesson {
	lesson.StartTime = lesson.StartTime.In(b.location)
	lesson.EndTime = lesson.EndTime.In(b.location)
	return lesson
}

type weekBucket struct {
	// cells[period name][weekday] holds the lessons starting in that slot.
	cells map[string]map[int][]models.Lesson
}

// Build groups lessons by week label, then renders one row per week with every
// catalog period present and seven day slots per period. Weeks appear in the
// order they are first seen in lessons.
func (b *TimetableBuilder) Build(periods []models.Period, lessons []models.Lesson) []models.TimetableRow {
	ranges := make([]periodRange, 0, len(periods))
	for _, period := range periods {
		if r, ok := parsePeriodRange(period.Name); ok {
			ranges = append(ranges, r)
		}
	}

	var weekOrder []string
	buckets := make(map[string]*weekBucket)
	for _, lesson := range lessons {
		lesson = b.Localize(lesson)
		week := WeekLabel(lesson.StartTime)
		bucket, ok := buckets[week]
		if !ok {
			bucket = &weekBucket{cells: make(map[string]map[int][]models.Lesson)}
			buckets[week] = bucket
			weekOrder = append(weekOrder, week)
		}

		day := isoWeekdayIndex(lesson.StartTime)
		minute := lesson.StartTime.Hour()*60 + lesson.StartTime.Minute()
		for _, r := range ranges {
			if !r.contains(minute) {
				continue
			}
			days, ok := bucket.cells[r.name]
			if !ok {
				days = make(map[int][]models.Lesson)
				bucket.cells[r.name] = days
			}
			days[day] = append(days[day], lesson)
			if b.mode == PeriodMatchFirst {
				break
			}
		}
	}

	rows := make([]models.TimetableRow, 0, len(weekOrder))
	for _, week := range weekOrder {
		row := models.TimetableRow{Week: week, Periods: make([]models.PeriodRow, 0, len(periods))}
		if monday, err := MondayOf(week); err == nil {
			row.Monday = monday.Format(mondayLayout)
		}
		cells := buckets[week].cells
		for _, period := range periods {
			periodRow := models.PeriodRow{Period: period.Name}
			for day := range periodRow.Days {
				periodRow.Days[day] = []models.Lesson{}
			}
			for day, booked := range cells[period.Name] {
				periodRow.Days[day] = booked
			}
			row.Periods = append(row.Periods, periodRow)
		}
		rows = append(rows, row)
	}
	return rows
}
