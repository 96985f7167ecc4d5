package models

import (
	"errors"
	"time"
)

// Lesson is a single booked teaching session.
type Lesson struct {
	ID          string    `db:"id" json:"id"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	CampusID    string    `db:"campus_id" json:"campus_id"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	Week        string    `db:"week" json:"week"`
	SubjectName string    `db:"subject_name" json:"subject_name"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TimeWindow is a half-open [Start, End) interval.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the window intersects [start, end).
func (w TimeWindow) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && end.After(w.Start)
}

// LessonFilter narrows lesson lookups. Empty fields do not filter.
//
//   - ExcludeID drops the lesson with that id from the result.
//   - SubjectID, TeacherID, CampusID and Week match by equality.
//   - Window keeps lessons whose interval intersects it.
type LessonFilter struct {
	ExcludeID string
	SubjectID string
	TeacherID string
	CampusID  string
	Week      string
	Window    *TimeWindow
}

// Matches applies the filter semantics to an in-memory lesson.
func (f LessonFilter) Matches(l Lesson) bool {
	if f.ExcludeID != "" && l.ID == f.ExcludeID {
		return false
	}
	if f.SubjectID != "" && l.SubjectID != f.SubjectID {
		return false
	}
	if f.TeacherID != "" && l.TeacherID != f.TeacherID {
		return false
	}
	if f.CampusID != "" && l.CampusID != f.CampusID {
		return false
	}
	if f.Week != "" && l.Week != f.Week {
		return false
	}
	if f.Window != nil && !f.Window.Overlaps(l.StartTime, l.EndTime) {
		return false
	}
	return true
}

// ErrLessonOverlap is returned by the store when a database constraint rejects an overlapping lesson.
var ErrLessonOverlap = errors.New("lesson overlaps an existing booking")

// Lesson conflict kinds.
const (
	ConflictKindSubject = "SUBJECT"
	ConflictKindTeacher = "TEACHER"
)

// LessonConflictError is returned when a booking overlaps an existing lesson.
type LessonConflictError struct {
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	SubjectName string `json:"subject_name"`
	TeacherName string `json:"teacher_name"`
	Conflict    Lesson `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *LessonConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
