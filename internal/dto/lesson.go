package dto

import (
	"strconv"
	"strings"
	"time"
)

// LessonRequest is the payload for booking or rescheduling a lesson.
type LessonRequest struct {
	SubjectID string    `json:"subject_id" validate:"required"`
	TeacherID string    `json:"teacher_id" validate:"required"`
	CampusID  string    `json:"campus_id"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// LessonQuery filters the weekly timetable. Every field is optional.
type LessonQuery struct {
	StartTime *time.Time
	TeacherID string
	SubjectID string
	CampusID  string
}

// CacheKey derives a stable cache key for the query once the week label and
// cache generation are known.
func (q LessonQuery) CacheKey(week string, generation int64) string {
	parts := []string{"timetable", "g=" + strconv.FormatInt(generation, 10), "w=" + week, "t=" + q.TeacherID, "s=" + q.SubjectID, "c=" + q.CampusID}
	return strings.Join(parts, ":")
}

// LessonMutationResponse reports the outcome of a write.
type LessonMutationResponse struct {
	Success bool `json:"success"`
}
