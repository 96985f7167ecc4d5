package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-booking-api/internal/models"
	appErrors "github.com/noah-isme/lesson-booking-api/pkg/errors"
)

type lessonFinder interface {
	Select(ctx context.Context, exec sqlx.ExtContext, filter models.LessonFilter) ([]models.Lesson, error)
}

// ConflictDetector rejects lessons that collide with an existing booking of the
// same subject or the same teacher.
type ConflictDetector struct {
	lessons lessonFinder
	metrics *MetricsService
	logger  *zap.Logger
}

// NewConflictDetector wires the detector to a lesson store.
func NewConflictDetector(lessons lessonFinder, metrics *MetricsService, logger *zap.Logger) *ConflictDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictDetector{lessons: lessons, metrics: metrics, logger: logger}
}

// Detect checks the subject first, then the teacher, and reports the first
// collision found. The candidate's own id is excluded so an update never
// collides with the row it replaces.
func (d *ConflictDetector) Detect(ctx context.Context, exec sqlx.ExtContext, lesson models.Lesson) error {
	window := &models.TimeWindow{Start: lesson.StartTime, End: lesson.EndTime}

	bySubject, err := d.lessons.Select(ctx, exec, models.LessonFilter{
		ExcludeID: lesson.ID,
		SubjectID: lesson.SubjectID,
		Window:    window,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject conflicts")
	}
	if len(bySubject) > 0 {
		occupant := bySubject[0]
		return d.conflict(models.ConflictKindSubject,
			fmt.Sprintf("subject %s is already assigned to teacher %s in this time range", occupant.SubjectName, occupant.TeacherName),
			occupant)
	}

	byTeacher, err := d.lessons.Select(ctx, exec, models.LessonFilter{
		ExcludeID: lesson.ID,
		TeacherID: lesson.TeacherID,
		Window:    window,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher conflicts")
	}
	if len(byTeacher) > 0 {
		occupant := byTeacher[0]
		return d.conflict(models.ConflictKindTeacher,
			fmt.Sprintf("teacher %s is already teaching %s in this time range", occupant.TeacherName, occupant.SubjectName),
			occupant)
	}
	return nil
}

func (d *ConflictDetector) conflict(kind, message string, occupant models.Lesson) error {
	d.metrics.RecordLessonConflict(kind)
	d.logger.Info("lesson conflict",
		zap.String("kind", kind),
		zap.String("conflicting_lesson_id", occupant.ID),
		zap.String("subject_id", occupant.SubjectID),
		zap.String("teacher_id", occupant.TeacherID),
	)
	domainErr := &models.LessonConflictError{
		Kind:        kind,
		Message:     message,
		SubjectName: occupant.SubjectName,
		TeacherName: occupant.TeacherName,
		Conflict:    occupant,
	}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, message)
}
