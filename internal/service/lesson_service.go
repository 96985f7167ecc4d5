package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-booking-api/internal/dto"
	"github.com/noah-isme/lesson-booking-api/internal/models"
	appErrors "github.com/noah-isme/lesson-booking-api/pkg/errors"
)

type lessonStore interface {
	lessonFinder
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Lesson, error)
	Insert(ctx context.Context, exec sqlx.ExtContext, lesson *models.Lesson) (int64, error)
	Update(ctx context.Context, exec sqlx.ExtContext, lesson *models.Lesson) (int64, error)
	DeleteByIDs(ctx context.Context, exec sqlx.ExtContext, ids []string) (int64, error)
}

type periodCatalog interface {
	ListAll(ctx context.Context) ([]models.Period, error)
}

type txRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx sqlx.ExtContext) error) error
}

// LessonService books, reschedules, removes and lists lessons. Every entry
// point runs as one transaction; any error discards all of its writes.
type LessonService struct {
	lessons   lessonStore
	periods   periodCatalog
	tx        txRunner
	detector  *ConflictDetector
	builder   *TimetableBuilder
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// LessonServiceDeps groups the collaborators of LessonService.
type LessonServiceDeps struct {
	Lessons   lessonStore
	Periods   periodCatalog
	Tx        txRunner
	Detector  *ConflictDetector
	Builder   *TimetableBuilder
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewLessonService instantiates LessonService.
func NewLessonService(deps LessonServiceDeps) *LessonService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Detector == nil {
		deps.Detector = NewConflictDetector(deps.Lessons, deps.Metrics, deps.Logger)
	}
	if deps.Builder == nil {
		deps.Builder = NewTimetableBuilder(PeriodMatchAll, nil)
	}
	return &LessonService{
		lessons:   deps.Lessons,
		periods:   deps.Periods,
		tx:        deps.Tx,
		detector:  deps.Detector,
		builder:   deps.Builder,
		cache:     deps.Cache,
		metrics:   deps.Metrics,
		validator: deps.Validator,
		logger:    deps.Logger,
	}
}

// AddLesson books a new lesson after conflict detection. It reports whether
// exactly one row was created.
func (s *LessonService) AddLesson(ctx context.Context, req dto.LessonRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}

	lesson := s.builder.Localize(lessonFromRequest("", req))
	lesson.Week = WeekLabel(lesson.StartTime)

	var created bool
	err := s.inTx(ctx, "add", false, func(ctx context.Context, tx sqlx.ExtContext) error {
		if err := s.detector.Detect(ctx, tx, lesson); err != nil {
			return err
		}
		affected, err := s.lessons.Insert(ctx, tx, &lesson)
		if err != nil {
			return wrapLessonWriteError(err, "failed to create lesson")
		}
		created = affected == 1
		return nil
	})
	if err != nil {
		return false, err
	}

	s.cache.InvalidateTimetables(ctx)
	s.logger.Info("lesson created",
		zap.String("lesson_id", lesson.ID),
		zap.String("week", lesson.Week),
		zap.Bool("created", created),
	)
	return created, nil
}

// UpdateLesson reschedules an existing lesson. The lesson must exist; its own
// booking never counts as a conflict.
func (s *LessonService) UpdateLesson(ctx context.Context, id string, req dto.LessonRequest) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, appErrors.Clone(appErrors.ErrValidation, "lesson id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}

	lesson := s.builder.Localize(lessonFromRequest(id, req))

	var updated bool
	err := s.inTx(ctx, "update", false, func(ctx context.Context, tx sqlx.ExtContext) error {
		if _, err := s.lessons.FindByID(ctx, tx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
		}
		if err := s.detector.Detect(ctx, tx, lesson); err != nil {
			return err
		}
		lesson.Week = WeekLabel(lesson.StartTime)
		affected, err := s.lessons.Update(ctx, tx, &lesson)
		if err != nil {
			return wrapLessonWriteError(err, "failed to update lesson")
		}
		updated = affected == 1
		return nil
	})
	if err != nil {
		return false, err
	}

	s.cache.InvalidateTimetables(ctx)
	s.logger.Info("lesson updated", zap.String("lesson_id", id), zap.String("week", lesson.Week), zap.Bool("updated", updated))
	return updated, nil
}

// RemoveLessons deletes the comma separated lesson ids. Either every id is
// deleted or none is.
func (s *LessonService) RemoveLessons(ctx context.Context, idsCSV string) (bool, error) {
	if strings.TrimSpace(idsCSV) == "" {
		return false, appErrors.Clone(appErrors.ErrValidation, "no lessons to remove")
	}
	ids := strings.Split(idsCSV, ",")
	for i := range ids {
		ids[i] = strings.TrimSpace(ids[i])
		if ids[i] == "" {
			return false, appErrors.Clone(appErrors.ErrValidation, "lesson id list contains a blank entry")
		}
	}

	err := s.inTx(ctx, "remove", false, func(ctx context.Context, tx sqlx.ExtContext) error {
		deleted, err := s.lessons.DeleteByIDs(ctx, tx, ids)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove lessons")
		}
		if deleted != int64(len(ids)) {
			return appErrors.Clone(appErrors.ErrPartialFailure,
				fmt.Sprintf("only %d of %d lessons could be removed; nothing was deleted", deleted, len(ids)))
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.cache.InvalidateTimetables(ctx)
	s.logger.Info("lessons removed", zap.Strings("lesson_ids", ids))
	return true, nil
}

// GetLessons renders the weekly timetable for the lessons matching query.
// When StartTime is set, the whole calendar week containing it is returned.
func (s *LessonService) GetLessons(ctx context.Context, query dto.LessonQuery) ([]models.TimetableRow, error) {
	filter := models.LessonFilter{
		TeacherID: query.TeacherID,
		SubjectID: query.SubjectID,
		CampusID:  query.CampusID,
	}
	if query.StartTime != nil {
		filter.Week = WeekLabel(query.StartTime.In(s.builder.Location()))
	}

	generation, cacheable := s.cache.TimetableGeneration(ctx)
	key := query.CacheKey(filter.Week, generation)
	if cacheable {
		if rows, ok := s.cache.GetTimetable(ctx, key); ok {
			return rows, nil
		}
	}

	var lessons []models.Lesson
	var periods []models.Period
	err := s.inTx(ctx, "list", true, func(ctx context.Context, tx sqlx.ExtContext) error {
		var err error
		lessons, err = s.lessons.Select(ctx, tx, filter)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
		}
		periods, err = s.periods.ListAll(ctx)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period catalog")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows := s.builder.Build(periods, lessons)
	if cacheable {
		s.cache.SetTimetable(ctx, key, rows)
	}
	return rows, nil
}

func (s *LessonService) inTx(ctx context.Context, operation string, readOnly bool, fn func(ctx context.Context, tx sqlx.ExtContext) error) error {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	var opts *sql.TxOptions
	if readOnly {
		opts = &sql.TxOptions{ReadOnly: true}
	}

	start := time.Now()
	err := s.tx.RunInTx(ctx, opts, fn)
	s.metrics.ObserveTransaction(operation, err, time.Since(start))
	if err == nil {
		return nil
	}

	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	s.logger.Error("lesson transaction failed", zap.String("operation", operation), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "lesson transaction failed")
}

func lessonFromRequest(id string, req dto.LessonRequest) models.Lesson {
	return models.Lesson{
		ID:        id,
		SubjectID: strings.TrimSpace(req.SubjectID),
		TeacherID: strings.TrimSpace(req.TeacherID),
		CampusID:  strings.TrimSpace(req.CampusID),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
}

func wrapLessonWriteError(err error, message string) error {
	if errors.Is(err, models.ErrLessonOverlap) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "lesson overlaps an existing booking")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
