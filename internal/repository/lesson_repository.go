package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/lesson-booking-api/internal/models"
)

// pqExclusionViolation is the SQLSTATE raised by EXCLUDE constraints.
const pqExclusionViolation = "23P01"

const lessonColumns = `l.id, l.subject_id, l.teacher_id, l.campus_id, l.start_time, l.end_time, l.week,
	COALESCE(s.name, '') AS subject_name, COALESCE(u.full_name, '') AS teacher_name,
	l.created_at, l.updated_at`

const lessonFrom = `FROM lessons l
	LEFT JOIN subjects s ON s.id = l.subject_id
	LEFT JOIN users u ON u.id = l.teacher_id`

// LessonRepository persists lessons. Every method takes the executor so the
// caller decides whether it runs inside a transaction.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new lesson repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) executor(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Select returns lessons matching the filter ordered by start time. Window is
// applied as an interval intersection: start_time < window end AND end_time > window start.
func (r *LessonRepository) Select(ctx context.Context, exec sqlx.ExtContext, filter models.LessonFilter) ([]models.Lesson, error) {
	var conditions []string
	var args []interface{}

	if filter.ExcludeID != "" {
		conditions = append(conditions, fmt.Sprintf("l.id <> $%d", len(args)+1))
		args = append(args, filter.ExcludeID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("l.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("l.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.CampusID != "" {
		conditions = append(conditions, fmt.Sprintf("l.campus_id = $%d", len(args)+1))
		args = append(args, filter.CampusID)
	}
	if filter.Week != "" {
		conditions = append(conditions, fmt.Sprintf("l.week = $%d", len(args)+1))
		args = append(args, filter.Week)
	}
	if filter.Window != nil {
		conditions = append(conditions, fmt.Sprintf("l.start_time < $%d", len(args)+1))
		args = append(args, filter.Window.End)
		conditions = append(conditions, fmt.Sprintf("l.end_time > $%d", len(args)+1))
		args = append(args, filter.Window.Start)
	}

	query := fmt.Sprintf("SELECT %s %s WHERE 1=1", lessonColumns, lessonFrom)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY l.start_time ASC, l.id ASC"

	var lessons []models.Lesson
	if err := sqlx.SelectContext(ctx, r.executor(exec), &lessons, query, args...); err != nil {
		return nil, fmt.Errorf("select lessons: %w", err)
	}
	return lessons, nil
}

// FindByID loads a lesson by id. A missing row yields sql.ErrNoRows.
func (r *LessonRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE l.id = $1", lessonColumns, lessonFrom)
	var lesson models.Lesson
	if err := sqlx.GetContext(ctx, r.executor(exec), &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Insert stores a new lesson and returns the number of rows created.
func (r *LessonRepository) Insert(ctx context.Context, exec sqlx.ExtContext, lesson *models.Lesson) (int64, error) {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now

	const query = `INSERT INTO lessons (id, subject_id, teacher_id, campus_id, start_time, end_time, week, created_at, updated_at) VALUES (:id, :subject_id, :teacher_id, :campus_id, :start_time, :end_time, :week, :created_at, :updated_at)`
	res, err := sqlx.NamedExecContext(ctx, r.executor(exec), query, lesson)
	if err != nil {
		return 0, translateWriteError("insert lesson", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert lesson rows affected: %w", err)
	}
	return affected, nil
}

// Update rewrites a lesson and returns the number of rows modified.
func (r *LessonRepository) Update(ctx context.Context, exec sqlx.ExtContext, lesson *models.Lesson) (int64, error) {
	lesson.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lessons SET subject_id = :subject_id, teacher_id = :teacher_id, campus_id = :campus_id, start_time = :start_time, end_time = :end_time, week = :week, updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, r.executor(exec), query, lesson)
	if err != nil {
		return 0, translateWriteError("update lesson", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update lesson rows affected: %w", err)
	}
	return affected, nil
}

// DeleteByIDs removes the given lessons and returns how many rows were deleted.
func (r *LessonRepository) DeleteByIDs(ctx context.Context, exec sqlx.ExtContext, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.executor(exec).ExecContext(ctx, `DELETE FROM lessons WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("delete lessons: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete lessons rows affected: %w", err)
	}
	return affected, nil
}

func translateWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqExclusionViolation {
		return fmt.Errorf("%s: %w", op, models.ErrLessonOverlap)
	}
	return fmt.Errorf("%s: %w", op, err)
}
