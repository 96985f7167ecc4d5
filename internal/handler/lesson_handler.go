package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lesson-booking-api/internal/dto"
	"github.com/noah-isme/lesson-booking-api/internal/models"
	appErrors "github.com/noah-isme/lesson-booking-api/pkg/errors"
	"github.com/noah-isme/lesson-booking-api/pkg/response"
)

type lessonService interface {
	AddLesson(ctx context.Context, req dto.LessonRequest) (bool, error)
	UpdateLesson(ctx context.Context, id string, req dto.LessonRequest) (bool, error)
	RemoveLessons(ctx context.Context, idsCSV string) (bool, error)
	GetLessons(ctx context.Context, query dto.LessonQuery) ([]models.TimetableRow, error)
}

type timetableExporter interface {
	Export(ctx context.Context, query dto.LessonQuery, format string) ([]byte, string, error)
}

// LessonHandler manages lesson booking and timetable endpoints.
type LessonHandler struct {
	service  lessonService
	exporter timetableExporter
}

// NewLessonHandler constructs handler.
func NewLessonHandler(svc lessonService, exporter timetableExporter) *LessonHandler {
	return &LessonHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary Weekly timetable
// @Tags Lessons
// @Produce json
// @Param startTime query string false "Any instant in the wanted week (RFC3339 or YYYY-MM-DD)"
// @Param teacherId query string false "Filter by teacher (alias userId)"
// @Param subjectId query string false "Filter by subject"
// @Param campusId query string false "Filter by campus"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	query, err := parseLessonQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.service.GetLessons(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if rows == nil {
		rows = []models.TimetableRow{}
	}
	response.JSON(c, http.StatusOK, rows, map[string]interface{}{"weeks": len(rows)})
}

// Create godoc
// @Summary Book a lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body dto.LessonRequest true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req dto.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	created, err := h.service.AddLesson(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.LessonMutationResponse{Success: created})
}

// Update godoc
// @Summary Reschedule a lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param payload body dto.LessonRequest true "Lesson payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lessons/{id} [put]
func (h *LessonHandler) Update(c *gin.Context) {
	var req dto.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	updated, err := h.service.UpdateLesson(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.LessonMutationResponse{Success: updated})
}

// Delete godoc
// @Summary Remove lessons
// @Description Deletes every listed lesson or none of them.
// @Tags Lessons
// @Produce json
// @Param ids query string true "Comma separated lesson ids"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /lessons [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	removed, err := h.service.RemoveLessons(c.Request.Context(), c.Query("ids"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.LessonMutationResponse{Success: removed})
}

// Export godoc
// @Summary Export the weekly timetable
// @Tags Lessons
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param startTime query string false "Any instant in the wanted week"
// @Param teacherId query string false "Filter by teacher"
// @Param subjectId query string false "Filter by subject"
// @Param campusId query string false "Filter by campus"
// @Success 200 {file} file
// @Router /lessons/export [get]
func (h *LessonHandler) Export(c *gin.Context) {
	query, err := parseLessonQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, contentType, err := h.exporter.Export(c.Request.Context(), query, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	response.Attachment(c, "timetable."+ext, contentType, payload)
}

func parseLessonQuery(c *gin.Context) (dto.LessonQuery, error) {
	query := dto.LessonQuery{
		TeacherID: strings.TrimSpace(c.Query("teacherId")),
		SubjectID: strings.TrimSpace(c.Query("subjectId")),
		CampusID:  strings.TrimSpace(c.Query("campusId")),
	}
	if query.TeacherID == "" {
		query.TeacherID = strings.TrimSpace(c.Query("userId"))
	}
	if raw := strings.TrimSpace(c.Query("startTime")); raw != "" {
		ts, err := parseInstant(raw)
		if err != nil {
			return dto.LessonQuery{}, appErrors.Clone(appErrors.ErrValidation, "startTime must be RFC3339 or YYYY-MM-DD")
		}
		query.StartTime = &ts
	}
	return query, nil
}

func parseInstant(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}
