package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lesson-booking-api/internal/dto"
	"github.com/noah-isme/lesson-booking-api/internal/models"
	appErrors "github.com/noah-isme/lesson-booking-api/pkg/errors"
)

type lessonServiceMock struct {
	addReq    dto.LessonRequest
	updateID  string
	removeCSV string
	query     dto.LessonQuery
	rows      []models.TimetableRow
	ok        bool
	err       error
}

func (m *lessonServiceMock) AddLesson(ctx context.Context, req dto.LessonRequest) (bool, error) {
	m.addReq = req
	return m.ok, m.err
}

func (m *lessonServiceMock) UpdateLesson(ctx context.Context, id string, req dto.LessonRequest) (bool, error) {
	m.updateID = id
	return m.ok, m.err
}

func (m *lessonServiceMock) RemoveLessons(ctx context.Context, idsCSV string) (bool, error) {
	m.removeCSV = idsCSV
	return m.ok, m.err
}

func (m *lessonServiceMock) GetLessons(ctx context.Context, query dto.LessonQuery) ([]models.TimetableRow, error) {
	m.query = query
	return m.rows, m.err
}

type exporterMock struct {
	format string
	query  dto.LessonQuery
	err    error
}

func (m *exporterMock) Export(ctx context.Context, query dto.LessonQuery, format string) ([]byte, string, error) {
	m.format = format
	m.query = query
	if m.err != nil {
		return nil, "", m.err
	}
	if format == "pdf" {
		return []byte("%PDF-1.3"), "application/pdf", nil
	}
	return []byte("Week\n"), "text/csv", nil
}

func newLessonRouter(svc *lessonServiceMock, exporter *exporterMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLessonHandler(svc, exporter)
	router := gin.New()
	router.GET("/lessons", h.List)
	router.GET("/lessons/export", h.Export)
	router.POST("/lessons", h.Create)
	router.PUT("/lessons/:id", h.Update)
	router.DELETE("/lessons", h.Delete)
	return router
}

func serve(router *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLessonHandlerListParsesQuery(t *testing.T) {
	svc := &lessonServiceMock{rows: []models.TimetableRow{{Week: "2024-W05", Monday: "2024-01-29"}}}
	router := newLessonRouter(svc, &exporterMock{})

	w := serve(router, http.MethodGet, "/lessons?startTime=2024-01-31&userId=10&subjectId=1&campusId=c1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.query.StartTime)
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), *svc.query.StartTime)
	assert.Equal(t, "10", svc.query.TeacherID)
	assert.Equal(t, "1", svc.query.SubjectID)
	assert.Equal(t, "c1", svc.query.CampusID)

	var body struct {
		Data []models.TimetableRow `json:"data"`
		Meta map[string]int        `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "2024-W05", body.Data[0].Week)
	assert.Equal(t, 1, body.Meta["weeks"])
}

func TestLessonHandlerListTeacherIDWinsOverAlias(t *testing.T) {
	svc := &lessonServiceMock{}
	router := newLessonRouter(svc, &exporterMock{})

	w := serve(router, http.MethodGet, "/lessons?teacherId=11&userId=10&startTime=2024-01-31T10:00:00%2B07:00", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "11", svc.query.TeacherID)
	require.NotNil(t, svc.query.StartTime)
	_, offset := svc.query.StartTime.Zone()
	assert.Equal(t, 7*3600, offset)
	assert.JSONEq(t, `{"data":[],"meta":{"weeks":0}}`, w.Body.String())
}

func TestLessonHandlerListRejectsBadStartTime(t *testing.T) {
	svc := &lessonServiceMock{}
	router := newLessonRouter(svc, &exporterMock{})

	w := serve(router, http.MethodGet, "/lessons?startTime=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLessonHandlerCreate(t *testing.T) {
	svc := &lessonServiceMock{ok: true}
	router := newLessonRouter(svc, &exporterMock{})

	body := []byte(`{"subject_id":"1","teacher_id":"10","start_time":"2024-01-29T08:30:00Z","end_time":"2024-01-29T09:00:00Z"}`)
	w := serve(router, http.MethodPost, "/lessons", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"success":true}}`, w.Body.String())
	assert.Equal(t, "10", svc.addReq.TeacherID)
}

func TestLessonHandlerCreateInvalidJSON(t *testing.T) {
	router := newLessonRouter(&lessonServiceMock{}, &exporterMock{})
	w := serve(router, http.MethodPost, "/lessons", []byte(`{"subject_id":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLessonHandlerCreateConflict(t *testing.T) {
	conflict := &models.LessonConflictError{Kind: models.ConflictKindSubject, Message: "subject Mathematics is already assigned to teacher Alice in this time range", TeacherName: "Alice"}
	svc := &lessonServiceMock{err: appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict.Message)}
	router := newLessonRouter(svc, &exporterMock{})

	body := []byte(`{"subject_id":"1","teacher_id":"11","start_time":"2024-01-29T08:45:00Z","end_time":"2024-01-29T09:15:00Z"}`)
	w := serve(router, http.MethodPost, "/lessons", body)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"SUBJECT"`)
}

func TestLessonHandlerUpdate(t *testing.T) {
	svc := &lessonServiceMock{ok: true}
	router := newLessonRouter(svc, &exporterMock{})

	body := []byte(`{"subject_id":"1","teacher_id":"10","start_time":"2024-01-29T08:30:00Z","end_time":"2024-01-29T09:00:00Z"}`)
	w := serve(router, http.MethodPut, "/lessons/abc", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", svc.updateID)
}

func TestLessonHandlerUpdateNotFound(t *testing.T) {
	svc := &lessonServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "lesson not found")}
	router := newLessonRouter(svc, &exporterMock{})

	body := []byte(`{"subject_id":"1","teacher_id":"10","start_time":"2024-01-29T08:30:00Z","end_time":"2024-01-29T09:00:00Z"}`)
	w := serve(router, http.MethodPut, "/lessons/missing", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLessonHandlerDelete(t *testing.T) {
	svc := &lessonServiceMock{ok: true}
	router := newLessonRouter(svc, &exporterMock{})

	w := serve(router, http.MethodDelete, "/lessons?ids=1,2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1,2", svc.removeCSV)
}

func TestLessonHandlerDeletePartialFailure(t *testing.T) {
	svc := &lessonServiceMock{err: appErrors.Clone(appErrors.ErrPartialFailure, "only 2 of 3 lessons could be removed; nothing was deleted")}
	router := newLessonRouter(svc, &exporterMock{})

	w := serve(router, http.MethodDelete, "/lessons?ids=1,2,3", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "PARTIAL_FAILURE")
}

func TestLessonHandlerExport(t *testing.T) {
	exporter := &exporterMock{}
	router := newLessonRouter(&lessonServiceMock{}, exporter)

	w := serve(router, http.MethodGet, "/lessons/export?format=pdf&teacherId=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf", exporter.format)
	assert.Equal(t, "10", exporter.query.TeacherID)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="timetable.pdf"`, w.Header().Get("Content-Disposition"))

	w = serve(router, http.MethodGet, "/lessons/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="timetable.csv"`, w.Header().Get("Content-Disposition"))
}

func TestLessonHandlerExportUnsupportedFormat(t *testing.T) {
	exporter := &exporterMock{err: appErrors.Clone(appErrors.ErrValidation, `unsupported export format "xlsx"`)}
	router := newLessonRouter(&lessonServiceMock{}, exporter)

	w := serve(router, http.MethodGet, "/lessons/export?format=xlsx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
