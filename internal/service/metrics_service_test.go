package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesLessonCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/lessons", http.StatusOK, 20*time.Millisecond)
	metrics.ObserveTransaction("add", nil, time.Millisecond)
	metrics.ObserveTransaction("remove", errors.New("partial"), time.Millisecond)
	metrics.RecordLessonConflict("TEACHER")

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/v1/lessons",status="200"} 1`)
	assert.Contains(t, body, `lesson_transaction_duration_seconds_count{operation="add",outcome="commit"} 1`)
	assert.Contains(t, body, `lesson_transaction_duration_seconds_count{operation="remove",outcome="rollback"} 1`)
	assert.Contains(t, body, `lesson_conflicts_total{kind="TEACHER"} 1`)
	assert.True(t, strings.Contains(body, "goroutines_total"))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.ObserveCacheWrite(time.Millisecond)
	metrics.ObserveTransaction("list", nil, time.Millisecond)
	metrics.RecordLessonConflict("SUBJECT")
	assert.Nil(t, metrics.Registry())

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
