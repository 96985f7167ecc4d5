package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lesson-booking-api/internal/models"
	appErrors "github.com/noah-isme/lesson-booking-api/pkg/errors"
)

const (
	// timetableCachePattern matches every cached timetable key.
	timetableCachePattern = "timetable:*"
	// timetableGenerationKey counts invalidations; it sits outside timetableCachePattern.
	timetableGenerationKey = "timetable-generation"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// CacheService caches rendered timetables and records hit/miss metrics.
// Cache failures are logged and never fail the request.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// TimetableGeneration returns the invalidation generation that versions
// timetable keys. Reads must fetch it before taking their snapshot so a grid
// built before a concurrent write lands under a key nobody reads again. ok is
// false when the cache is off or the counter cannot be read.
func (s *CacheService) TimetableGeneration(ctx context.Context) (int64, bool) {
	if !s.Enabled() {
		return 0, false
	}
	var generation int64
	err := s.repo.Get(ctx, timetableGenerationKey, &generation)
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache generation read failed", zap.Error(err))
		return 0, false
	}
	return generation, true
}

// GetTimetable looks up a cached timetable. It returns false on a miss.
func (s *CacheService) GetTimetable(ctx context.Context, key string) ([]models.TimetableRow, bool) {
	if !s.Enabled() {
		return nil, false
	}
	start := time.Now()
	var rows []models.TimetableRow
	err := s.repo.Get(ctx, key, &rows)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return rows, true
}

// SetTimetable stores a rendered timetable.
func (s *CacheService) SetTimetable(ctx context.Context, key string, rows []models.TimetableRow) {
	if !s.Enabled() {
		return
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, rows, s.ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateTimetables bumps the generation and drops every cached timetable
// after a lesson write.
func (s *CacheService) InvalidateTimetables(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	if _, err := s.repo.Incr(ctx, timetableGenerationKey); err != nil {
		s.logger.Warn("cache generation bump failed", zap.Error(err))
	}
	if err := s.repo.DeleteByPattern(ctx, timetableCachePattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", timetableCachePattern), zap.Error(err))
	}
}
