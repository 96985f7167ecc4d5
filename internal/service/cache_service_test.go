package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lesson-booking-api/internal/models"
)

type failingCacheRepo struct {
	getErr error
	setErr error
	delErr  error
	incrErr error
	sets    int
	incrs   int
}

func (f *failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return f.getErr
}

func (f *failingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.sets++
	return f.setErr
}

func (f *failingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return f.delErr
}

func (f *failingCacheRepo) Incr(ctx context.Context, key string) (int64, error) {
	f.incrs++
	return 0, f.incrErr
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := &memoryCacheRepo{values: map[string][]models.TimetableRow{}}
	cache := NewCacheService(repo, nil, time.Minute, nil, false)

	assert.False(t, cache.Enabled())
	cache.SetTimetable(context.Background(), "timetable:k", []models.TimetableRow{{Week: "2024-W05"}})
	assert.Empty(t, repo.values)

	_, ok := cache.GetTimetable(context.Background(), "timetable:k")
	assert.False(t, ok)
}

func TestCacheServiceNilIsDisabled(t *testing.T) {
	var cache *CacheService
	assert.False(t, cache.Enabled())
	_, ok := cache.GetTimetable(context.Background(), "timetable:k")
	assert.False(t, ok)
	cache.SetTimetable(context.Background(), "timetable:k", nil)
	cache.InvalidateTimetables(context.Background())
}

func TestCacheServiceRoundTripRecordsHits(t *testing.T) {
	repo := &memoryCacheRepo{values: map[string][]models.TimetableRow{}}
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, 0, nil, true)

	_, ok := cache.GetTimetable(context.Background(), "timetable:k")
	assert.False(t, ok)

	cache.SetTimetable(context.Background(), "timetable:k", []models.TimetableRow{{Week: "2024-W05", Monday: "2024-01-29"}})
	rows, ok := cache.GetTimetable(context.Background(), "timetable:k")
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-W05", rows[0].Week)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[family.GetName()] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[family.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["cache_hits_total"])
	assert.Equal(t, 1.0, values["cache_misses_total"])
	assert.Equal(t, 0.5, values["cache_hit_ratio"])
}

func TestCacheServiceSwallowsBackendErrors(t *testing.T) {
	down := errors.New("redis down")
	repo := &failingCacheRepo{getErr: down, setErr: down, delErr: down, incrErr: down}
	cache := NewCacheService(repo, nil, time.Minute, nil, true)

	_, ok := cache.GetTimetable(context.Background(), "timetable:k")
	assert.False(t, ok)
	_, ok = cache.TimetableGeneration(context.Background())
	assert.False(t, ok)
	cache.SetTimetable(context.Background(), "timetable:k", nil)
	cache.InvalidateTimetables(context.Background())
	assert.Equal(t, 1, repo.sets)
	assert.Equal(t, 1, repo.incrs)
}

func TestCacheServiceGenerationAdvancesOnInvalidate(t *testing.T) {
	repo := &memoryCacheRepo{values: map[string][]models.TimetableRow{}}
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	ctx := context.Background()

	generation, ok := cache.TimetableGeneration(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(0), generation)

	cache.InvalidateTimetables(ctx)
	cache.InvalidateTimetables(ctx)

	generation, ok = cache.TimetableGeneration(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(2), generation)

	_, ok = NewCacheService(repo, nil, time.Minute, nil, false).TimetableGeneration(ctx)
	assert.False(t, ok)
}
