package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/lesson-booking-api/pkg/errors"
)

func TestPeriodServiceList(t *testing.T) {
	svc := NewPeriodService(staticPeriods{periods: catalog("08:00-09:30", "09:30-11:00")}, nil)
	periods, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, "08:00-09:30", periods[0].Name)
}

func TestPeriodServiceListEmptyCatalog(t *testing.T) {
	svc := NewPeriodService(staticPeriods{}, nil)
	periods, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, periods)
	assert.Empty(t, periods)
}

func TestPeriodServiceListError(t *testing.T) {
	boom := errors.New("catalog unavailable")
	svc := NewPeriodService(staticPeriods{err: boom}, nil)
	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
