package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/models"
)

func TestScheduleService_GetWeek(t *testing.T) {
	walkRepo := new(MockWalkRepository)
	svc := NewScheduleService(walkRepo, dates.NewNormalizer(time.UTC))
	svc.now = func() time.Time { return time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC) }

	walker := 1
	walkRepo.On("ListAll", mock.Anything).Return([]*models.Walk{
		{ID: 1, WalkerID: &walker, WalkerName: "Sam", Date: "2024-06-03", Status: models.WalkScheduled},
		{ID: 2, WalkerID: &walker, WalkerName: "Sam", Date: "2024-06-03", Status: models.WalkCompleted},
	}, nil)

	week, err := svc.GetWeek(context.Background(), "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", week.StartDate)
	assert.Equal(t, "2024-06-09", week.EndDate)
	assert.Equal(t, 2, week.Days[0].TotalWalks)
	assert.True(t, week.Days[2].IsToday)
}

func TestScheduleService_GetWeek_DefaultsToToday(t *testing.T) {
	walkRepo := new(MockWalkRepository)
	svc := NewScheduleService(walkRepo, dates.NewNormalizer(time.UTC))
	svc.now = func() time.Time { return time.Date(2024, 6, 5, 23, 0, 0, 0, time.UTC) }

	walkRepo.On("ListAll", mock.Anything).Return([]*models.Walk{}, nil)

	week, err := svc.GetWeek(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-05", week.StartDate)
	assert.True(t, week.Days[0].IsToday)
}

func TestScheduleService_GetWeek_Errors(t *testing.T) {
	walkRepo := new(MockWalkRepository)
	svc := NewScheduleService(walkRepo, dates.NewNormalizer(time.UTC))

	_, err := svc.GetWeek(context.Background(), "next tuesday")
	assert.ErrorIs(t, err, dates.ErrInvalidDate)
	walkRepo.AssertNotCalled(t, "ListAll", mock.Anything)

	walkRepo.On("ListAll", mock.Anything).Return(nil, errors.New("veritabanı hatası"))
	week, err := svc.GetWeek(context.Background(), "2024-06-03")
	assert.Error(t, err)
	assert.Nil(t, week)
}
