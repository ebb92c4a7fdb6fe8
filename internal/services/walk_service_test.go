package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/models"
	"github.com/tailwag/walkops/internal/repository"
)

func newWalkServiceWithStore(t *testing.T) (*WalkService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	store.AddClient(models.Client{ID: 1, Name: "Jordan"})
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return NewWalkService(store.Walks(), store.Clients(), dates.NewNormalizer(ny)), store
}

func TestWalkService_CreateWalk_NormalizesLooseRecord(t *testing.T) {
	svc, _ := newWalkServiceWithStore(t)

	var record models.WalkRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"clientId": "1",
		"walkerId": 4,
		"petId": "2",
		"date": "2024-06-04T02:30:00Z",
		"timeSlot": "evening",
		"duration": "overnight",
		"status": "completed",
		"billingAmount": "$45.00",
		"isBalanceApplied": true
	}`), &record))

	walk, err := svc.CreateWalk(context.Background(), &record)
	require.NoError(t, err)

	assert.NotZero(t, walk.ID)
	assert.Equal(t, "2024-06-03", walk.Date)
	assert.Equal(t, models.WalkScheduled, walk.Status)
	assert.False(t, walk.IsBalanceApplied)
	assert.True(t, walk.Duration.Overnight)
	assert.Equal(t, 4, *walk.WalkerID)
	assert.Equal(t, "45.00", walk.BillingAmount.StringFixed(2))
}

func TestWalkService_CreateWalk_Rejects(t *testing.T) {
	svc, _ := newWalkServiceWithStore(t)

	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "missing client", body: `{"date":"2024-06-03","duration":30}`, want: models.ErrInvalidWalk},
		{name: "bad date", body: `{"clientId":1,"date":"someday","duration":30}`, want: dates.ErrInvalidDate},
		{name: "unknown client", body: `{"clientId":9,"date":"2024-06-03","duration":30}`, want: models.ErrClientNotFound},
		{name: "negative amount", body: `{"clientId":1,"date":"2024-06-03","duration":30,"billingAmount":-5}`, want: models.ErrInvalidAmount},
		{name: "bad duration", body: `{"clientId":1,"date":"2024-06-03","duration":"forever"}`, want: models.ErrInvalidWalk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record models.WalkRecord
			require.NoError(t, json.Unmarshal([]byte(tt.body), &record))

			_, err := svc.CreateWalk(context.Background(), &record)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWalkService_UpdateStatus_Lifecycle(t *testing.T) {
	svc, store := newWalkServiceWithStore(t)
	ctx := context.Background()
	w := store.AddWalk(models.Walk{ClientID: 1, Date: "2024-06-03", Status: models.WalkScheduled})

	updated, err := svc.UpdateStatus(ctx, w.ID, models.WalkCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.WalkCompleted, updated.Status)

	_, err = svc.UpdateStatus(ctx, w.ID, models.WalkCancelled)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, w.ID, models.WalkScheduled)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, w.ID, models.WalkStatus("lost"))
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, 404, models.WalkCompleted)
	assert.ErrorIs(t, err, models.ErrWalkNotFound)
}

func TestWalkService_ListWalks(t *testing.T) {
	walkRepo := new(MockWalkRepository)
	svc := NewWalkService(walkRepo, new(MockClientRepository), dates.NewNormalizer(time.UTC))

	walkRepo.On("ListAll", mock.Anything).Return([]*models.Walk{{ID: 1}, {ID: 2}}, nil)
	walkRepo.On("ListByClient", mock.Anything, 7).Return([]*models.Walk{{ID: 2}}, nil)

	all, err := svc.ListWalks(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	clientID := 7
	mine, err := svc.ListWalks(context.Background(), &clientID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	walkRepo.AssertExpectations(t)
}
