package schedule

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/models"
)

func intPtr(v int) *int { return &v }

func newTestBuilder(t *testing.T) (*Builder, *time.Location) {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return NewBuilder(dates.NewNormalizer(ny)), ny
}

func TestBuildWeek_CountsScheduledAndCompletedPerWalker(t *testing.T) {
	b, ny := newTestBuilder(t)

	walks := []*models.Walk{
		{ID: 1, WalkerID: intPtr(1), WalkerName: "Sam", Date: "2024-06-03", Status: models.WalkScheduled},
		{ID: 2, WalkerID: intPtr(1), WalkerName: "Sam", Date: "2024-06-03", Status: models.WalkCompleted},
		{ID: 3, WalkerID: intPtr(2), WalkerName: "Lee", Date: "2024-06-03", Status: models.WalkCancelled},
	}

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, ny)
	days := b.BuildWeek(start, walks, start)

	require.Len(t, days, DaysInWeek)
	assert.Equal(t, "2024-06-03", days[0].DateString)
	assert.Equal(t, 2, days[0].TotalWalks)
	require.Len(t, days[0].WalkerCounts, 1)
	assert.Equal(t, 1, *days[0].WalkerCounts[0].WalkerID)
	assert.Equal(t, "Sam", days[0].WalkerCounts[0].Name)
	assert.Equal(t, 2, days[0].WalkerCounts[0].Count)
	assert.Equal(t, models.DefaultWalkerColor, days[0].WalkerCounts[0].Color)

	for _, d := range days[1:] {
		assert.Zero(t, d.TotalWalks)
		assert.Empty(t, d.WalkerCounts)
	}
}

func TestBuildWeek_SevenConsecutiveDays(t *testing.T) {
	b, ny := newTestBuilder(t)

	// spans the spring-forward and fall-back transitions
	starts := []time.Time{
		time.Date(2024, 3, 7, 15, 0, 0, 0, ny),
		time.Date(2024, 10, 31, 23, 59, 0, 0, ny),
		time.Date(2024, 12, 28, 0, 0, 0, 0, ny),
		time.Date(2024, 2, 26, 9, 0, 0, 0, ny),
	}

	for _, start := range starts {
		days := b.BuildWeek(start, nil, start)
		require.Len(t, days, DaysInWeek)

		first := start.Format(dates.KeyLayout)
		assert.Equal(t, first, days[0].DateString)
		for i, d := range days {
			want, err := dates.AddDays(first, i)
			require.NoError(t, err)
			assert.Equal(t, want, d.DateString)
			assert.Equal(t, 0, d.Date.Hour(), d.DateString)
			assert.Equal(t, want, d.Date.Format(dates.KeyLayout))
		}
	}
}

func TestBuildWeek_GroupingAndOrdering(t *testing.T) {
	b, ny := newTestBuilder(t)

	walks := []*models.Walk{
		{ID: 1, WalkerID: intPtr(7), Date: "2024-06-04", Status: models.WalkScheduled},
		{ID: 2, WalkerID: nil, Date: "2024-06-04", Status: models.WalkScheduled},
		{ID: 3, WalkerID: intPtr(3), WalkerName: "Ana", WalkerColor: "#10B981", Date: "2024-06-04", Status: models.WalkScheduled},
		{ID: 4, WalkerID: intPtr(3), WalkerName: "Ana B.", Date: "2024-06-04T14:00:00", Status: models.WalkCompleted},
		{ID: 5, WalkerID: nil, Date: "2024-06-04", Status: models.WalkCompleted},
		{ID: 6, WalkerID: intPtr(7), WalkerName: "Max", Date: "2024-06-04", Status: models.WalkScheduled},
		{ID: 7, WalkerID: intPtr(9), Date: "2024-06-04", Status: models.WalkScheduled},
	}

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, ny)
	days := b.BuildWeek(start, walks, start)
	counts := days[1].WalkerCounts

	require.Len(t, counts, 4)
	assert.Equal(t, 7, days[1].TotalWalks)

	// ties keep first-seen order: walker 7, unassigned, walker 3
	assert.Equal(t, 7, *counts[0].WalkerID)
	assert.Equal(t, "Max", counts[0].Name)
	assert.Nil(t, counts[1].WalkerID)
	assert.Equal(t, models.UnassignedWalkerName, counts[1].Name)
	assert.Equal(t, 3, *counts[2].WalkerID)
	assert.Equal(t, "Ana", counts[2].Name)
	assert.Equal(t, "#10B981", counts[2].Color)
	assert.Equal(t, 9, *counts[3].WalkerID)
	assert.Equal(t, "Walker #9", counts[3].Name)
	assert.Equal(t, 1, counts[3].Count)
}

func TestBuildWeek_ExcludesCancelledAndInvalidDates(t *testing.T) {
	b, ny := newTestBuilder(t)

	walks := []*models.Walk{
		{ID: 1, Date: "2024-06-05", Status: models.WalkCancelled},
		{ID: 2, Date: "not-a-date", Status: models.WalkScheduled},
		{ID: 3, Date: "2024-02-30", Status: models.WalkScheduled},
		{ID: 4, Date: "2024-06-20", Status: models.WalkScheduled},
		nil,
	}

	days := b.BuildWeek(time.Date(2024, 6, 3, 0, 0, 0, 0, ny), walks, time.Now())
	for _, d := range days {
		assert.Zero(t, d.TotalWalks, d.DateString)
	}
}

func TestBuildWeek_OffsetInstantLandsOnLocalDay(t *testing.T) {
	b, ny := newTestBuilder(t)

	// 01:00 UTC on the 5th is 21:00 on the 4th in New York
	walks := []*models.Walk{
		{ID: 1, WalkerID: intPtr(1), Date: "2024-06-05T01:00:00Z", Status: models.WalkScheduled},
	}

	days := b.BuildWeek(time.Date(2024, 6, 3, 12, 0, 0, 0, ny), walks, time.Now())
	assert.Equal(t, 1, days[1].TotalWalks)
	assert.Zero(t, days[2].TotalWalks)
}

func TestBuildWeek_IsToday(t *testing.T) {
	b, ny := newTestBuilder(t)

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, ny)
	now := time.Date(2024, 6, 6, 2, 30, 0, 0, time.UTC) // evening of the 5th locally

	days := b.BuildWeek(start, nil, now)
	for i, d := range days {
		assert.Equal(t, i == 2, d.IsToday, d.DateString)
	}

	outside := b.BuildWeek(start, nil, time.Date(2024, 7, 1, 12, 0, 0, 0, ny))
	for _, d := range outside {
		assert.False(t, d.IsToday)
	}
}

func TestBuildWeek_Deterministic(t *testing.T) {
	b, ny := newTestBuilder(t)

	walks := []*models.Walk{
		{ID: 1, WalkerID: intPtr(2), Date: "2024-06-03", Status: models.WalkScheduled},
		{ID: 2, WalkerID: intPtr(1), Date: "2024-06-03", Status: models.WalkScheduled},
		{ID: 3, WalkerID: intPtr(2), Date: "2024-06-07", Status: models.WalkCompleted},
	}
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, ny)
	now := time.Date(2024, 6, 4, 0, 0, 0, 0, ny)

	first := b.BuildWeek(start, walks, now)
	second := b.BuildWeek(start, walks, now)
	assert.Equal(t, first, second)
}

func TestBuildWeek_DoesNotMutateWalks(t *testing.T) {
	b, ny := newTestBuilder(t)

	w := &models.Walk{ID: 1, WalkerID: intPtr(4), Date: "2024-06-03T10:00:00", Status: models.WalkScheduled}
	before := *w.Clone()

	days := b.BuildWeek(time.Date(2024, 6, 3, 0, 0, 0, 0, ny), []*models.Walk{w}, time.Now())
	*days[0].WalkerCounts[0].WalkerID = 99

	assert.Equal(t, before.Date, w.Date)
	assert.Equal(t, 4, *w.WalkerID)
}

func TestSchedule_StartAndEnd(t *testing.T) {
	b, ny := newTestBuilder(t)

	week := b.Schedule(time.Date(2024, 12, 30, 8, 0, 0, 0, ny), nil, time.Now())
	assert.Equal(t, "2024-12-30", week.StartDate)
	assert.Equal(t, "2025-01-05", week.EndDate)
	assert.Len(t, week.Days, DaysInWeek)
}
