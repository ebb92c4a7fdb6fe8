package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/models"
)

type demoWalker struct {
	id    int
	name  string
	color string
}

// SeedDemo fills an empty store with a few clients and a week of walks
// around now. Used when the API runs with STORAGE_DRIVER=memory.
func SeedDemo(s *MemoryStore, normalizer *dates.Normalizer, now time.Time) {
	s.AddClient(models.Client{ID: 1, UserID: 11, Name: "Jordan Avery", Email: "jordan@example.com"})
	s.AddClient(models.Client{ID: 2, UserID: 12, Name: "Riley Chen", Email: "riley@example.com"})
	s.AddClient(models.Client{ID: 3, UserID: 13, Name: "Morgan Diaz", Email: "morgan@example.com"})

	walkers := []demoWalker{
		{id: 1, name: "Sam", color: "#3B82F6"},
		{id: 2, name: "Lee", color: "#F59E0B"},
	}

	today := normalizer.Key(now)
	thirty := decimal.RequireFromString("25.00")
	hour := decimal.RequireFromString("40.00")

	for i := -3; i < 7; i++ {
		day, err := dates.AddDays(today, i)
		if err != nil {
			continue
		}
		status := models.WalkScheduled
		if i < 0 {
			status = models.WalkCompleted
		}

		for j, w := range walkers {
			id := w.id
			amount := thirty
			duration := models.WalkDuration{Minutes: 30}
			if (i+j)%3 == 0 {
				amount = hour
				duration = models.WalkDuration{Minutes: 60}
			}
			s.AddWalk(models.Walk{
				ClientID:      (i+j+9)%3 + 1,
				WalkerID:      &id,
				PetID:         (i+j+9)%3 + 1,
				Date:          day,
				TimeSlot:      []string{"morning", "afternoon"}[j],
				Duration:      duration,
				Status:        status,
				BillingAmount: &amount,
				WalkerName:    w.name,
				WalkerColor:   w.color,
			})
		}
	}

	// one walk nobody has picked up yet
	s.AddWalk(models.Walk{
		ClientID: 3,
		PetID:    3,
		Date:     today,
		TimeSlot: "evening",
		Duration: models.WalkDuration{Overnight: true},
		Status:   models.WalkScheduled,
	})
}
