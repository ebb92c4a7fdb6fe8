package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/models"
	"github.com/tailwag/walkops/internal/schedule"
)

var _ interfaces.ScheduleServiceInterface = (*ScheduleService)(nil)

// ScheduleService haftalık takvim görünümü
type ScheduleService struct {
	walkRepo   interfaces.WalkRepositoryInterface
	normalizer *dates.Normalizer
	builder    *schedule.Builder
	now        func() time.Time
}

// NewScheduleService yeni service oluşturur
func NewScheduleService(walkRepo interfaces.WalkRepositoryInterface, normalizer *dates.Normalizer) *ScheduleService {
	return &ScheduleService{
		walkRepo:   walkRepo,
		normalizer: normalizer,
		builder:    schedule.NewBuilder(normalizer),
		now:        time.Now,
	}
}

// GetWeek start'tan başlayan 7 günü döner. A failed fetch returns no week at all.
func (s *ScheduleService) GetWeek(ctx context.Context, start string) (*models.WeekSchedule, error) {
	now := s.now()
	reference := now

	if strings.TrimSpace(start) != "" {
		key, err := s.normalizer.Normalize(start)
		if err != nil {
			return nil, err
		}
		reference, err = s.normalizer.StartOfDay(key)
		if err != nil {
			return nil, err
		}
	}

	walks, err := s.walkRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("walk'lar alınamadı: %w", err)
	}

	return s.builder.Schedule(reference, walks, now), nil
}
