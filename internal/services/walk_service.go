package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/models"
)

var _ interfaces.WalkServiceInterface = (*WalkService)(nil)

// WalkService walk oluşturma, listeleme ve status geçişleri
type WalkService struct {
	walkRepo   interfaces.WalkRepositoryInterface
	clientRepo interfaces.ClientRepositoryInterface
	normalizer *dates.Normalizer
}

// NewWalkService yeni service oluşturur
func NewWalkService(walkRepo interfaces.WalkRepositoryInterface, clientRepo interfaces.ClientRepositoryInterface, normalizer *dates.Normalizer) *WalkService {
	return &WalkService{
		walkRepo:   walkRepo,
		clientRepo: clientRepo,
		normalizer: normalizer,
	}
}

// CreateWalk loose kaydı normalize eder ve scheduled olarak kaydeder
func (s *WalkService) CreateWalk(ctx context.Context, record *models.WalkRecord) (*models.Walk, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: empty record", models.ErrInvalidWalk)
	}

	walk, err := record.ToWalk()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidWalk, err)
	}

	walk.Date, err = s.normalizer.Normalize(walk.Date)
	if err != nil {
		return nil, err
	}
	if walk.BillingAmount != nil && walk.BillingAmount.IsNegative() {
		return nil, fmt.Errorf("%w: billing amount cannot be negative", models.ErrInvalidAmount)
	}

	// yeni walk her zaman scheduled başlar
	walk.ID = 0
	walk.Status = models.WalkScheduled
	walk.IsBalanceApplied = false
	walk.IsPaid = false

	if _, err := s.clientRepo.GetByID(ctx, walk.ClientID); err != nil {
		return nil, err
	}

	created, err := s.walkRepo.Create(ctx, walk)
	if err != nil {
		return nil, fmt.Errorf("walk oluşturulamadı: %w", err)
	}

	log.Info().
		Int("walk_id", created.ID).
		Int("client_id", created.ClientID).
		Str("date", created.Date).
		Msg("🐕 Walk oluşturuldu")

	return created, nil
}

// ListWalks nil clientID tüm walk'ları döner
func (s *WalkService) ListWalks(ctx context.Context, clientID *int) ([]*models.Walk, error) {
	if clientID == nil {
		return s.walkRepo.ListAll(ctx)
	}
	return s.walkRepo.ListByClient(ctx, *clientID)
}

// UpdateStatus only scheduled -> completed and scheduled -> cancelled are allowed.
func (s *WalkService) UpdateStatus(ctx context.Context, id int, status models.WalkStatus) (*models.Walk, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidTransition, status)
	}

	current, err := s.walkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.walkRepo.UpdateStatus(ctx, id, current.Status, status)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("walk_id", id).
		Str("from", string(current.Status)).
		Str("to", string(status)).
		Msg("🔁 Walk status güncellendi")

	return updated, nil
}
