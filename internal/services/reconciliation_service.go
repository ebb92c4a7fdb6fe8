package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/metrics"
	"github.com/tailwag/walkops/internal/models"
)

const (
	DefaultCompleteLimit = 5
	MaxCompleteLimit     = 50
)

var _ interfaces.ReconciliationServiceInterface = (*ReconciliationService)(nil)

// ReconciliationService completed walk ücretlerini müşteri bakiyelerine uygular
type ReconciliationService struct {
	walkRepo   interfaces.WalkRepositoryInterface
	clientRepo interfaces.ClientRepositoryInterface
	workers    int
}

// NewReconciliationService yeni service oluşturur
func NewReconciliationService(walkRepo interfaces.WalkRepositoryInterface, clientRepo interfaces.ClientRepositoryInterface, workers int) *ReconciliationService {
	if workers <= 0 {
		workers = 1
	}
	return &ReconciliationService{
		walkRepo:   walkRepo,
		clientRepo: clientRepo,
		workers:    workers,
	}
}

// ApplyCompletedWalks credits every completed, unapplied walk exactly once.
// Per-walk problems are reported in the result; only a failed fetch is an error.
func (s *ReconciliationService) ApplyCompletedWalks(ctx context.Context) (*models.ReconcileResult, error) {
	started := time.Now()
	defer func() {
		metrics.ReconcileDuration.Observe(time.Since(started).Seconds())
	}()

	// fetch phase: nothing is mutated before both lists are in hand
	recovery, err := s.walkRepo.ListClaimedUncredited(ctx)
	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("fetch_error").Inc()
		return nil, fmt.Errorf("claimed walk'lar alınamadı: %w", err)
	}
	billable, err := s.walkRepo.ListBillable(ctx)
	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("fetch_error").Inc()
		return nil, fmt.Errorf("billable walk'lar alınamadı: %w", err)
	}

	log.Info().
		Int("billable", len(billable)).
		Int("recovery", len(recovery)).
		Int("workers", s.workers).
		Msg("💼 Reconciliation başladı")

	queue := NewReconcileQueue(s.workers, len(recovery)+len(billable), s.process)
	queue.Start(ctx)

	pending := make([]<-chan ReconcileOutcome, 0, len(recovery)+len(billable))
	for _, w := range recovery {
		pending = append(pending, queue.AddJob(ctx, w, true))
	}
	for _, w := range billable {
		pending = append(pending, queue.AddJob(ctx, w, false))
	}

	result := &models.ReconcileResult{
		AppliedWalkIDs: make([]int, 0),
		Skipped:        make([]models.SkippedWalk, 0),
		Failed:         make([]models.FailedWalk, 0),
	}
	for _, ch := range pending {
		collect(result, <-ch)
	}
	queue.Stop()

	sort.Ints(result.AppliedWalkIDs)
	sort.Slice(result.Skipped, func(i, j int) bool { return result.Skipped[i].WalkID < result.Skipped[j].WalkID })
	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].WalkID < result.Failed[j].WalkID })

	metrics.ReconcileRuns.WithLabelValues("ok").Inc()
	log.Info().
		Int("applied", result.AppliedCount).
		Int("recovered", result.RecoveredCount).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Dur("duration", time.Since(started)).
		Msg("✅ Reconciliation tamamlandı")

	return result, nil
}

func collect(result *models.ReconcileResult, o ReconcileOutcome) {
	switch {
	case o.Applied && o.Recovery:
		result.RecoveredCount++
		result.AppliedWalkIDs = append(result.AppliedWalkIDs, o.WalkID)
		metrics.ReconcileWalks.WithLabelValues("recovered").Inc()
	case o.Applied:
		result.AppliedCount++
		result.AppliedWalkIDs = append(result.AppliedWalkIDs, o.WalkID)
		metrics.ReconcileWalks.WithLabelValues("applied").Inc()
	case o.Skip != nil:
		result.Skipped = append(result.Skipped, *o.Skip)
		metrics.ReconcileWalks.WithLabelValues("skipped:" + string(o.Skip.Reason)).Inc()
	case o.Fail != nil:
		result.Failed = append(result.Failed, *o.Fail)
		metrics.ReconcileWalks.WithLabelValues("failed:" + o.Fail.Reason).Inc()
	}
}

func skipped(job ReconcileJob, reason models.SkipReason) ReconcileOutcome {
	return ReconcileOutcome{
		WalkID:   job.Walk.ID,
		Recovery: job.Recovery,
		Skip:     &models.SkippedWalk{WalkID: job.Walk.ID, Reason: reason},
	}
}

func failed(job ReconcileJob, reason string, err error) ReconcileOutcome {
	return ReconcileOutcome{
		WalkID:   job.Walk.ID,
		Recovery: job.Recovery,
		Fail:     &models.FailedWalk{WalkID: job.Walk.ID, Reason: reason, Error: err.Error()},
	}
}

// process runs the per-walk steps: amount check, client lookup, claim, credit.
// Recovery jobs were claimed by an earlier run and go straight to the credit.
func (s *ReconciliationService) process(ctx context.Context, job ReconcileJob) ReconcileOutcome {
	w := job.Walk
	logger := log.With().Int("walk_id", w.ID).Int("client_id", w.ClientID).Logger()

	if w.BillingAmount == nil {
		logger.Warn().Err(models.ErrMissingBillingAmount).Msg("⚠️ Walk atlandı")
		return skipped(job, models.SkipMissingBillingAmount)
	}

	if !job.Recovery {
		if _, err := s.clientRepo.GetByID(ctx, w.ClientID); err != nil {
			if errors.Is(err, models.ErrClientNotFound) {
				logger.Warn().Msg("⚠️ Müşteri bulunamadı, walk atlandı")
				return skipped(job, models.SkipClientNotFound)
			}
			logger.Error().Err(err).Msg("❌ Müşteri okunamadı")
			return failed(job, models.FailClientLookup, err)
		}

		claimed, err := s.walkRepo.ClaimForBilling(ctx, w.ID)
		if err != nil {
			logger.Error().Err(err).Msg("❌ Walk claim edilemedi")
			return failed(job, models.FailClaim, err)
		}
		if !claimed {
			logger.Debug().Msg("Walk başka bir çalışma tarafından claim edildi")
			return skipped(job, models.SkipAlreadyClaimed)
		}
	}

	credit, err := s.clientRepo.CreditWalk(ctx, w.ClientID, w.ID, *w.BillingAmount)
	if err != nil {
		// claim duruyor; sonraki çalışma recovery setinden tekrar dener
		logger.Error().Err(err).Msg("❌ Bakiye güncellenemedi, sonraki çalışmada tekrar denenecek")
		return failed(job, models.FailCredit, err)
	}
	if !credit.Credited {
		return skipped(job, models.SkipAlreadyCredited)
	}

	logger.Debug().
		Str("amount", w.BillingAmount.StringFixed(2)).
		Str("new_balance", credit.Client.Balance.StringFixed(2)).
		Bool("recovery", job.Recovery).
		Msg("💰 Walk ücreti bakiyeye eklendi")

	return ReconcileOutcome{WalkID: w.ID, Recovery: job.Recovery, Applied: true}
}

// CompleteTestWalks marks the earliest scheduled walks completed. It never
// touches balances; the next reconciliation run picks them up.
func (s *ReconciliationService) CompleteTestWalks(ctx context.Context, limit int) (*models.CompleteResult, error) {
	if limit <= 0 {
		limit = DefaultCompleteLimit
	}
	if limit > MaxCompleteLimit {
		limit = MaxCompleteLimit
	}

	ids, err := s.walkRepo.CompleteScheduled(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("test walk'ları tamamlanamadı: %w", err)
	}

	log.Info().Ints("walk_ids", ids).Msg("🧪 Test walk'ları completed yapıldı")

	return &models.CompleteResult{CompletedCount: len(ids), WalkIDs: ids}, nil
}
