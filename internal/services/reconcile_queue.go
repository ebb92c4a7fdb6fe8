package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/models"
)

// ReconcileJob queue'da işlenecek walk
type ReconcileJob struct {
	Walk       *models.Walk
	Recovery   bool // claimed earlier, only the credit step is left
	ResultChan chan ReconcileOutcome
}

// ReconcileOutcome tek bir walk'un sonucu. Exactly one of Applied, Skip, Fail is set.
type ReconcileOutcome struct {
	WalkID   int
	Recovery bool
	Applied  bool
	Skip     *models.SkippedWalk
	Fail     *models.FailedWalk
}

// ReconcileFunc bir job'ı işleyen fonksiyon
type ReconcileFunc func(ctx context.Context, job ReconcileJob) ReconcileOutcome

// ReconcileQueue worker pool for one reconciliation run. Jobs are sharded by
// client id, so one client's walks are handled in order by a single worker.
type ReconcileQueue struct {
	shards     []chan ReconcileJob
	workers    int
	bufferSize int
	wg         sync.WaitGroup
	process    ReconcileFunc
}

// NewReconcileQueue yeni queue oluşturur
func NewReconcileQueue(workers, bufferSize int, process ReconcileFunc) *ReconcileQueue {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}

	shards := make([]chan ReconcileJob, workers)
	for i := range shards {
		shards[i] = make(chan ReconcileJob, bufferSize)
	}

	return &ReconcileQueue{
		shards:     shards,
		workers:    workers,
		bufferSize: bufferSize,
		process:    process,
	}
}

// Start worker'ları başlatır
func (q *ReconcileQueue) Start(ctx context.Context) {
	log.Debug().
		Int("workers", q.workers).
		Int("buffer_size", q.bufferSize).
		Msg("🔄 Reconcile queue başlatıldı")

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Stop queue'yu kapatır ve worker'ların bitmesini bekler
func (q *ReconcileQueue) Stop() {
	for _, shard := range q.shards {
		close(shard)
	}
	q.wg.Wait()
	log.Debug().Msg("⏹️ Reconcile queue durduruldu")
}

func (q *ReconcileQueue) worker(ctx context.Context, id int) {
	defer q.wg.Done()

	for job := range q.shards[id] {
		job.ResultChan <- q.safeProcess(ctx, id, job)
		close(job.ResultChan)
	}
}

// safeProcess panic olursa walk'u failed olarak raporlar, worker devam eder
func (q *ReconcileQueue) safeProcess(ctx context.Context, workerID int, job ReconcileJob) (outcome ReconcileOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("recover", r).
				Int("worker_id", workerID).
				Int("walk_id", job.Walk.ID).
				Msg("🚨 Reconcile worker panikledi ama toparlandı")

			reason := models.FailCredit
			if !job.Recovery {
				reason = models.FailClaim
			}
			outcome = ReconcileOutcome{
				WalkID:   job.Walk.ID,
				Recovery: job.Recovery,
				Fail:     &models.FailedWalk{WalkID: job.Walk.ID, Reason: reason, Error: "internal error"},
			}
		}
	}()

	return q.process(ctx, job)
}

// AddJob walk'u müşterisinin shard'ına ekler. Blocks while the shard is full;
// a cancelled ctx yields a failed outcome instead.
func (q *ReconcileQueue) AddJob(ctx context.Context, walk *models.Walk, recovery bool) <-chan ReconcileOutcome {
	resultChan := make(chan ReconcileOutcome, 1)

	job := ReconcileJob{
		Walk:       walk,
		Recovery:   recovery,
		ResultChan: resultChan,
	}

	select {
	case q.shards[q.shardFor(walk.ClientID)] <- job:
	case <-ctx.Done():
		resultChan <- ReconcileOutcome{
			WalkID:   walk.ID,
			Recovery: recovery,
			Fail:     &models.FailedWalk{WalkID: walk.ID, Reason: models.FailCanceled, Error: ctx.Err().Error()},
		}
		close(resultChan)
	}

	return resultChan
}

func (q *ReconcileQueue) shardFor(clientID int) int {
	if clientID < 0 {
		clientID = -clientID
	}
	return clientID % q.workers
}
