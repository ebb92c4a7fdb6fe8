package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/models"
)

var (
	_ interfaces.WalkRepositoryInterface   = (*MemoryWalkRepository)(nil)
	_ interfaces.ClientRepositoryInterface = (*MemoryClientRepository)(nil)
)

// MemoryStore in-memory walks, clients and ledger for development and tests.
// Values are cloned on the way in and out.
type MemoryStore struct {
	mu       sync.RWMutex
	walks    map[int]*models.Walk
	clients  map[int]*models.Client
	payments map[string]*models.Payment // by external id
	ledger   []*models.LedgerEntry
	charged  map[int]bool // walk ids with a walk_charge entry

	nextWalkID    int
	nextClientID  int
	nextPaymentID int
	nextLedgerID  int

	clientLocks sync.Map // client id -> *sync.Mutex
	now         func() time.Time
}

// NewMemoryStore boş store oluşturur
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		walks:    make(map[int]*models.Walk),
		clients:  make(map[int]*models.Client),
		payments: make(map[string]*models.Payment),
		charged:  make(map[int]bool),
		now:      time.Now,
	}
}

// Walks walk repository görünümü
func (s *MemoryStore) Walks() *MemoryWalkRepository {
	return &MemoryWalkRepository{store: s}
}

// Clients client repository görünümü
func (s *MemoryStore) Clients() *MemoryClientRepository {
	return &MemoryClientRepository{store: s}
}

// AddClient müşteri ekler; ID 0 ise otomatik atanır
func (s *MemoryStore) AddClient(c models.Client) *models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == 0 {
		s.nextClientID++
		c.ID = s.nextClientID
	} else if c.ID > s.nextClientID {
		s.nextClientID = c.ID
	}
	stored := c
	s.clients[c.ID] = &stored
	out := stored
	return &out
}

// AddWalk walk'u olduğu gibi ekler (status ve isBalanceApplied dahil)
func (s *MemoryStore) AddWalk(w models.Walk) *models.Walk {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertWalk(&w)
}

func (s *MemoryStore) insertWalk(w *models.Walk) *models.Walk {
	stored := w.Clone()
	if stored.ID == 0 {
		s.nextWalkID++
		stored.ID = s.nextWalkID
	} else if stored.ID > s.nextWalkID {
		s.nextWalkID = stored.ID
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now()
	}
	s.walks[stored.ID] = stored
	return stored.Clone()
}

func (s *MemoryStore) clientLock(clientID int) *sync.Mutex {
	m, _ := s.clientLocks.LoadOrStore(clientID, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// MemoryWalkRepository WalkRepositoryInterface'in bellek içi hali
type MemoryWalkRepository struct {
	store *MemoryStore
}

func (r *MemoryWalkRepository) list(match func(*models.Walk) bool, byDate bool) []*models.Walk {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Walk, 0)
	for _, w := range s.walks {
		if match(w) {
			out = append(out, w.Clone())
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if byDate && out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *MemoryWalkRepository) ListAll(ctx context.Context) ([]*models.Walk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.list(func(*models.Walk) bool { return true }, true), nil
}

func (r *MemoryWalkRepository) ListByClient(ctx context.Context, clientID int) ([]*models.Walk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.list(func(w *models.Walk) bool { return w.ClientID == clientID }, true), nil
}

func (r *MemoryWalkRepository) ListBillable(ctx context.Context) ([]*models.Walk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.list(func(w *models.Walk) bool { return w.Billable() }, false), nil
}

func (r *MemoryWalkRepository) ListClaimedUncredited(ctx context.Context) ([]*models.Walk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	charged := r.store.charged
	return r.list(func(w *models.Walk) bool {
		return w.IsBalanceApplied && w.BillingAmount != nil && !charged[w.ID]
	}, false), nil
}

func (r *MemoryWalkRepository) ClaimForBilling(ctx context.Context, walkID int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.walks[walkID]
	if !ok {
		return false, models.ErrWalkNotFound
	}
	if w.IsBalanceApplied {
		return false, nil
	}
	w.IsBalanceApplied = true
	return true, nil
}

func (r *MemoryWalkRepository) Create(ctx context.Context, walk *models.Walk) (*models.Walk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	w := walk.Clone()
	w.ID = 0
	w.CreatedAt = time.Time{}
	return s.insertWalk(w), nil
}

func (r *MemoryWalkRepository) GetByID(ctx context.Context, id int) (*models.Walk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.walks[id]
	if !ok {
		return nil, models.ErrWalkNotFound
	}
	return w.Clone(), nil
}

func (r *MemoryWalkRepository) UpdateStatus(ctx context.Context, id int, from, next models.WalkStatus) (*models.Walk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.walks[id]
	if !ok {
		return nil, models.ErrWalkNotFound
	}
	if w.Status != from {
		return nil, models.ErrInvalidTransition
	}
	w.Status = next
	return w.Clone(), nil
}

func (r *MemoryWalkRepository) CompleteScheduled(ctx context.Context, limit int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	scheduled := make([]*models.Walk, 0)
	for _, w := range s.walks {
		if w.Status == models.WalkScheduled {
			scheduled = append(scheduled, w)
		}
	}
	sort.Slice(scheduled, func(i, j int) bool {
		if scheduled[i].Date != scheduled[j].Date {
			return scheduled[i].Date < scheduled[j].Date
		}
		return scheduled[i].ID < scheduled[j].ID
	})
	if len(scheduled) > limit {
		scheduled = scheduled[:limit]
	}

	ids := make([]int, 0, len(scheduled))
	for _, w := range scheduled {
		w.Status = models.WalkCompleted
		ids = append(ids, w.ID)
	}
	sort.Ints(ids)
	return ids, nil
}

// MemoryClientRepository ClientRepositoryInterface'in bellek içi hali
type MemoryClientRepository struct {
	store *MemoryStore
}

func (r *MemoryClientRepository) GetByID(ctx context.Context, id int) (*models.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, models.ErrClientNotFound
	}
	out := *c
	return &out, nil
}

func (r *MemoryClientRepository) CreditWalk(ctx context.Context, clientID, walkID int, amount decimal.Decimal) (*models.CreditResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store

	lock := s.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[clientID]
	if !ok {
		return nil, models.ErrClientNotFound
	}
	if s.charged[walkID] {
		out := *c
		return &models.CreditResult{Client: &out, Credited: false}, nil
	}

	c.Balance = c.Balance.Add(amount)
	s.charged[walkID] = true
	id := walkID
	s.appendLedger(&models.LedgerEntry{
		ClientID:     clientID,
		WalkID:       &id,
		ChangeAmount: amount,
		Reason:       models.LedgerWalkCharge,
	})

	out := *c
	return &models.CreditResult{Client: &out, Credited: true}, nil
}

func (r *MemoryClientRepository) ApplyPayment(ctx context.Context, payment *models.Payment) (*models.Payment, *models.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s := r.store

	lock := s.clientLock(payment.ClientID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[payment.ClientID]
	if !ok {
		return nil, nil, models.ErrClientNotFound
	}
	if _, dup := s.payments[payment.ExternalID]; dup {
		return nil, nil, models.ErrDuplicatePayment
	}

	s.nextPaymentID++
	saved := *payment
	saved.ID = s.nextPaymentID
	saved.CreatedAt = s.now()
	s.payments[saved.ExternalID] = &saved

	c.Balance = c.Balance.Sub(payment.Amount)
	if c.LastPaymentDate == nil || payment.PaidAt.After(*c.LastPaymentDate) {
		paidAt := payment.PaidAt
		c.LastPaymentDate = &paidAt
	}

	paymentID := saved.ID
	s.appendLedger(&models.LedgerEntry{
		ClientID:     payment.ClientID,
		PaymentID:    &paymentID,
		ChangeAmount: payment.Amount.Neg(),
		Reason:       models.LedgerPayment,
	})

	outPayment := saved
	outClient := *c
	return &outPayment, &outClient, nil
}

func (r *MemoryClientRepository) ListLedger(ctx context.Context, clientID int, limit, offset int) ([]*models.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	// newest first
	out := make([]*models.LedgerEntry, 0)
	for i := len(s.ledger) - 1; i >= 0; i-- {
		if s.ledger[i].ClientID == clientID {
			e := *s.ledger[i]
			out = append(out, &e)
		}
	}

	if offset >= len(out) {
		return []*models.LedgerEntry{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// appendLedger caller holds s.mu
func (s *MemoryStore) appendLedger(e *models.LedgerEntry) {
	s.nextLedgerID++
	e.ID = s.nextLedgerID
	e.CreatedAt = s.now()
	s.ledger = append(s.ledger, e)
}
