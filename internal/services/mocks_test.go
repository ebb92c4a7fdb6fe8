package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/models"
)

// MockWalkRepository, WalkRepositoryInterface için sahte (mock) bir yapıdır.
type MockWalkRepository struct {
	mock.Mock
}

var _ interfaces.WalkRepositoryInterface = (*MockWalkRepository)(nil)

func (m *MockWalkRepository) walks(args mock.Arguments) ([]*models.Walk, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Walk), args.Error(1)
}

func (m *MockWalkRepository) walk(args mock.Arguments) (*models.Walk, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Walk), args.Error(1)
}

func (m *MockWalkRepository) ListAll(ctx context.Context) ([]*models.Walk, error) {
	return m.walks(m.Called(ctx))
}

func (m *MockWalkRepository) ListByClient(ctx context.Context, clientID int) ([]*models.Walk, error) {
	return m.walks(m.Called(ctx, clientID))
}

func (m *MockWalkRepository) ListBillable(ctx context.Context) ([]*models.Walk, error) {
	return m.walks(m.Called(ctx))
}

func (m *MockWalkRepository) ListClaimedUncredited(ctx context.Context) ([]*models.Walk, error) {
	return m.walks(m.Called(ctx))
}

func (m *MockWalkRepository) ClaimForBilling(ctx context.Context, walkID int) (bool, error) {
	args := m.Called(ctx, walkID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalkRepository) Create(ctx context.Context, walk *models.Walk) (*models.Walk, error) {
	return m.walk(m.Called(ctx, walk))
}

func (m *MockWalkRepository) GetByID(ctx context.Context, id int) (*models.Walk, error) {
	return m.walk(m.Called(ctx, id))
}

func (m *MockWalkRepository) UpdateStatus(ctx context.Context, id int, from, next models.WalkStatus) (*models.Walk, error) {
	return m.walk(m.Called(ctx, id, from, next))
}

func (m *MockWalkRepository) CompleteScheduled(ctx context.Context, limit int) ([]int, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

// MockClientRepository, ClientRepositoryInterface için sahte (mock) bir yapıdır.
type MockClientRepository struct {
	mock.Mock
}

var _ interfaces.ClientRepositoryInterface = (*MockClientRepository)(nil)

func (m *MockClientRepository) GetByID(ctx context.Context, id int) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) CreditWalk(ctx context.Context, clientID, walkID int, amount decimal.Decimal) (*models.CreditResult, error) {
	args := m.Called(ctx, clientID, walkID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreditResult), args.Error(1)
}

func (m *MockClientRepository) ApplyPayment(ctx context.Context, payment *models.Payment) (*models.Payment, *models.Client, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Payment), args.Get(1).(*models.Client), args.Error(2)
}

func (m *MockClientRepository) ListLedger(ctx context.Context, clientID int, limit, offset int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}
