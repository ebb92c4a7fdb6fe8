package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/models"
)

type MockScheduleService struct{ mock.Mock }

var _ interfaces.ScheduleServiceInterface = (*MockScheduleService)(nil)

func (m *MockScheduleService) GetWeek(ctx context.Context, start string) (*models.WeekSchedule, error) {
	args := m.Called(ctx, start)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeekSchedule), args.Error(1)
}

type MockWalkService struct{ mock.Mock }

var _ interfaces.WalkServiceInterface = (*MockWalkService)(nil)

func (m *MockWalkService) CreateWalk(ctx context.Context, record *models.WalkRecord) (*models.Walk, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Walk), args.Error(1)
}

func (m *MockWalkService) ListWalks(ctx context.Context, clientID *int) ([]*models.Walk, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Walk), args.Error(1)
}

func (m *MockWalkService) UpdateStatus(ctx context.Context, id int, status models.WalkStatus) (*models.Walk, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Walk), args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

var _ interfaces.PaymentServiceInterface = (*MockPaymentService)(nil)

func (m *MockPaymentService) RecordPayment(ctx context.Context, clientID int, req *models.PaymentRequest) (*models.PaymentResponse, error) {
	args := m.Called(ctx, clientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentResponse), args.Error(1)
}

func (m *MockPaymentService) GetClient(ctx context.Context, clientID int) (*models.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockPaymentService) GetLedger(ctx context.Context, clientID int, limit, offset int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

type MockInvoiceService struct{ mock.Mock }

var _ interfaces.InvoiceServiceInterface = (*MockInvoiceService)(nil)

func (m *MockInvoiceService) CompileInvoice(ctx context.Context, clientID int) (*models.InvoiceDocument, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceDocument), args.Error(1)
}

func (m *MockInvoiceService) WritePDF(doc *models.InvoiceDocument, w io.Writer) error {
	args := m.Called(doc, w)
	if args.Error(0) == nil {
		_, _ = w.Write([]byte("%PDF-1.3 fake"))
	}
	return args.Error(0)
}

func (m *MockInvoiceService) SavePDF(doc *models.InvoiceDocument, path string) error {
	return m.Called(doc, path).Error(0)
}

type MockReconciliationService struct{ mock.Mock }

var _ interfaces.ReconciliationServiceInterface = (*MockReconciliationService)(nil)

func (m *MockReconciliationService) ApplyCompletedWalks(ctx context.Context) (*models.ReconcileResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcileResult), args.Error(1)
}

func (m *MockReconciliationService) CompleteTestWalks(ctx context.Context, limit int) (*models.CompleteResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompleteResult), args.Error(1)
}
