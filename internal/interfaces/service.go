// internal/interfaces/service.go
package interfaces

import (
	"context"
	"io"

	"github.com/tailwag/walkops/internal/models"
)

// ScheduleServiceInterface haftalık takvim business logic için interface
type ScheduleServiceInterface interface {
	// GetWeek start gününden başlayan 7 günlük görünüm. Empty start means today.
	GetWeek(ctx context.Context, start string) (*models.WeekSchedule, error)
}

// ReconciliationServiceInterface bakiye uzlaştırma için interface
type ReconciliationServiceInterface interface {
	// ApplyCompletedWalks completed walk ücretlerini bakiyelere bir kez yazar
	ApplyCompletedWalks(ctx context.Context) (*models.ReconcileResult, error)

	// CompleteTestWalks en eski scheduled walk'ları completed yapar
	CompleteTestWalks(ctx context.Context, limit int) (*models.CompleteResult, error)
}

// InvoiceServiceInterface fatura business logic için interface
type InvoiceServiceInterface interface {
	// CompileInvoice müşterinin faturasını derler
	CompileInvoice(ctx context.Context, clientID int) (*models.InvoiceDocument, error)

	// WritePDF faturayı PDF olarak w'ya yazar
	WritePDF(doc *models.InvoiceDocument, w io.Writer) error

	// SavePDF faturayı PDF dosyasına kaydeder
	SavePDF(doc *models.InvoiceDocument, path string) error
}

// PaymentServiceInterface ödeme ve bakiye okuma için interface
type PaymentServiceInterface interface {
	// RecordPayment ödemeyi kaydeder ve bakiyeden düşer
	RecordPayment(ctx context.Context, clientID int, req *models.PaymentRequest) (*models.PaymentResponse, error)

	// GetClient müşteri ve bakiyesini getirir
	GetClient(ctx context.Context, clientID int) (*models.Client, error)

	// GetLedger müşterinin bakiye hareketleri
	GetLedger(ctx context.Context, clientID int, limit, offset int) ([]*models.LedgerEntry, error)
}

// WalkServiceInterface walk business logic için interface
type WalkServiceInterface interface {
	// CreateWalk loose kaydı normalize edip scheduled walk oluşturur
	CreateWalk(ctx context.Context, record *models.WalkRecord) (*models.Walk, error)

	// ListWalks nil clientID means every walk
	ListWalks(ctx context.Context, clientID *int) ([]*models.Walk, error)

	// UpdateStatus lifecycle kurallarına göre status değiştirir
	UpdateStatus(ctx context.Context, id int, status models.WalkStatus) (*models.Walk, error)
}
