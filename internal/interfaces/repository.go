// internal/interfaces/repository.go
package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tailwag/walkops/internal/models"
)

// WalkRepositoryInterface walk database işlemleri için interface
type WalkRepositoryInterface interface {
	// ListAll tüm walk'ları getirir
	ListAll(ctx context.Context) ([]*models.Walk, error)

	// ListByClient müşterinin walk'larını getirir
	ListByClient(ctx context.Context, clientID int) ([]*models.Walk, error)

	// ListBillable completed ve henüz bakiyeye yazılmamış walk'lar
	ListBillable(ctx context.Context) ([]*models.Walk, error)

	// ListClaimedUncredited claimed walks with no walk_charge ledger entry
	ListClaimedUncredited(ctx context.Context) ([]*models.Walk, error)

	// ClaimForBilling flips isBalanceApplied false -> true atomically.
	// Returns false when another run claimed the walk first.
	ClaimForBilling(ctx context.Context, walkID int) (bool, error)

	// Create yeni walk oluşturur
	Create(ctx context.Context, walk *models.Walk) (*models.Walk, error)

	// GetByID ID ile walk getirir
	GetByID(ctx context.Context, id int) (*models.Walk, error)

	// UpdateStatus moves the walk to next only while it is still in from.
	UpdateStatus(ctx context.Context, id int, from, next models.WalkStatus) (*models.Walk, error)

	// CompleteScheduled earliest scheduled walks -> completed, returns their ids
	CompleteScheduled(ctx context.Context, limit int) ([]int, error)
}

// ClientRepositoryInterface müşteri ve bakiye database işlemleri için interface
type ClientRepositoryInterface interface {
	// GetByID ID ile müşteri getirir
	GetByID(ctx context.Context, id int) (*models.Client, error)

	// CreditWalk adds amount to the balance and records the walk_charge entry
	// in one step. A walk that was already credited is a no-op.
	CreditWalk(ctx context.Context, clientID, walkID int, amount decimal.Decimal) (*models.CreditResult, error)

	// ApplyPayment stores the payment and subtracts it from the balance.
	ApplyPayment(ctx context.Context, payment *models.Payment) (*models.Payment, *models.Client, error)

	// ListLedger müşterinin bakiye hareketlerini getirir
	ListLedger(ctx context.Context, clientID int, limit, offset int) ([]*models.LedgerEntry, error)
}
