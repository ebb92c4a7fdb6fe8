package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/models"
)

var (
	_ interfaces.PaymentServiceInterface = (*PaymentService)(nil)

	// MaxPaymentAmount tek ödemede kabul edilen üst sınır
	MaxPaymentAmount = decimal.NewFromInt(100000)
)

const defaultPaymentMethod = "card"

// PaymentService ödemeler ve bakiye okuma
type PaymentService struct {
	clientRepo interfaces.ClientRepositoryInterface
	now        func() time.Time
}

// NewPaymentService yeni service oluşturur
func NewPaymentService(clientRepo interfaces.ClientRepositoryInterface) *PaymentService {
	return &PaymentService{
		clientRepo: clientRepo,
		now:        time.Now,
	}
}

// ValidateAmount para miktarını doğrular
func (s *PaymentService) ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", models.ErrInvalidAmount)
	}
	if amount.GreaterThan(MaxPaymentAmount) {
		return fmt.Errorf("%w: amount cannot exceed %s", models.ErrInvalidAmount, MaxPaymentAmount.StringFixed(2))
	}
	if !amount.Round(2).Equal(amount) {
		return fmt.Errorf("%w: amount has more than two decimal places", models.ErrInvalidAmount)
	}
	return nil
}

// RecordPayment ödemeyi kaydeder ve müşterinin bakiyesinden düşer
func (s *PaymentService) RecordPayment(ctx context.Context, clientID int, req *models.PaymentRequest) (*models.PaymentResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty payment request", models.ErrInvalidAmount)
	}
	if err := s.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = defaultPaymentMethod
	}
	externalID := strings.TrimSpace(req.ExternalID)
	if externalID == "" {
		externalID = "manual-" + uuid.NewString()
	}
	paidAt := s.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment, client, err := s.clientRepo.ApplyPayment(ctx, &models.Payment{
		ClientID:   clientID,
		Amount:     req.Amount,
		Method:     method,
		ExternalID: externalID,
		PaidAt:     paidAt,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicatePayment) || errors.Is(err, models.ErrClientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("ödeme kaydedilemedi: %w", err)
	}

	log.Info().
		Int("client_id", clientID).
		Int("payment_id", payment.ID).
		Str("external_id", externalID).
		Str("amount", req.Amount.StringFixed(2)).
		Str("new_balance", client.Balance.StringFixed(2)).
		Msg("💳 Ödeme kaydedildi")

	return &models.PaymentResponse{Payment: payment, NewBalance: client.Balance}, nil
}

// GetClient müşteri ve güncel bakiyesini getirir
func (s *PaymentService) GetClient(ctx context.Context, clientID int) (*models.Client, error) {
	return s.clientRepo.GetByID(ctx, clientID)
}

// GetLedger müşterinin bakiye hareketleri
func (s *PaymentService) GetLedger(ctx context.Context, clientID int, limit, offset int) ([]*models.LedgerEntry, error) {
	// Pagination validation
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	entries, err := s.clientRepo.ListLedger(ctx, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("bakiye geçmişi alınamadı: %w", err)
	}
	return entries, nil
}
