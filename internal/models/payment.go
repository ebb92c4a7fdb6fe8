package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment müşterinin yaptığı ödeme
type Payment struct {
	ID         int             `json:"id" db:"id"`
	ClientID   int             `json:"clientId" db:"client_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Method     string          `json:"method" db:"method"`
	ExternalID string          `json:"externalId" db:"external_id"` // payment intent id, unique
	PaidAt     time.Time       `json:"paidAt" db:"paid_at"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// PaymentRequest ödeme kaydetme isteği
type PaymentRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	ExternalID string          `json:"externalId"`
	PaidAt     *time.Time      `json:"paidAt"`
}

// PaymentResponse ödeme sonrası yanıt
type PaymentResponse struct {
	Payment    *Payment        `json:"payment"`
	NewBalance decimal.Decimal `json:"newBalance"`
}
