package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client müşteri ve güncel bakiyesi. Balance is the amount the client owes.
type Client struct {
	ID              int             `json:"id" db:"id"`
	UserID          int             `json:"userId" db:"user_id"`
	Name            string          `json:"name" db:"name"`
	Email           string          `json:"email" db:"email"`
	Balance         decimal.Decimal `json:"balance" db:"balance"`
	LastPaymentDate *time.Time      `json:"lastPaymentDate,omitempty" db:"last_payment_date"`
}

// LedgerReason bakiye değişiminin sebebi
type LedgerReason string

const (
	LedgerWalkCharge LedgerReason = "walk_charge"
	LedgerPayment    LedgerReason = "payment"
)

// LedgerEntry one balance change. There is at most one walk_charge entry per walk.
type LedgerEntry struct {
	ID           int             `json:"id" db:"id"`
	ClientID     int             `json:"clientId" db:"client_id"`
	WalkID       *int            `json:"walkId,omitempty" db:"walk_id"`
	PaymentID    *int            `json:"paymentId,omitempty" db:"payment_id"`
	ChangeAmount decimal.Decimal `json:"changeAmount" db:"change_amount"` // +charge / -payment
	Reason       LedgerReason    `json:"reason" db:"reason"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

// CreditResult bir walk ücretinin bakiyeye yazılma sonucu
type CreditResult struct {
	Client   *Client
	Credited bool // false when the walk was already credited earlier
}
