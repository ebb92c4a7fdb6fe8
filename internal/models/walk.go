package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WalkStatus walk'un yaşam döngüsündeki yeri
type WalkStatus string

const (
	WalkScheduled WalkStatus = "scheduled"
	WalkCompleted WalkStatus = "completed"
	WalkCancelled WalkStatus = "cancelled"
)

// Valid bilinen bir status mu kontrol eder
func (s WalkStatus) Valid() bool {
	switch s {
	case WalkScheduled, WalkCompleted, WalkCancelled:
		return true
	}
	return false
}

// CanTransitionTo only scheduled walks move, and only to completed or cancelled.
func (s WalkStatus) CanTransitionTo(next WalkStatus) bool {
	return s == WalkScheduled && (next == WalkCompleted || next == WalkCancelled)
}

const overnightLiteral = "overnight"

// WalkDuration is either a number of minutes or an overnight stay.
type WalkDuration struct {
	Minutes   int
	Overnight bool
}

// ParseWalkDuration "30", "45" veya "overnight" kabul eder
func ParseWalkDuration(s string) (WalkDuration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == overnightLiteral {
		return WalkDuration{Overnight: true}, nil
	}
	s = strings.TrimSuffix(s, "min")
	minutes, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || minutes <= 0 {
		return WalkDuration{}, fmt.Errorf("invalid walk duration %q", s)
	}
	return WalkDuration{Minutes: minutes}, nil
}

func (d WalkDuration) String() string {
	if d.Overnight {
		return overnightLiteral
	}
	return strconv.Itoa(d.Minutes)
}

// Label human readable form used on invoices
func (d WalkDuration) Label() string {
	if d.Overnight {
		return "Overnight"
	}
	return fmt.Sprintf("%d min", d.Minutes)
}

func (d WalkDuration) MarshalJSON() ([]byte, error) {
	if d.Overnight {
		return json.Marshal(overnightLiteral)
	}
	return json.Marshal(d.Minutes)
}

func (d *WalkDuration) UnmarshalJSON(b []byte) error {
	parsed, err := parseLooseDuration(b)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value duration'ı text kolonuna yazar
func (d WalkDuration) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan text kolonundan duration okur
func (d *WalkDuration) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = WalkDuration{}
		return nil
	case []byte:
		parsed, err := ParseWalkDuration(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseWalkDuration(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case int64:
		*d = WalkDuration{Minutes: int(v)}
		return nil
	default:
		return fmt.Errorf("unsupported duration type %T", src)
	}
}

// Walk strict internal walk record
type Walk struct {
	ID               int              `json:"id"`
	ClientID         int              `json:"clientId"`
	WalkerID         *int             `json:"walkerId"`
	PetID            int              `json:"petId"`
	Date             string           `json:"date"` // YYYY-MM-DD
	TimeSlot         string           `json:"timeSlot"`
	Duration         WalkDuration     `json:"duration"`
	Status           WalkStatus       `json:"status"`
	BillingAmount    *decimal.Decimal `json:"billingAmount"`
	IsPaid           bool             `json:"isPaid"`
	IsBalanceApplied bool             `json:"isBalanceApplied"`
	WalkerName       string           `json:"walkerName,omitempty"`
	WalkerColor      string           `json:"walkerColor,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// Clone pointer alanlar dahil derin kopya döner
func (w *Walk) Clone() *Walk {
	c := *w
	if w.WalkerID != nil {
		id := *w.WalkerID
		c.WalkerID = &id
	}
	if w.BillingAmount != nil {
		amount := *w.BillingAmount
		c.BillingAmount = &amount
	}
	return &c
}

// Billable completed and not yet applied to the client balance.
func (w *Walk) Billable() bool {
	return w.Status == WalkCompleted && !w.IsBalanceApplied
}
