package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// WalkRecord is the loose shape walks arrive in from the front-end or imports:
// ids and amounts may be numbers or strings, optional fields may be null.
type WalkRecord struct {
	ID               json.RawMessage `json:"id"`
	ClientID         json.RawMessage `json:"clientId"`
	WalkerID         json.RawMessage `json:"walkerId"`
	PetID            json.RawMessage `json:"petId"`
	Date             string          `json:"date"`
	TimeSlot         string          `json:"timeSlot"`
	Duration         json.RawMessage `json:"duration"`
	Status           string          `json:"status"`
	BillingAmount    json.RawMessage `json:"billingAmount"`
	IsPaid           bool            `json:"isPaid"`
	IsBalanceApplied bool            `json:"isBalanceApplied"`
	WalkerName       string          `json:"walkerName"`
	WalkerColor      string          `json:"walkerColor"`
}

// ToWalk kaydı strict Walk tipine çevirir.
// Date is copied as-is; callers normalize it with a dates.Normalizer.
func (r *WalkRecord) ToWalk() (*Walk, error) {
	id, _, err := parseLooseInt(r.ID)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}

	clientID, ok, err := parseLooseInt(r.ClientID)
	if err != nil || !ok {
		return nil, fmt.Errorf("clientId is required")
	}

	petID, _, err := parseLooseInt(r.PetID)
	if err != nil {
		return nil, fmt.Errorf("petId: %w", err)
	}

	var walkerID *int
	if v, ok, err := parseLooseInt(r.WalkerID); err != nil {
		return nil, fmt.Errorf("walkerId: %w", err)
	} else if ok {
		walkerID = &v
	}

	duration, err := parseLooseDuration(r.Duration)
	if err != nil {
		return nil, err
	}

	status := WalkStatus(strings.ToLower(strings.TrimSpace(r.Status)))
	if status == "" {
		status = WalkScheduled
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", r.Status)
	}

	return &Walk{
		ID:               id,
		ClientID:         clientID,
		WalkerID:         walkerID,
		PetID:            petID,
		Date:             strings.TrimSpace(r.Date),
		TimeSlot:         strings.TrimSpace(r.TimeSlot),
		Duration:         duration,
		Status:           status,
		BillingAmount:    ParseLooseAmount(r.BillingAmount),
		IsPaid:           r.IsPaid,
		IsBalanceApplied: r.IsBalanceApplied,
		WalkerName:       strings.TrimSpace(r.WalkerName),
		WalkerColor:      strings.TrimSpace(r.WalkerColor),
	}, nil
}

// ParseLooseAmount accepts 25, 25.5, "25.00" or "$25.00".
// Absent, null or unparseable values yield nil.
func ParseLooseAmount(raw json.RawMessage) *decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
	} else {
		s = string(raw)
	}

	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &amount
}

// parseLooseInt returns (value, present, error).
func parseLooseInt(raw json.RawMessage) (int, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false, nil
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false, nil
		}
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("not an integer: %s", s)
	}
	return v, true, nil
}

func parseLooseDuration(raw json.RawMessage) (WalkDuration, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return WalkDuration{}, fmt.Errorf("duration is required")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return WalkDuration{}, err
		}
		return ParseWalkDuration(s)
	}
	return ParseWalkDuration(string(raw))
}
