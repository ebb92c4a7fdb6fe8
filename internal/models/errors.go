package models

import "errors"

var (
	ErrClientNotFound       = errors.New("client not found")
	ErrWalkNotFound         = errors.New("walk not found")
	ErrMissingBillingAmount = errors.New("walk has no billing amount")
	ErrInvalidTransition    = errors.New("invalid walk status transition")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrDuplicatePayment     = errors.New("payment already recorded")
	ErrInvalidWalk          = errors.New("invalid walk")
)
