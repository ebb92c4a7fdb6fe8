package models

// SkipReason why a walk was left out of a reconciliation run
type SkipReason string

const (
	SkipMissingBillingAmount SkipReason = "missing_billing_amount"
	SkipClientNotFound       SkipReason = "client_not_found"
	SkipAlreadyClaimed       SkipReason = "already_claimed"
	SkipAlreadyCredited      SkipReason = "already_credited" // another run credited it first
)

// failure reasons
const (
	FailClientLookup = "client_lookup_failed"
	FailClaim        = "claim_failed"
	FailCredit       = "credit_failed"
	FailCanceled     = "canceled"
)

// SkippedWalk atlanan walk
type SkippedWalk struct {
	WalkID int        `json:"walkId"`
	Reason SkipReason `json:"reason"`
}

// FailedWalk walk that was claimed (or was being claimed) but could not be credited.
// A claimed one is picked up again by the next run.
type FailedWalk struct {
	WalkID int    `json:"walkId"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// ReconcileResult bir reconciliation çalışmasının özeti
type ReconcileResult struct {
	AppliedCount   int           `json:"appliedCount"`
	RecoveredCount int           `json:"recoveredCount"`
	AppliedWalkIDs []int         `json:"appliedWalkIds"`
	Skipped        []SkippedWalk `json:"skipped"`
	Failed         []FailedWalk  `json:"failed"`
}

// CompleteResult test walk'larını tamamlama sonucu
type CompleteResult struct {
	CompletedCount int   `json:"completedCount"`
	WalkIDs        []int `json:"walkIds"`
}
