package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/middleware"
	"github.com/tailwag/walkops/internal/services"
)

// BillingHandler admin billing işlemleri
type BillingHandler struct {
	reconciliationService interfaces.ReconciliationServiceInterface
}

func NewBillingHandler(reconciliationService interfaces.ReconciliationServiceInterface) *BillingHandler {
	return &BillingHandler{reconciliationService: reconciliationService}
}

// Reconcile POST /api/v1/billing/reconcile
func (h *BillingHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconciliationService.ApplyCompletedWalks(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())
	event := log.Info().
		Int("applied", result.AppliedCount).
		Int("recovered", result.RecoveredCount).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed))
	if claims != nil {
		event = event.Int("admin_id", claims.UserID)
	}
	event.Msg("💰 Reconciliation tamamlandı")

	writeSuccess(w, http.StatusOK, result, "Bakiye uzlaştırması tamamlandı")
}

// CompleteTestWalks POST /api/v1/maintenance/complete-test-walks?limit=
func (h *BillingHandler) CompleteTestWalks(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", services.DefaultCompleteLimit)
	if err != nil || limit <= 0 {
		middleware.WriteError(w, r, http.StatusBadRequest, "limit must be a positive integer", nil)
		return
	}

	result, err := h.reconciliationService.CompleteTestWalks(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, "Test walk'ları tamamlandı")
}
