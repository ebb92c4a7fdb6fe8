package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/middleware"
	"github.com/tailwag/walkops/internal/models"
)

// WalkHandler walk HTTP isteklerini yönetir
type WalkHandler struct {
	walkService interfaces.WalkServiceInterface
}

func NewWalkHandler(walkService interfaces.WalkServiceInterface) *WalkHandler {
	return &WalkHandler{walkService: walkService}
}

// ListWalks GET /api/v1/walks?client_id=
func (h *WalkHandler) ListWalks(w http.ResponseWriter, r *http.Request) {
	var clientID *int
	if r.URL.Query().Get("client_id") != "" {
		id, err := queryInt(r, "client_id", 0)
		if err != nil || id <= 0 {
			middleware.WriteError(w, r, http.StatusBadRequest, "client_id must be a positive integer", nil)
			return
		}
		clientID = &id
	}

	walks, err := h.walkService.ListWalks(r.Context(), clientID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"walks": walks,
		"count": len(walks),
	}, "Walk listesi getirildi")
}

// CreateWalk POST /api/v1/walks. Gövde loose formatta olabilir (string id, "$45" amount).
func (h *WalkHandler) CreateWalk(w http.ResponseWriter, r *http.Request) {
	var record models.WalkRecord
	if err := decodeJSON(w, r, &record); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}

	walk, err := h.walkService.CreateWalk(r.Context(), &record)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, walk, "Walk oluşturuldu")

	log.Info().
		Int("walk_id", walk.ID).
		Int("client_id", walk.ClientID).
		Str("date", walk.Date).
		Msg("🐕 Walk oluşturuldu")
}

type statusRequest struct {
	Status models.WalkStatus `json:"status"`
}

// UpdateStatus PATCH /api/v1/walks/{id}/status
func (h *WalkHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid walk id", nil)
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Status == "" {
		middleware.WriteError(w, r, http.StatusBadRequest, "body must be {\"status\": \"...\"}", nil)
		return
	}

	walk, err := h.walkService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, walk, "Walk durumu güncellendi")

	log.Info().
		Int("walk_id", walk.ID).
		Str("status", string(walk.Status)).
		Msg("Walk status updated")
}
