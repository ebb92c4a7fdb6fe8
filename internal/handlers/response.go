package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/middleware"
	"github.com/tailwag/walkops/internal/middleware/validation"
	"github.com/tailwag/walkops/internal/models"
)

const maxBodyBytes = validation.DefaultMaxBodySize

// writeSuccess standart {"success","data","message"} cevabı
func writeSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
		"message": message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("❌ Response encode edilemedi")
	}
}

// writeServiceError service hatasını HTTP status'a çevirir
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("İşlem başarısız")
	}
	middleware.WriteError(w, r, status, message, nil)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, dates.ErrInvalidDate),
		errors.Is(err, models.ErrInvalidWalk),
		errors.Is(err, models.ErrInvalidAmount):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrClientNotFound),
		errors.Is(err, models.ErrWalkNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrDuplicatePayment):
		return http.StatusConflict, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request timed out"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// pathID route'daki {id} parametresini pozitif int olarak okur
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt opsiyonel int query parametresi; boşsa def döner
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
