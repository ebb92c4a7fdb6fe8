package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/interfaces"
)

// ScheduleHandler haftalık takvim endpoint'i
type ScheduleHandler struct {
	scheduleService interfaces.ScheduleServiceInterface
}

func NewScheduleHandler(scheduleService interfaces.ScheduleServiceInterface) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// GetWeek GET /api/v1/schedule/week?start=YYYY-MM-DD
func (h *ScheduleHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")

	week, err := h.scheduleService.GetWeek(r.Context(), start)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, week, "Haftalık takvim getirildi")

	log.Debug().Str("start", week.StartDate).Msg("Week schedule served")
}
