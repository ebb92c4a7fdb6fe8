package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/middleware"
)

// Pinger storage bağlantısını kontrol eder (*sql.DB bunu sağlar)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler GET /health. pinger nil ise (memory storage) sadece uptime döner.
func HealthHandler(pinger Pinger, storage string) http.HandlerFunc {
	started := time.Now()

	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := pinger.PingContext(ctx); err != nil {
				log.Error().Err(err).Msg("❌ Health check: database erişilemiyor")
				middleware.WriteError(w, r, http.StatusServiceUnavailable, "database unavailable", map[string]interface{}{
					"storage": storage,
				})
				return
			}
		}

		writeSuccess(w, http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"storage": storage,
			"uptime":  time.Since(started).Round(time.Second).String(),
		}, "Service is healthy")
	}
}
