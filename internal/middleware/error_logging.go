package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/middleware/errors"
	"github.com/tailwag/walkops/internal/utils"
)

// logAPIError panic olarak gelen API error'ları loglar
func logAPIError(err errors.APIError, r *http.Request) {
	logEvent := log.Warn().
		Str("request_id", RequestIDFromContext(r.Context())).
		Str("error_message", err.Error()).
		Int("status_code", err.Status()).
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Str("client_ip", utils.GetClientIP(r))

	switch e := err.(type) {
	case *errors.ValidationError:
		logEvent.Str("category", "validation").
			Str("field", e.Field).
			Interface("value", e.Value).
			Msg("Validation failed")
	default:
		logEvent.Str("category", "api_error").Msg("API error occurred")
	}
}

// logPanic panic'i stack trace ile loglar
func logPanic(info *errors.PanicInfo) {
	log.Error().
		Str("type", "panic").
		Str("request_id", info.RequestID).
		Str("method", info.Method).
		Str("path", info.Path).
		Str("client_ip", info.ClientIP).
		Time("timestamp", info.Timestamp).
		Interface("panic_value", info.Value).
		Str("stack_trace", info.Stack).
		Msg("🚨 Server panic recovered")
}
