package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/utils"
)

// NotFoundJSONHandler router'da eşleşmeyen path'ler için JSON 404
func NotFoundJSONHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("client_ip", utils.GetClientIP(r)).
			Msg("404 Not Found")

		WriteError(w, r, http.StatusNotFound, "endpoint not found", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
}

// MethodNotAllowedJSONHandler desteklenmeyen HTTP metodu için JSON 405
func MethodNotAllowedJSONHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("405 Method Not Allowed")

		WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
}
