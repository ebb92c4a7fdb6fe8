package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/middleware/errors"
	"github.com/tailwag/walkops/internal/utils"
)

// ErrorHandlingMiddleware panic recovery. APIError panic'leri kendi status'u ile,
// diğer her şey 500 olarak JSON error envelope'a çevrilir.
func ErrorHandlingMiddleware(config *errors.ErrorConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = errors.DefaultErrorConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				if apiErr, ok := recovered.(errors.APIError); ok {
					logAPIError(apiErr, r)
					WriteError(w, r, apiErr.Status(), apiErr.Error(), nil)
					return
				}

				info := &errors.PanicInfo{
					Value:     recovered,
					Stack:     string(debug.Stack()),
					RequestID: RequestIDFromContext(r.Context()),
					Method:    r.Method,
					Path:      r.URL.Path,
					ClientIP:  utils.GetClientIP(r),
					Timestamp: time.Now(),
				}
				logPanic(info)

				message := getErrorMessage(http.StatusInternalServerError, config)
				if config.ShowStackTrace {
					message = truncateString(fmt.Sprintf("panic: %v", recovered), config.MaxErrorLength)
				}

				resp := errors.NewErrorResponse(http.StatusInternalServerError, message, info.RequestID)
				if config.ShowStackTrace {
					resp.Stack = info.Stack
				}
				writeErrorResponse(w, resp)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// WriteError JSON error envelope yazar
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, message string, details map[string]interface{}) {
	resp := errors.NewErrorResponse(statusCode, message, RequestIDFromContext(r.Context()))
	resp.Details = details
	writeErrorResponse(w, resp)
}

func writeErrorResponse(w http.ResponseWriter, resp *errors.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(resp.Code)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Int("status_code", resp.Code).Msg("❌ Error response encode edilemedi")
	}
}
