package middleware

import (
	"net/http"

	"github.com/tailwag/walkops/internal/middleware/errors"
)

// getErrorMessage status code için kullanıcıya dönen mesaj
func getErrorMessage(statusCode int, config *errors.ErrorConfig) string {
	if msg, ok := config.Messages[statusCode]; ok {
		return msg
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return "Unexpected error"
}

func truncateString(s string, maxLength int) string {
	if maxLength <= 3 || len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
