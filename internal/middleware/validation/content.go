// internal/middleware/validation/content.go
package validation

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/tailwag/walkops/internal/middleware/errors"
)

// DefaultMaxBodySize yazma isteklerinde kabul edilen en büyük body
const DefaultMaxBodySize int64 = 64 * 1024

// RequireJSON body taşıyan POST/PUT/PATCH isteklerinde Content-Type ve boyutu kontrol eder.
// Body'siz istekler (ör. reconcile) geçer. Hatalar ErrorHandlingMiddleware'e panic ile iletilir.
func RequireJSON(maxBodySize int64) func(http.Handler) http.Handler {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasBody(r) {
				next.ServeHTTP(w, r)
				return
			}
			if err := validateContent(r, maxBodySize); err != nil {
				panic(err)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	// chunked istekte ContentLength -1 olur
	return r.ContentLength != 0
}

func validateContent(r *http.Request, maxBodySize int64) *errors.ValidationError {
	if r.ContentLength > maxBodySize {
		return &errors.ValidationError{
			Message:    fmt.Sprintf("request body çok büyük, maksimum %d bytes", maxBodySize),
			StatusCode: http.StatusRequestEntityTooLarge,
			Field:      "Content-Length",
			Value:      r.ContentLength,
		}
	}

	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return &errors.ValidationError{
			Message:    "Content-Type application/json olmalı",
			StatusCode: http.StatusUnsupportedMediaType,
			Field:      "Content-Type",
			Value:      contentType,
		}
	}
	return nil
}
