package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/auth"
)

// ContextKey middleware'de context için key tipi
type ContextKey string

const (
	UserContextKey      ContextKey = "user"
	RequestIDContextKey ContextKey = "request_id"
)

// AuthMiddleware Bearer JWT token'ı doğrular ve claims'i context'e ekler
func AuthMiddleware(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn().
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("Authorization header eksik")
				WriteError(w, r, http.StatusUnauthorized, "authorization header required", nil)
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				log.Warn().
					Str("path", r.URL.Path).
					Msg("Geçersiz Authorization format")
				WriteError(w, r, http.StatusUnauthorized, "authorization format: 'Bearer <token>'", nil)
				return
			}

			claims, err := tm.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				log.Warn().
					Err(err).
					Str("path", r.URL.Path).
					Msg("Token doğrulama başarısız")
				WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			log.Debug().
				Int("user_id", claims.UserID).
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Msg("🔐 Authentication successful")

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole claims'deki rol listede değilse 403 döner. AuthMiddleware'den sonra kullanılır.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				WriteError(w, r, http.StatusUnauthorized, "authentication required", nil)
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn().
				Int("user_id", claims.UserID).
				Str("role", claims.Role).
				Strs("required", roles).
				Str("path", r.URL.Path).
				Msg("⛔ Yetkisiz rol")
			WriteError(w, r, http.StatusForbidden, "insufficient role", map[string]interface{}{
				"required_roles": roles,
			})
		})
	}
}

// ClaimsFromContext AuthMiddleware'in eklediği claims'i döner
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// RequestIDFromContext logging middleware'in ürettiği request id
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}
