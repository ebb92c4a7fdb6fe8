package middleware

import (
	"fmt"
	"net/http"
)

// SecurityConfig security headers ayarları
type SecurityConfig struct {
	ContentSecurityPolicy string
	HSTSMaxAge            int // 0 ise HSTS kapalı
	FrameOptions          string
	ReferrerPolicy        string
}

// SecurityConfigFor ortama göre security header ayarlarını döner.
// API sadece JSON ve PDF döndüğü için CSP her şeyi kapatır.
func SecurityConfigFor(env string) *SecurityConfig {
	config := &SecurityConfig{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		HSTSMaxAge:            31536000, // 1 yıl
		FrameOptions:          "DENY",
		ReferrerPolicy:        "no-referrer",
	}
	if env == "development" || env == "test" {
		config.HSTSMaxAge = 0 // lokal HTTP
	}
	return config
}

// SecurityHeadersMiddleware güvenlik header'larını ekler
func SecurityHeadersMiddleware(config *SecurityConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = SecurityConfigFor("production")
	}
	hsts := ""
	if config.HSTSMaxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d; includeSubDomains", config.HSTSMaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if config.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", config.ContentSecurityPolicy)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			if config.FrameOptions != "" {
				h.Set("X-Frame-Options", config.FrameOptions)
			}
			if config.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", config.ReferrerPolicy)
			}
			h.Set("X-Content-Type-Options", "nosniff")

			next.ServeHTTP(w, r)
		})
	}
}
