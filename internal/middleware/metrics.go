package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/metrics"
)

// MetricsConfig metrics middleware ayarları
type MetricsConfig struct {
	SlowRequestThreshold time.Duration // bu süreyi aşan istekler warn loglanır
}

// DefaultMetricsConfig varsayılan config
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{SlowRequestThreshold: 2 * time.Second}
}

// MetricsMiddleware request sayısı, süresi ve in-flight sayısını Prometheus'a yazar.
// Label olarak path değil route template kullanılır (/api/v1/clients/{id}).
func MetricsMiddleware(config *MetricsConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultMetricsConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.HTTPInFlight.Inc()
			defer metrics.HTTPInFlight.Dec()

			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			route := routeTemplate(r)

			metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
			metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(duration.Seconds())

			if config.SlowRequestThreshold > 0 && duration > config.SlowRequestThreshold {
				log.Warn().
					Str("route", route).
					Str("method", r.Method).
					Dur("duration", duration).
					Msg("🐢 Yavaş istek")
			}
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
