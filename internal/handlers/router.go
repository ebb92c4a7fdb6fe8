package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/auth"
	"github.com/tailwag/walkops/internal/middleware"
	"github.com/tailwag/walkops/internal/middleware/errors"
	"github.com/tailwag/walkops/internal/middleware/validation"
)

// RouterConfig router'ın ihtiyaç duyduğu handler ve middleware'ler
type RouterConfig struct {
	Schedule *ScheduleHandler
	Walks    *WalkHandler
	Clients  *ClientHandler
	Billing  *BillingHandler
	Health   http.HandlerFunc

	Tokens         *auth.TokenManager
	AdminLimit     *middleware.RateLimitMiddleware // nil ise admin işlemleri limitlenmez
	ErrorConfig    *errors.ErrorConfig
	SecurityConfig *middleware.SecurityConfig
	CORSConfig     *middleware.CORSConfig // nil ise CORS header'ı yazılmaz
}

// NewHandler router'ı CORS ile sarar. Preflight istekleri route eşleşmesinden önce cevaplanmalı.
func NewHandler(cfg RouterConfig) http.Handler {
	router := NewRouter(cfg)
	if cfg.CORSConfig == nil {
		return router
	}
	return middleware.CORSMiddleware(cfg.CORSConfig)(router)
}

// NewRouter Gorilla Mux router'ını ayarlar
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = middleware.NotFoundJSONHandler()
	router.MethodNotAllowedHandler = middleware.MethodNotAllowedJSONHandler()

	router.Use(middleware.RequestLoggingMiddleware(nil))
	router.Use(middleware.SecurityHeadersMiddleware(cfg.SecurityConfig))
	router.Use(middleware.ErrorHandlingMiddleware(cfg.ErrorConfig))
	router.Use(middleware.MetricsMiddleware(nil))

	// Public
	if cfg.Health != nil {
		router.HandleFunc("/health", cfg.Health).Methods(http.MethodGet)
	}
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Authenticated
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.Tokens))
	api.Use(validation.RequireJSON(maxBodyBytes))

	api.HandleFunc("/schedule/week", cfg.Schedule.GetWeek).Methods(http.MethodGet)

	api.HandleFunc("/walks", cfg.Walks.ListWalks).Methods(http.MethodGet)
	api.Handle("/walks", adminOnly(cfg.Walks.CreateWalk)).Methods(http.MethodPost)
	api.Handle("/walks/{id:[0-9]+}/status",
		middleware.RequireRole(auth.RoleAdmin, auth.RoleWalker)(http.HandlerFunc(cfg.Walks.UpdateStatus)),
	).Methods(http.MethodPatch)

	api.HandleFunc("/clients/{id:[0-9]+}", cfg.Clients.GetClient).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id:[0-9]+}/ledger", cfg.Clients.GetLedger).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id:[0-9]+}/invoice", cfg.Clients.GetInvoice).Methods(http.MethodGet)
	api.Handle("/clients/{id:[0-9]+}/payments", adminOnly(cfg.Clients.RecordPayment)).Methods(http.MethodPost)

	// Admin bakım işlemleri, rate limited
	admin := api.NewRoute().Subrouter()
	admin.Use(middleware.RequireRole(auth.RoleAdmin))
	if cfg.AdminLimit != nil {
		admin.Use(cfg.AdminLimit.Handler())
	}
	admin.HandleFunc("/billing/reconcile", cfg.Billing.Reconcile).Methods(http.MethodPost)
	admin.HandleFunc("/maintenance/complete-test-walks", cfg.Billing.CompleteTestWalks).Methods(http.MethodPost)

	_ = router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if tpl, err := route.GetPathTemplate(); err == nil {
			methods, _ := route.GetMethods()
			log.Debug().Str("path", tpl).Strs("methods", methods).Msg("📍 Route registered")
		}
		return nil
	})

	return router
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireRole(auth.RoleAdmin)(h)
}
