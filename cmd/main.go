package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/app"
	"github.com/tailwag/walkops/internal/auth"
	"github.com/tailwag/walkops/internal/config"
	"github.com/tailwag/walkops/internal/consumer"
	"github.com/tailwag/walkops/internal/handlers"
	"github.com/tailwag/walkops/internal/logger"
	"github.com/tailwag/walkops/internal/middleware"
	apierrors "github.com/tailwag/walkops/internal/middleware/errors"
)

func main() {
	// .env dosyasını yükle
	if err := godotenv.Load(); err != nil {
		stdlog.Println(".env dosyası bulunamadı, ortam değişkenlerinden okunacak.")
	}

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("environment", cfg.AppEnv).
		Str("port", cfg.Port).
		Str("storage", cfg.StorageDriver).
		Str("timezone", cfg.BusinessTimezone).
		Msg("🚀 walkops API başlatılıyor")

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	application, err := app.New(connectCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Uygulama başlatılamadı")
	}
	defer application.Close()

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-only-secret"
		log.Warn().Msg("⚠️ JWT_SECRET boş, development secret kullanılıyor")
	}
	tokens := auth.NewTokenManager(secret, auth.DefaultTokenTTL)

	adminLimit := middleware.NewRateLimitMiddleware(&middleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		Burst:             2,
		IdleTimeout:       30 * time.Minute,
		CleanupInterval:   10 * time.Minute,
	})
	defer adminLimit.Close()

	var pinger handlers.Pinger
	if application.DB != nil {
		pinger = application.DB
	}

	handler := handlers.NewHandler(handlers.RouterConfig{
		Schedule:       handlers.NewScheduleHandler(application.Schedule),
		Walks:          handlers.NewWalkHandler(application.Walks),
		Clients:        handlers.NewClientHandler(application.Payments, application.Invoices),
		Billing:        handlers.NewBillingHandler(application.Reconciliation),
		Health:         handlers.HealthHandler(pinger, cfg.StorageDriver),
		Tokens:         tokens,
		AdminLimit:     adminLimit,
		ErrorConfig:    apierrors.ErrorConfigFor(cfg.AppEnv),
		SecurityConfig: middleware.SecurityConfigFor(cfg.AppEnv),
		CORSConfig:     middleware.DefaultCORSConfig(cfg.CORSAllowedOrigins),
	})

	// Payment event consumer (opsiyonel)
	consumerDone := make(chan struct{})
	if cfg.RabbitEnabled {
		paymentConsumer := consumer.New(consumer.Config{
			URL:      cfg.RabbitURL,
			Queue:    cfg.RabbitQueue,
			Prefetch: cfg.RabbitPrefetch,
			Workers:  cfg.RabbitWorkers,
		}, application.Payments)

		go func() {
			defer close(consumerDone)
			if err := paymentConsumer.Run(rootCtx); err != nil {
				log.Error().Err(err).Msg("❌ Payment consumer durdu")
			}
		}()
	} else {
		close(consumerDone)
	}

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("🌐 HTTP Server (Gorilla Mux) başlatıldı")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ Server başlatma hatası")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("🛑 Shutdown signal alındı, server kapatılıyor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ HTTP Server kapatma hatası")
	} else {
		log.Info().Msg("✅ HTTP Server başarıyla kapatıldı")
	}

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Payment consumer zamanında kapanmadı")
	}

	log.Info().Msg("👋 walkops API kapatıldı")
}
