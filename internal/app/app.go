// Package app wires storage, services and the domain helpers from a Config.
// Both the API server and walkctl build on it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/config"
	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/db"
	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/invoice"
	"github.com/tailwag/walkops/internal/repository"
	"github.com/tailwag/walkops/internal/services"
)

// App hazır servis katmanı
type App struct {
	Config     *config.Config
	Normalizer *dates.Normalizer
	DB         *sql.DB // memory storage'da nil

	WalkRepo   interfaces.WalkRepositoryInterface
	ClientRepo interfaces.ClientRepositoryInterface

	Schedule       *services.ScheduleService
	Reconciliation *services.ReconciliationService
	Invoices       *services.InvoiceService
	Payments       *services.PaymentService
	Walks          *services.WalkService
}

// New config'e göre storage'ı açar ve servisleri kurar. Memory storage demo verisiyle başlar.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:     cfg,
		Normalizer: dates.NewNormalizer(loc),
	}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		store := repository.NewMemoryStore()
		repository.SeedDemo(store, a.Normalizer, time.Now())
		a.WalkRepo = store.Walks()
		a.ClientRepo = store.Clients()
		log.Info().Msg("🧠 Memory storage kullanılıyor (demo verisi yüklendi)")

	case config.StoragePostgres:
		database, err := db.Connect(ctx, cfg.GetDSN(), db.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("veritabanı bağlantısı başarısız: %w", err)
		}
		a.DB = database
		a.WalkRepo = repository.NewWalkRepository(database)
		a.ClientRepo = repository.NewClientRepository(database)
	}

	compiler := invoice.NewCompiler(a.Normalizer, invoice.DefaultLayout(), cfg.BusinessName)

	a.Schedule = services.NewScheduleService(a.WalkRepo, a.Normalizer)
	a.Reconciliation = services.NewReconciliationService(a.WalkRepo, a.ClientRepo, cfg.ReconcileWorkers)
	a.Invoices = services.NewInvoiceService(a.ClientRepo, a.WalkRepo, compiler)
	a.Payments = services.NewPaymentService(a.ClientRepo)
	a.Walks = services.NewWalkService(a.WalkRepo, a.ClientRepo, a.Normalizer)

	return a, nil
}

// Close veritabanı bağlantısını kapatır
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
