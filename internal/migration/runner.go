// internal/migration/runner.go
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tailwag/walkops/internal/db"
)

const (
	trackingTable = "schema_migrations"
	// aynı anda iki runner aynı migration'ı uygulamasın
	advisoryLockKey int64 = 0x77616c6b
)

// Runner versiyonlu şema migration'larını uygular
type Runner struct {
	db   *sql.DB
	fsys fs.FS
}

// NewRunner fsys kökündeki migration dosyaları için runner oluşturur
func NewRunner(database *sql.DB, fsys fs.FS) *Runner {
	return &Runner{db: database, fsys: fsys}
}

// Initialize migration tracking tablosunu oluşturur
func (r *Runner) Initialize(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+trackingTable+` (
			version      BIGINT PRIMARY KEY,
			name         VARCHAR(255) NOT NULL,
			checksum     VARCHAR(64) NOT NULL,
			applied_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			execution_ms INTEGER NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("migration tracking tablosu oluşturulamadı: %w", err)
	}
	return nil
}

func (r *Runner) loadApplied(ctx context.Context) (map[int64]appliedMigration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT version, name, checksum, applied_at FROM `+trackingTable+` ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("uygulanan migration'lar okunamadı: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]appliedMigration)
	for rows.Next() {
		var a appliedMigration
		if err := rows.Scan(&a.Version, &a.Name, &a.Checksum, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("migration satırı okunamadı: %w", err)
		}
		applied[a.Version] = a
	}
	return applied, rows.Err()
}

// load dosyaları okur ve tracking tablosuyla birleştirir
func (r *Runner) load(ctx context.Context) ([]Migration, map[int64]appliedMigration, error) {
	if err := r.Initialize(ctx); err != nil {
		return nil, nil, err
	}
	migrations, err := LoadMigrations(r.fsys)
	if err != nil {
		return nil, nil, err
	}
	applied, err := r.loadApplied(ctx)
	if err != nil {
		return nil, nil, err
	}

	for i := range migrations {
		if a, ok := applied[migrations[i].Version]; ok {
			at := a.AppliedAt
			migrations[i].Applied = true
			migrations[i].AppliedAt = &at
		}
	}
	return migrations, applied, nil
}

// Status migration durumunu döner
func (r *Runner) Status(ctx context.Context) (*Status, error) {
	migrations, applied, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{Migrations: migrations, ChecksumValid: true}
	for _, m := range migrations {
		if !m.Applied {
			status.PendingCount++
			continue
		}
		status.AppliedCount++
		if m.Version > status.CurrentVersion {
			status.CurrentVersion = m.Version
		}
		if applied[m.Version].Checksum != m.Checksum {
			status.ChecksumValid = false
		}
	}

	switch {
	case !status.ChecksumValid:
		status.Health = StatusError
	case status.PendingCount > 0:
		status.Health = StatusWarning
	default:
		status.Health = StatusHealthy
	}
	return status, nil
}

// Up bekleyen migration'ları sırayla, her birini kendi transaction'ında uygular.
// Uygulanmış bir dosya değiştirilmişse hiçbir şey çalıştırmadan hata döner.
func (r *Runner) Up(ctx context.Context) ([]Result, error) {
	migrations, applied, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, m := range migrations {
		if a, ok := applied[m.Version]; ok && a.Checksum != m.Checksum {
			return nil, fmt.Errorf("%w: %06d_%s", ErrChecksumMismatch, m.Version, m.Name)
		}
	}

	var results []Result
	for _, m := range migrations {
		if m.Applied {
			continue
		}
		result, err := r.run(ctx, m, DirectionUp)
		if err != nil {
			return results, err
		}
		if result != nil {
			results = append(results, *result)
		}
	}

	log.Info().Int("applied", len(results)).Msg("🗄️ Migration'lar uygulandı")
	return results, nil
}

// Down son uygulanan steps adet migration'ı geri alır
func (r *Runner) Down(ctx context.Context, steps int) ([]Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}
	migrations, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var appliedDesc []Migration
	for _, m := range migrations {
		if m.Applied {
			appliedDesc = append(appliedDesc, m)
		}
	}
	sort.Slice(appliedDesc, func(i, j int) bool {
		return appliedDesc[i].Version > appliedDesc[j].Version
	})
	if steps > len(appliedDesc) {
		steps = len(appliedDesc)
	}

	var results []Result
	for _, m := range appliedDesc[:steps] {
		if !m.HasDown {
			return results, fmt.Errorf("%w: %06d_%s", ErrNoDownFile, m.Version, m.Name)
		}
		result, err := r.run(ctx, m, DirectionDown)
		if err != nil {
			return results, err
		}
		if result != nil {
			results = append(results, *result)
		}
	}
	return results, nil
}

// run migration'ı advisory lock altında uygular. Lock alındıktan sonra başka bir
// runner aynı işi yapmışsa nil result döner.
func (r *Runner) run(ctx context.Context, m Migration, direction Direction) (*Result, error) {
	started := time.Now()
	done := false

	err := db.WithTransaction(ctx, r.db, func(tx *db.TransactionRepository) error {
		if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
			return fmt.Errorf("migration lock alınamadı: %w", err)
		}

		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM `+trackingTable+` WHERE version = $1)`, m.Version).Scan(&exists); err != nil {
			return err
		}
		if exists == (direction == DirectionUp) {
			return nil
		}

		if direction == DirectionUp {
			if _, err := tx.Exec(m.UpSQL); err != nil {
				return err
			}
			_, err := tx.Exec(
				`INSERT INTO `+trackingTable+` (version, name, checksum, execution_ms) VALUES ($1, $2, $3, $4)`,
				m.Version, m.Name, m.Checksum, time.Since(started).Milliseconds(),
			)
			if err != nil {
				return err
			}
		} else {
			if _, err := tx.Exec(m.DownSQL); err != nil {
				return err
			}
			if _, err := tx.Exec(`DELETE FROM `+trackingTable+` WHERE version = $1`, m.Version); err != nil {
				return err
			}
		}
		done = true
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int64("version", m.Version).Str("name", m.Name).Str("direction", string(direction)).Msg("❌ Migration başarısız")
		return nil, fmt.Errorf("migration %06d_%s (%s) başarısız: %w", m.Version, m.Name, direction, err)
	}
	if !done {
		return nil, nil
	}

	result := &Result{Version: m.Version, Name: m.Name, Direction: direction, Duration: time.Since(started)}
	log.Info().
		Int64("version", m.Version).
		Str("name", m.Name).
		Str("direction", string(direction)).
		Dur("duration", result.Duration).
		Msg("Migration çalıştırıldı")
	return result, nil
}
