package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// TransactionFunc database transaction içinde çalışacak fonksiyon tipi
type TransactionFunc func(tx *TransactionRepository) error

// WithTransaction database transaction'ı yönetir
// Hata durumunda otomatik rollback, başarı durumunda commit yapar
func WithTransaction(ctx context.Context, db *sql.DB, fn TransactionFunc) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transaction başlatılamadı: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Error().Err(rollbackErr).Msg("Rollback hatası (panic)")
			}
			log.Error().Interface("panic", r).Msg("Transaction panic ile rollback yapıldı")
			panic(r)
		}
	}()

	if err := fn(NewTransactionRepository(ctx, tx)); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error().Err(rollbackErr).Msg("Rollback hatası")
			return fmt.Errorf("transaction hatası ve rollback hatası: %w, rollback: %v", err, rollbackErr)
		}
		log.Debug().Err(err).Msg("Transaction rollback yapıldı")
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Msg("Commit hatası")
		return fmt.Errorf("transaction commit hatası: %w", err)
	}

	log.Debug().Msg("Transaction başarıyla commit edildi")
	return nil
}

// TransactionRepository transaction içinde, isteğin context'i ile SQL çalıştırır
type TransactionRepository struct {
	ctx context.Context
	tx  *sql.Tx
}

// NewTransactionRepository transaction-aware repository oluşturur
func NewTransactionRepository(ctx context.Context, tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{ctx: ctx, tx: tx}
}

// Exec transaction içinde SQL çalıştırır
func (tr *TransactionRepository) Exec(query string, args ...interface{}) (sql.Result, error) {
	return tr.tx.ExecContext(tr.ctx, query, args...)
}

// QueryRow transaction içinde tek satır sorgusu çalıştırır
func (tr *TransactionRepository) QueryRow(query string, args ...interface{}) *sql.Row {
	return tr.tx.QueryRowContext(tr.ctx, query, args...)
}

// Query transaction içinde çoklu satır sorgusu çalıştırır
func (tr *TransactionRepository) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return tr.tx.QueryContext(tr.ctx, query, args...)
}
