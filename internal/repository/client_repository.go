package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tailwag/walkops/internal/db"
	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/models"
)

var _ interfaces.ClientRepositoryInterface = (*ClientRepository)(nil)

const clientSelect = `
		SELECT id, user_id, name, email, balance, last_payment_date
		FROM clients
		WHERE id = $1`

// ClientRepository müşteri, bakiye ve ledger database işlemleri
type ClientRepository struct {
	db *sql.DB
}

// NewClientRepository yeni repository oluşturur
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func scanClient(row rowScanner) (*models.Client, error) {
	var (
		c           models.Client
		lastPayment sql.NullTime
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Balance, &lastPayment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrClientNotFound
		}
		return nil, fmt.Errorf("müşteri scan hatası: %w", err)
	}
	if lastPayment.Valid {
		t := lastPayment.Time
		c.LastPaymentDate = &t
	}
	return &c, nil
}

// GetByID ID ile müşteri getirir
func (r *ClientRepository) GetByID(ctx context.Context, id int) (*models.Client, error) {
	return scanClient(r.db.QueryRowContext(ctx, clientSelect, id))
}

// lockClient row lock; concurrent balance writers for the same client wait here
func lockClient(tx *db.TransactionRepository, clientID int) (*models.Client, error) {
	return scanClient(tx.QueryRow(clientSelect+` FOR UPDATE`, clientID))
}

// CreditWalk walk ücretini bakiyeye ekler ve walk_charge kaydı yazar
func (r *ClientRepository) CreditWalk(ctx context.Context, clientID, walkID int, amount decimal.Decimal) (*models.CreditResult, error) {
	var result *models.CreditResult

	err := db.WithTransaction(ctx, r.db, func(tx *db.TransactionRepository) error {
		client, err := lockClient(tx, clientID)
		if err != nil {
			return err
		}

		res, err := tx.Exec(`
			INSERT INTO balance_ledger (client_id, walk_id, change_amount, reason)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (walk_id) DO NOTHING
		`, clientID, walkID, amount, string(models.LedgerWalkCharge))
		if err != nil {
			return fmt.Errorf("ledger kaydı yazılamadı: %w", err)
		}

		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("ledger sonucu okunamadı: %w", err)
		}
		if inserted == 0 {
			// walk daha önce yazılmış
			result = &models.CreditResult{Client: client, Credited: false}
			return nil
		}

		err = tx.QueryRow(`
			UPDATE clients
			SET balance = balance + $1
			WHERE id = $2
			RETURNING balance
		`, amount, clientID).Scan(&client.Balance)
		if err != nil {
			return fmt.Errorf("bakiye güncellenemedi: %w", err)
		}

		result = &models.CreditResult{Client: client, Credited: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ApplyPayment ödemeyi kaydeder, bakiyeden düşer ve payment ledger kaydı yazar
func (r *ClientRepository) ApplyPayment(ctx context.Context, payment *models.Payment) (*models.Payment, *models.Client, error) {
	var (
		saved  models.Payment
		client *models.Client
	)

	err := db.WithTransaction(ctx, r.db, func(tx *db.TransactionRepository) error {
		var err error
		client, err = lockClient(tx, payment.ClientID)
		if err != nil {
			return err
		}

		saved = *payment
		err = tx.QueryRow(`
			INSERT INTO payments (client_id, amount, method, external_id, paid_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (external_id) DO NOTHING
			RETURNING id, created_at
		`, payment.ClientID, payment.Amount, payment.Method, payment.ExternalID, payment.PaidAt).
			Scan(&saved.ID, &saved.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrDuplicatePayment
			}
			return fmt.Errorf("ödeme kaydedilemedi: %w", err)
		}

		var lastPayment sql.NullTime
		err = tx.QueryRow(`
			UPDATE clients
			SET balance = balance - $1,
			    last_payment_date = GREATEST(COALESCE(last_payment_date, $2), $2)
			WHERE id = $3
			RETURNING balance, last_payment_date
		`, payment.Amount, payment.PaidAt, payment.ClientID).Scan(&client.Balance, &lastPayment)
		if err != nil {
			return fmt.Errorf("bakiye güncellenemedi: %w", err)
		}
		if lastPayment.Valid {
			t := lastPayment.Time
			client.LastPaymentDate = &t
		}

		_, err = tx.Exec(`
			INSERT INTO balance_ledger (client_id, payment_id, change_amount, reason)
			VALUES ($1, $2, $3, $4)
		`, payment.ClientID, saved.ID, payment.Amount.Neg(), string(models.LedgerPayment))
		if err != nil {
			return fmt.Errorf("ledger kaydı yazılamadı: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &saved, client, nil
}

// ListLedger müşterinin bakiye hareketlerini yeniden eskiye getirir
func (r *ClientRepository) ListLedger(ctx context.Context, clientID int, limit, offset int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, client_id, walk_id, payment_id, change_amount, reason, created_at
		FROM balance_ledger
		WHERE client_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ledger sorgusu hatası: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.LedgerEntry, 0)
	for rows.Next() {
		var (
			e         models.LedgerEntry
			walkID    sql.NullInt64
			paymentID sql.NullInt64
			reason    string
		)
		if err := rows.Scan(&e.ID, &e.ClientID, &walkID, &paymentID, &e.ChangeAmount, &reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ledger scan hatası: %w", err)
		}
		e.Reason = models.LedgerReason(reason)
		if walkID.Valid {
			id := int(walkID.Int64)
			e.WalkID = &id
		}
		if paymentID.Valid {
			id := int(paymentID.Int64)
			e.PaymentID = &id
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger satır hatası: %w", err)
	}

	return entries, nil
}
