package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tailwag/walkops/internal/interfaces"
	"github.com/tailwag/walkops/internal/models"
)

var _ interfaces.WalkRepositoryInterface = (*WalkRepository)(nil)

// date is read back as text so lib/pq never turns it into a UTC midnight instant
const walkSelect = `
		SELECT w.id, w.client_id, w.walker_id, w.pet_id, to_char(w.date, 'YYYY-MM-DD'),
		       w.time_slot, w.duration, w.status, w.billing_amount, w.is_paid,
		       w.is_balance_applied, COALESCE(wk.name, ''), COALESCE(wk.color, ''), w.created_at
		FROM walks w
		LEFT JOIN walkers wk ON wk.id = w.walker_id`

// WalkRepository walk database işlemleri
type WalkRepository struct {
	db *sql.DB
}

// NewWalkRepository yeni repository oluşturur
func NewWalkRepository(db *sql.DB) *WalkRepository {
	return &WalkRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWalk(row rowScanner) (*models.Walk, error) {
	var (
		w        models.Walk
		walkerID sql.NullInt64
		amount   decimal.NullDecimal
		status   string
	)

	err := row.Scan(
		&w.ID,
		&w.ClientID,
		&walkerID,
		&w.PetID,
		&w.Date,
		&w.TimeSlot,
		&w.Duration,
		&status,
		&amount,
		&w.IsPaid,
		&w.IsBalanceApplied,
		&w.WalkerName,
		&w.WalkerColor,
		&w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.Status = models.WalkStatus(status)
	if walkerID.Valid {
		id := int(walkerID.Int64)
		w.WalkerID = &id
	}
	if amount.Valid {
		a := amount.Decimal
		w.BillingAmount = &a
	}
	return &w, nil
}

func (r *WalkRepository) queryWalks(ctx context.Context, query string, args ...interface{}) ([]*models.Walk, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("walk sorgusu hatası: %w", err)
	}
	defer rows.Close()

	walks := make([]*models.Walk, 0)
	for rows.Next() {
		w, err := scanWalk(rows)
		if err != nil {
			return nil, fmt.Errorf("walk scan hatası: %w", err)
		}
		walks = append(walks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("walk satır hatası: %w", err)
	}

	return walks, nil
}

// ListAll tüm walk'ları tarih sırasıyla getirir
func (r *WalkRepository) ListAll(ctx context.Context) ([]*models.Walk, error) {
	return r.queryWalks(ctx, walkSelect+`
		ORDER BY w.date, w.id`)
}

// ListByClient müşterinin walk'larını getirir
func (r *WalkRepository) ListByClient(ctx context.Context, clientID int) ([]*models.Walk, error) {
	return r.queryWalks(ctx, walkSelect+`
		WHERE w.client_id = $1
		ORDER BY w.date, w.id`, clientID)
}

// ListBillable completed ve bakiyeye yazılmamış walk'lar
func (r *WalkRepository) ListBillable(ctx context.Context) ([]*models.Walk, error) {
	return r.queryWalks(ctx, walkSelect+`
		WHERE w.status = 'completed' AND w.is_balance_applied = FALSE
		ORDER BY w.id`)
}

// ListClaimedUncredited claimed walks that never got their walk_charge entry
func (r *WalkRepository) ListClaimedUncredited(ctx context.Context) ([]*models.Walk, error) {
	return r.queryWalks(ctx, walkSelect+`
		WHERE w.is_balance_applied = TRUE
		  AND w.billing_amount IS NOT NULL
		  AND NOT EXISTS (SELECT 1 FROM balance_ledger l WHERE l.walk_id = w.id)
		ORDER BY w.id`)
}

// ClaimForBilling conditional update; only one caller can win it
func (r *WalkRepository) ClaimForBilling(ctx context.Context, walkID int) (bool, error) {
	query := `
		UPDATE walks
		SET is_balance_applied = TRUE
		WHERE id = $1 AND is_balance_applied = FALSE
	`

	res, err := r.db.ExecContext(ctx, query, walkID)
	if err != nil {
		return false, fmt.Errorf("walk claim hatası: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("walk claim sonucu okunamadı: %w", err)
	}
	return affected == 1, nil
}

// Create yeni walk oluşturur
func (r *WalkRepository) Create(ctx context.Context, walk *models.Walk) (*models.Walk, error) {
	query := `
		INSERT INTO walks (client_id, walker_id, pet_id, date, time_slot, duration, status, billing_amount, is_paid, is_balance_applied)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var walkerID sql.NullInt64
	if walk.WalkerID != nil {
		walkerID = sql.NullInt64{Int64: int64(*walk.WalkerID), Valid: true}
	}
	var amount decimal.NullDecimal
	if walk.BillingAmount != nil {
		amount = decimal.NewNullDecimal(*walk.BillingAmount)
	}

	var id int
	err := r.db.QueryRowContext(ctx, query,
		walk.ClientID,
		walkerID,
		walk.PetID,
		walk.Date,
		walk.TimeSlot,
		walk.Duration,
		string(walk.Status),
		amount,
		walk.IsPaid,
		walk.IsBalanceApplied,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("walk oluşturulamadı: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID ID ile walk getirir
func (r *WalkRepository) GetByID(ctx context.Context, id int) (*models.Walk, error) {
	row := r.db.QueryRowContext(ctx, walkSelect+`
		WHERE w.id = $1`, id)

	w, err := scanWalk(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrWalkNotFound
		}
		return nil, fmt.Errorf("walk arama hatası: %w", err)
	}
	return w, nil
}

// UpdateStatus status'u sadece walk hâlâ from durumundaysa değiştirir
func (r *WalkRepository) UpdateStatus(ctx context.Context, id int, from, next models.WalkStatus) (*models.Walk, error) {
	query := `
		UPDATE walks
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	res, err := r.db.ExecContext(ctx, query, string(next), id, string(from))
	if err != nil {
		return nil, fmt.Errorf("walk status güncellenemedi: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("walk status sonucu okunamadı: %w", err)
	}
	if affected == 0 {
		// ya walk yok ya da status bu arada değişti
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, models.ErrInvalidTransition
	}

	return r.GetByID(ctx, id)
}

// CompleteScheduled en eski scheduled walk'ları completed yapar
func (r *WalkRepository) CompleteScheduled(ctx context.Context, limit int) ([]int, error) {
	query := `
		UPDATE walks
		SET status = 'completed'
		WHERE id IN (
			SELECT id FROM walks
			WHERE status = 'scheduled'
			ORDER BY date, id
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("test walk'ları tamamlanamadı: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0, limit)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("walk id scan hatası: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("walk satır hatası: %w", err)
	}

	sort.Ints(ids)
	return ids, nil
}
