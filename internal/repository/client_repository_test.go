package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailwag/walkops/internal/models"
)

var clientColumns = []string{"id", "user_id", "name", "email", "balance", "last_payment_date"}

func newClientRepo(t *testing.T) (*ClientRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewClientRepository(db), mock
}

func TestClientRepository_GetByID(t *testing.T) {
	repo, mock := newClientRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(clientColumns).AddRow(1, 11, "Jordan", "jordan@example.com", "35.00", nil))

	c, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Jordan", c.Name)
	assert.True(t, decimal.RequireFromString("35").Equal(c.Balance))
	assert.Nil(t, c.LastPaymentDate)
}

func TestClientRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newClientRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients")).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, models.ErrClientNotFound)
}

func TestClientRepository_CreditWalk(t *testing.T) {
	repo, mock := newClientRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(clientColumns).AddRow(1, 11, "Jordan", "", "10.00", nil))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (walk_id) DO NOTHING")).
		WithArgs(1, 7, sqlmock.AnyArg(), "walk_charge").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SET balance = balance + $1")).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("35.00"))
	mock.ExpectCommit()

	res, err := repo.CreditWalk(context.Background(), 1, 7, decimal.RequireFromString("25.00"))
	require.NoError(t, err)
	assert.True(t, res.Credited)
	assert.True(t, decimal.RequireFromString("35").Equal(res.Client.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_CreditWalk_AlreadyCredited(t *testing.T) {
	repo, mock := newClientRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(clientColumns).AddRow(1, 11, "Jordan", "", "35.00", nil))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (walk_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := repo.CreditWalk(context.Background(), 1, 7, decimal.RequireFromString("25.00"))
	require.NoError(t, err)
	assert.False(t, res.Credited)
	assert.True(t, decimal.RequireFromString("35").Equal(res.Client.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_CreditWalk_RollsBackOnError(t *testing.T) {
	repo, mock := newClientRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(clientColumns).AddRow(1, 11, "Jordan", "", "10.00", nil))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO balance_ledger")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SET balance = balance + $1")).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.CreditWalk(context.Background(), 1, 7, decimal.RequireFromString("25.00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock detected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_CreditWalk_ClientMissing(t *testing.T) {
	repo, mock := newClientRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(clientColumns))
	mock.ExpectRollback()

	_, err := repo.CreditWalk(context.Background(), 5, 7, decimal.RequireFromString("25.00"))
	assert.ErrorIs(t, err, models.ErrClientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_ApplyPayment(t *testing.T) {
	repo, mock := newClientRepo(t)
	paidAt := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(clientColumns).AddRow(1, 11, "Jordan", "", "35.00", nil))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs(1, sqlmock.AnyArg(), "card", "pi_123", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, paidAt))
	mock.ExpectQuery(regexp.QuoteMeta("SET balance = balance - $1")).
		WillReturnRows(sqlmock.NewRows([]string{"balance", "last_payment_date"}).AddRow("15.00", paidAt))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO balance_ledger")).
		WithArgs(1, 3, sqlmock.AnyArg(), "payment").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	payment, client, err := repo.ApplyPayment(context.Background(), &models.Payment{
		ClientID:   1,
		Amount:     decimal.RequireFromString("20.00"),
		Method:     "card",
		ExternalID: "pi_123",
		PaidAt:     paidAt,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, payment.ID)
	assert.True(t, decimal.RequireFromString("15").Equal(client.Balance))
	require.NotNil(t, client.LastPaymentDate)
	assert.True(t, paidAt.Equal(*client.LastPaymentDate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_ApplyPayment_Duplicate(t *testing.T) {
	repo, mock := newClientRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(clientColumns).AddRow(1, 11, "Jordan", "", "35.00", nil))
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (external_id) DO NOTHING")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))
	mock.ExpectRollback()

	_, _, err := repo.ApplyPayment(context.Background(), &models.Payment{
		ClientID: 1, Amount: decimal.RequireFromString("20"), ExternalID: "pi_123", PaidAt: time.Now(),
	})
	assert.ErrorIs(t, err, models.ErrDuplicatePayment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_ListLedger(t *testing.T) {
	repo, mock := newClientRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM balance_ledger")).
		WithArgs(1, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "walk_id", "payment_id", "change_amount", "reason", "created_at"}).
			AddRow(2, 1, nil, 3, "-20.00", "payment", now).
			AddRow(1, 1, 7, nil, "25.00", "walk_charge", now))

	entries, err := repo.ListLedger(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.LedgerPayment, entries[0].Reason)
	assert.Equal(t, 3, *entries[0].PaymentID)
	assert.Nil(t, entries[0].WalkID)
	assert.Equal(t, 7, *entries[1].WalkID)
	assert.True(t, decimal.RequireFromString("-20").Equal(entries[0].ChangeAmount))
}
