package consumer

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tailwag/walkops/internal/models"
	"github.com/tailwag/walkops/internal/repository"
	"github.com/tailwag/walkops/internal/services"
)

// fakeAcknowledger son ack/nack kararını kaydeder
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func delivery(body string) (amqp.Delivery, *fakeAcknowledger) {
	ack := &fakeAcknowledger{}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}, ack
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) RecordPayment(ctx context.Context, clientID int, req *models.PaymentRequest) (*models.PaymentResponse, error) {
	args := m.Called(ctx, clientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentResponse), args.Error(1)
}

func (m *MockPaymentService) GetClient(ctx context.Context, clientID int) (*models.Client, error) {
	panic("not used")
}

func (m *MockPaymentService) GetLedger(ctx context.Context, clientID int, limit, offset int) ([]*models.LedgerEntry, error) {
	panic("not used")
}

func newStoreConsumer(t *testing.T) (*Consumer, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	store.AddClient(models.Client{ID: 1, Name: "Jordan"})
	return New(Config{Queue: "payments"}, services.NewPaymentService(store.Clients())), store
}

func TestHandleDelivery_RecordsAndDeduplicates(t *testing.T) {
	c, store := newStoreConsumer(t)
	ctx := context.Background()
	body := `{"client_id":1,"amount":"25.50","external_id":"pi_123","method":"card","paid_at":"2024-06-05T14:00:00Z"}`

	msg, ack := delivery(body)
	c.HandleDelivery(ctx, msg)
	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)

	client, err := store.Clients().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "-25.50", client.Balance.StringFixed(2))
	require.NotNil(t, client.LastPaymentDate)

	// redelivery: ack, bakiye değişmez
	msg, ack = delivery(body)
	c.HandleDelivery(ctx, msg)
	assert.True(t, ack.acked)

	client, err = store.Clients().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "-25.50", client.Balance.StringFixed(2))
}

func TestHandleDelivery_RejectsWithoutRequeue(t *testing.T) {
	c, _ := newStoreConsumer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{"client_id":`},
		{name: "missing external id", body: `{"client_id":1,"amount":"10"}`},
		{name: "missing client", body: `{"amount":"10","external_id":"pi_1"}`},
		{name: "negative amount", body: `{"client_id":1,"amount":"-10","external_id":"pi_2"}`},
		{name: "unknown client", body: `{"client_id":99,"amount":"10","external_id":"pi_3"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ack := delivery(tt.body)
			c.HandleDelivery(context.Background(), msg)
			assert.True(t, ack.nacked)
			assert.False(t, ack.requeue)
			assert.False(t, ack.acked)
		})
	}
}

func TestHandleDelivery_TransientErrorRequeues(t *testing.T) {
	payments := new(MockPaymentService)
	c := New(Config{Queue: "payments"}, payments)

	payments.On("RecordPayment", mock.Anything, 1, mock.Anything).Return(nil, errors.New("connection reset"))

	msg, ack := delivery(`{"client_id":1,"amount":"10","external_id":"pi_9"}`)
	c.HandleDelivery(context.Background(), msg)

	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)
	payments.AssertExpectations(t)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{Queue: "payments"}, new(MockPaymentService))
	assert.Equal(t, 10, c.cfg.Prefetch)
	assert.Equal(t, 1, c.cfg.Workers)
}
