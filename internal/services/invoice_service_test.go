package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/invoice"
	"github.com/tailwag/walkops/internal/models"
	"github.com/tailwag/walkops/internal/repository"
)

func newInvoiceCompiler() *invoice.Compiler {
	return invoice.NewCompiler(dates.NewNormalizer(time.UTC), invoice.DefaultLayout(), "Tailwag Walks")
}

func TestInvoiceService_CompileInvoice(t *testing.T) {
	store := repository.NewMemoryStore()
	store.AddClient(models.Client{ID: 1, Name: "Jordan"})
	store.AddClient(models.Client{ID: 2, Name: "Riley"})
	store.AddWalk(*completedWalk(1, 1, money("10.00")))
	store.AddWalk(*completedWalk(2, 1, money("25.00")))
	store.AddWalk(*completedWalk(3, 2, money("99.00")))
	store.AddWalk(models.Walk{ClientID: 1, Date: "2024-06-09", Status: models.WalkScheduled, BillingAmount: money("40")})

	svc := NewInvoiceService(store.Clients(), store.Walks(), newInvoiceCompiler())
	svc.now = func() time.Time { return time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC) }

	doc, err := svc.CompileInvoice(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, doc.Lines, 2)
	assert.Equal(t, "35.00", doc.Total.StringFixed(2))
	assert.Equal(t, "Jordan", doc.ClientName)

	var buf bytes.Buffer
	require.NoError(t, svc.WritePDF(doc, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestInvoiceService_CompileInvoice_Errors(t *testing.T) {
	walkRepo := new(MockWalkRepository)
	clientRepo := new(MockClientRepository)
	svc := NewInvoiceService(clientRepo, walkRepo, newInvoiceCompiler())

	clientRepo.On("GetByID", mock.Anything, 9).Return(nil, models.ErrClientNotFound)
	_, err := svc.CompileInvoice(context.Background(), 9)
	assert.ErrorIs(t, err, models.ErrClientNotFound)

	clientRepo.On("GetByID", mock.Anything, 1).Return(&models.Client{ID: 1}, nil)
	walkRepo.On("ListByClient", mock.Anything, 1).Return(nil, errors.New("timeout"))
	_, err = svc.CompileInvoice(context.Background(), 1)
	assert.Error(t, err)
}
