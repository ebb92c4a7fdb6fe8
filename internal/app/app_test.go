package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailwag/walkops/internal/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		AppEnv:           "development",
		StorageDriver:    config.StorageMemory,
		BusinessTimezone: "America/New_York",
		BusinessName:     "Tailwag Walks",
		ReconcileWorkers: 2,
	}
}

func TestNew_MemoryStorageEndToEnd(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, memoryConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)

	week, err := a.Schedule.GetWeek(ctx, "")
	require.NoError(t, err)
	assert.Len(t, week.Days, 7)

	first, err := a.Reconciliation.ApplyCompletedWalks(ctx)
	require.NoError(t, err)
	assert.NotZero(t, first.AppliedCount)
	assert.Empty(t, first.Failed)

	second, err := a.Reconciliation.ApplyCompletedWalks(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.AppliedCount)

	doc, err := a.Invoices.CompileInvoice(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Pages)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageDriver = "sqlite"
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)

	cfg = memoryConfig()
	cfg.BusinessTimezone = "Nowhere/City"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}
