package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/app"
	"github.com/MrJamesThe3rd/fintrack/internal/config"
	"github.com/MrJamesThe3rd/fintrack/internal/state"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

func memoryConfig(seed bool) *config.Config {
	cfg := &config.Config{}
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.Seed = seed

	return cfg
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		seed    bool
		wantTxs int
	}{
		{"seeded", true, len(state.SampleTransactions())},
		{"empty", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := app.Open(ctx, memoryConfig(tt.seed))
			require.NoError(t, err)

			t.Cleanup(func() { assert.NoError(t, a.Close()) })

			txs, err := a.Transactions.List(ctx, transaction.ListFilter{})
			require.NoError(t, err)
			assert.Len(t, txs, tt.wantTxs)

			prefs, err := a.Preferences.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "USD", prefs.PreferredCurrency)
		})
	}
}

func TestOpen_ImporterUsesLearnedRules(t *testing.T) {
	ctx := context.Background()

	a, err := app.Open(ctx, memoryConfig(false))
	require.NoError(t, err)

	_, err = a.Matching.Learn(ctx, "spotify", "Entertainment")
	require.NoError(t, err)

	csv := "date;type;amount;description\n2025-02-01;expense;9,99;SPOTIFY AB\n"

	params, err := a.Importer.Parse(ctx, strings.NewReader(csv), "EUR")
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Entertainment", params[0].Category)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Backend = "sqlite"

	_, err := app.Open(context.Background(), cfg)
	assert.Error(t, err)
}
