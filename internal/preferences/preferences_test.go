package preferences_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/preferences"
	"github.com/MrJamesThe3rd/fintrack/internal/state"
)

func TestService_Update(t *testing.T) {
	svc := preferences.NewService(state.New())
	ctx := context.Background()

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.PreferredCurrency)
	assert.True(t, got.BudgetAlerts)

	_, err = svc.Update(ctx, preferences.Preferences{PreferredCurrency: "EUR", SavingsGoal: decimal.NewFromInt(500)})
	require.NoError(t, err)

	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.PreferredCurrency)
	assert.False(t, got.BudgetAlerts)
}

func TestService_Update_Invalid(t *testing.T) {
	svc := preferences.NewService(state.New())
	ctx := context.Background()

	_, err := svc.Update(ctx, preferences.Preferences{PreferredCurrency: "XXX"})
	assert.ErrorIs(t, err, currency.ErrUnknownCurrency)

	_, err = svc.Update(ctx, preferences.Preferences{PreferredCurrency: "USD", SavingsGoal: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, preferences.ErrNegativeSavingsGoal)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, preferences.Default(), got)
}
