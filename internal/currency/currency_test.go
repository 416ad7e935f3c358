package currency_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
)

func TestConvert_SameCurrencyIsExact(t *testing.T) {
	amounts := []string{"0", "0.01", "1234.5678", "99999999.99", "1e-9"}

	for _, code := range currency.Codes() {
		for _, a := range amounts {
			amount := decimal.RequireFromString(a)

			got, err := currency.Convert(amount, code, code)
			require.NoError(t, err)
			assert.True(t, amount.Equal(got), "%s %s: got %s", code, a, got)
		}
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("1234.56")
	tolerance := decimal.RequireFromString("0.000001")

	for _, from := range currency.Codes() {
		for _, to := range currency.Codes() {
			there, err := currency.Convert(amount, from, to)
			require.NoError(t, err)

			back, err := currency.Convert(there, to, from)
			require.NoError(t, err)

			diff := back.Sub(amount).Abs()
			assert.True(t, diff.LessThan(tolerance), "%s->%s->%s drifted by %s", from, to, from, diff)
		}
	}
}

func TestConvert_ViaUSD(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		from   string
		to     string
		want   string
	}{
		{name: "USDToEUR", amount: "100", from: "USD", to: "EUR", want: "85"},
		{name: "EURToUSD", amount: "85", from: "EUR", to: "USD", want: "100"},
		{name: "USDToJPY", amount: "10", from: "USD", to: "JPY", want: "1100"},
		{name: "GBPToINR", amount: "73", from: "GBP", to: "INR", want: "7450"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := currency.Convert(decimal.RequireFromString(tt.amount), tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Round(6).String())
		})
	}
}

func TestConvert_UnknownCurrency(t *testing.T) {
	_, err := currency.Convert(decimal.NewFromInt(1), "XYZ", "USD")
	assert.True(t, errors.Is(err, currency.ErrUnknownCurrency))

	_, err = currency.Convert(decimal.NewFromInt(1), "USD", "XYZ")
	assert.True(t, errors.Is(err, currency.ErrUnknownCurrency))

	// Identity short-circuits before the table lookup.
	got, err := currency.Convert(decimal.NewFromInt(7), "XYZ", "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "7", got.String())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{amount: "12.5", code: "EUR", want: "€12.50"},
		{amount: "1234.567", code: "USD", want: "$1234.57"},
		{amount: "3", code: "CHF", want: "CHF3.00"},
		{amount: "-20", code: "BRL", want: "R$-20.00"},
		{amount: "8", code: "XYZ", want: "$8.00"},
	}

	for _, tt := range tests {
		t.Run(tt.code+"_"+tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, currency.Format(decimal.RequireFromString(tt.amount), tt.code))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, currency.Validate("CAD"))
	assert.ErrorIs(t, currency.Validate("cad"), currency.ErrUnknownCurrency)
	assert.Len(t, currency.Codes(), 10)
}
