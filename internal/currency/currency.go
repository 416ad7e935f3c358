package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency is returned when a code is not in the rate table.
var ErrUnknownCurrency = errors.New("unknown currency")

// Base is the pivot currency every rate is expressed against.
const Base = "USD"

// Currency describes a supported currency and its fixed rate to USD.
type Currency struct {
	Code   string
	Name   string
	Symbol string
	Rate   decimal.Decimal // units of this currency per 1 USD
}

// table is ordered the way currencies are presented to users.
var table = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$", Rate: decimal.RequireFromString("1")},
	{Code: "EUR", Name: "Euro", Symbol: "€", Rate: decimal.RequireFromString("0.85")},
	{Code: "GBP", Name: "British Pound", Symbol: "£", Rate: decimal.RequireFromString("0.73")},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Rate: decimal.RequireFromString("110.0")},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Rate: decimal.RequireFromString("1.25")},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Rate: decimal.RequireFromString("1.35")},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", Rate: decimal.RequireFromString("0.92")},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", Rate: decimal.RequireFromString("6.45")},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹", Rate: decimal.RequireFromString("74.5")},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$", Rate: decimal.RequireFromString("5.2")},
}

var byCode = func() map[string]Currency {
	m := make(map[string]Currency, len(table))
	for _, c := range table {
		m[c.Code] = c
	}

	return m
}()

// All returns the supported currencies in display order.
func All() []Currency {
	out := make([]Currency, len(table))
	copy(out, table)

	return out
}

// Codes returns the supported currency codes in display order.
func Codes() []string {
	codes := make([]string, len(table))
	for i, c := range table {
		codes[i] = c.Code
	}

	return codes
}

// Lookup returns the currency registered under code.
func Lookup(code string) (Currency, bool) {
	c, ok := byCode[code]
	return c, ok
}

// Supported reports whether code is in the rate table.
func Supported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Validate returns ErrUnknownCurrency wrapped with the offending code.
func Validate(code string) error {
	if !Supported(code) {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	return nil
}

// Convert converts amount between two currencies using USD as the pivot.
// Converting a currency to itself returns amount untouched.
func Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	src, ok := byCode[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("convert from %q: %w", from, ErrUnknownCurrency)
	}

	dst, ok := byCode[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("convert to %q: %w", to, ErrUnknownCurrency)
	}

	return amount.Div(src.Rate).Mul(dst.Rate), nil
}

// Format renders amount with the currency symbol and two decimals, e.g. "€12.50".
// Unknown codes fall back to "$".
func Format(amount decimal.Decimal, code string) string {
	symbol := "$"
	if c, ok := byCode[code]; ok {
		symbol = c.Symbol
	}

	return symbol + amount.StringFixed(2)
}
