// Package analytics derives dashboard metrics from transactions and budgets:
// period summaries, rule-based insights, a composite health score and
// category, daily, monthly and budget breakdowns.
//
// Every function is pure. Inputs are read, never modified, and every call
// recomputes from scratch.
package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the month t falls in, read in UTC like stored
// transaction dates.
func PeriodOf(t time.Time) Period {
	t = t.UTC()

	return Period{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether t falls within the period, read in UTC.
func (p Period) Contains(t time.Time) bool {
	return PeriodOf(t) == p
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}

	return Period{Year: p.Year, Month: p.Month - 1}
}

// Next returns the month after p.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}

	return Period{Year: p.Year, Month: p.Month + 1}
}

// Start returns midnight UTC on the first day of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the last day of the period.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// Days returns the number of days in the period.
func (p Period) Days() int {
	return p.End().Day()
}

// String renders the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Valid reports whether Month is between January and December.
func (p Period) Valid() bool {
	return p.Month >= time.January && p.Month <= time.December
}

var hundred = decimal.NewFromInt(100)

// amountIn returns the transaction amount converted into code.
func amountIn(tx *transaction.Transaction, code string) (decimal.Decimal, error) {
	amount, err := currency.Convert(tx.Amount, tx.Currency, code)
	if err != nil {
		return decimal.Zero, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	return amount, nil
}

// percentOf returns part/whole*100, or 0 when whole is zero.
func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}

	return part.Div(whole).Mul(hundred).InexactFloat64()
}
