package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/analytics"
	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

func TestSummarize(t *testing.T) {
	jan := analytics.Period{Year: 2025, Month: time.January}

	tests := []struct {
		name        string
		txs         []*transaction.Transaction
		period      analytics.Period
		wantIncome  string
		wantExpense string
		wantNet     string
		wantRate    float64
	}{
		{
			name: "DeficitMonth",
			txs: []*transaction.Transaction{
				income("1000", "Salary", date(2025, time.January, 10)),
				expense("1200", "Rent", date(2025, time.January, 1)),
			},
			period:      jan,
			wantIncome:  "1000",
			wantExpense: "1200",
			wantNet:     "-200",
			wantRate:    -20,
		},
		{
			name: "NoIncome",
			txs: []*transaction.Transaction{
				expense("50", "Food", date(2025, time.January, 3)),
			},
			period:      jan,
			wantIncome:  "0",
			wantExpense: "50",
			wantNet:     "-50",
			wantRate:    0,
		},
		{
			name: "OtherMonthsIgnored",
			txs: []*transaction.Transaction{
				income("2000", "Salary", date(2025, time.January, 1)),
				expense("500", "Rent", date(2025, time.January, 2)),
				expense("900", "Rent", date(2024, time.January, 2)),
				income("100", "Gift", date(2025, time.February, 1)),
			},
			period:      jan,
			wantIncome:  "2000",
			wantExpense: "500",
			wantNet:     "1500",
			wantRate:    75,
		},
		{
			name:        "Empty",
			period:      jan,
			wantIncome:  "0",
			wantExpense: "0",
			wantNet:     "0",
			wantRate:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := analytics.Summarize(tt.txs, tt.period, "USD")
			require.NoError(t, err)

			got := report.Selected
			assert.True(t, dec(tt.wantIncome).Equal(got.TotalIncome), "income %s", got.TotalIncome)
			assert.True(t, dec(tt.wantExpense).Equal(got.TotalExpenses), "expenses %s", got.TotalExpenses)
			assert.True(t, dec(tt.wantNet).Equal(got.NetIncome), "net %s", got.NetIncome)
			assert.InDelta(t, tt.wantRate, got.SavingsRate, 1e-9)

			for _, s := range []analytics.Summary{report.AllTime, report.Selected} {
				assert.True(t, s.NetIncome.Equal(s.TotalIncome.Sub(s.TotalExpenses)))
			}
		})
	}
}

func TestSummarize_MonthlyAverageCountsActiveMonths(t *testing.T) {
	txs := []*transaction.Transaction{
		expense("100", "Food", date(2025, time.January, 5)),
		expense("200", "Food", date(2025, time.March, 5)),
		income("300", "Salary", date(2025, time.March, 1)),
	}

	report, err := analytics.Summarize(txs, analytics.Period{Year: 2025, Month: time.March}, "USD")
	require.NoError(t, err)

	assert.True(t, dec("150").Equal(report.AllTime.MonthlyAverage), "got %s", report.AllTime.MonthlyAverage)
	assert.True(t, dec("1800").Equal(report.AllTime.YearlyProjection))

	assert.True(t, dec("200").Equal(report.Selected.MonthlyAverage))
	assert.True(t, dec("2400").Equal(report.Selected.YearlyProjection))
}

func TestSummarize_ConvertsToPreferredCurrency(t *testing.T) {
	tx := income("85", "Salary", date(2025, time.May, 1))
	tx.Currency = "EUR"

	report, err := analytics.Summarize([]*transaction.Transaction{tx}, analytics.Period{Year: 2025, Month: time.May}, "USD")
	require.NoError(t, err)

	assert.True(t, dec("100").Equal(report.Selected.TotalIncome), "got %s", report.Selected.TotalIncome)
	assert.Equal(t, "USD", report.Currency)
}

func TestSummarize_UnknownCurrency(t *testing.T) {
	tx := expense("10", "Food", date(2025, time.May, 1))
	tx.Currency = "XYZ"

	_, err := analytics.Summarize([]*transaction.Transaction{tx}, analytics.Period{Year: 2025, Month: time.May}, "USD")
	require.ErrorIs(t, err, currency.ErrUnknownCurrency)
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	tx := expense("10", "Food", date(2025, time.May, 1))
	tx.Currency = "EUR"
	before := *tx

	_, err := analytics.Summarize([]*transaction.Transaction{tx}, analytics.Period{Year: 2025, Month: time.May}, "JPY")
	require.NoError(t, err)

	assert.Equal(t, before, *tx)
}

func TestPeriod(t *testing.T) {
	p := analytics.Period{Year: 2025, Month: time.January}

	assert.Equal(t, analytics.Period{Year: 2024, Month: time.December}, p.Previous())
	assert.Equal(t, analytics.Period{Year: 2025, Month: time.February}, p.Next())
	assert.Equal(t, analytics.Period{Year: 2026, Month: time.January}, analytics.Period{Year: 2025, Month: time.December}.Next())
	assert.Equal(t, "2025-01", p.String())
	assert.Equal(t, 31, p.Days())
	assert.Equal(t, 28, analytics.Period{Year: 2025, Month: time.February}.Days())
	assert.Equal(t, 29, analytics.Period{Year: 2024, Month: time.February}.Days())
	assert.True(t, p.Contains(date(2025, time.January, 31)))
	assert.False(t, p.Contains(date(2025, time.February, 1)))
	assert.False(t, analytics.Period{Year: 2025}.Valid())
}

func TestPeriodOf_ReadsUTC(t *testing.T) {
	newYork := time.FixedZone("UTC-5", -5*60*60)
	auckland := time.FixedZone("UTC+13", 13*60*60)

	tests := []struct {
		name string
		at   time.Time
		want analytics.Period
	}{
		{
			name: "LocalEveningIsNextMonthInUTC",
			at:   time.Date(2025, time.January, 31, 22, 0, 0, 0, newYork),
			want: analytics.Period{Year: 2025, Month: time.February},
		},
		{
			name: "LocalMorningIsPreviousYearInUTC",
			at:   time.Date(2025, time.January, 1, 9, 0, 0, 0, auckland),
			want: analytics.Period{Year: 2024, Month: time.December},
		},
		{
			name: "UTCMidnight",
			at:   date(2025, time.March, 1),
			want: analytics.Period{Year: 2025, Month: time.March},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.PeriodOf(tt.at))
			assert.True(t, tt.want.Contains(tt.at))
		})
	}
}
