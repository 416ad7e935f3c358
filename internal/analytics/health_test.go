package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/analytics"
	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

func TestAdherence(t *testing.T) {
	tests := []struct {
		name    string
		budgets []*budget.Budget
		want    float64
	}{
		{name: "NoBudgets", want: 100},
		{name: "SingleUnderLimit", budgets: []*budget.Budget{newBudget("Groceries", "600", "450")}, want: 25},
		{name: "Untouched", budgets: []*budget.Budget{newBudget("Travel", "400", "0")}, want: 100},
		{name: "OverLimitGoesNegative", budgets: []*budget.Budget{newBudget("Dining", "100", "300")}, want: -200},
		{
			name: "ZeroLimitCountsAsZero",
			budgets: []*budget.Budget{
				newBudget("Groceries", "600", "450"),
				newBudget("Misc", "0", "0"),
			},
			want: 12.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, analytics.Adherence(tt.budgets), 1e-9)
		})
	}
}

func TestHealth(t *testing.T) {
	jan := analytics.Period{Year: 2025, Month: time.January}

	txs := []*transaction.Transaction{
		income("1000", "Salary", date(2025, time.January, 1)),
		expense("400", "Rent", date(2025, time.January, 2)),
		expense("5000", "Travel", date(2024, time.December, 20)),
	}

	h, err := analytics.Health(txs, nil, jan, "USD")
	require.NoError(t, err)

	assert.InDelta(t, 60, h.SavingsRate, 1e-9)
	assert.InDelta(t, 100, h.BudgetAdherence, 1e-9)
	assert.InDelta(t, 60, h.ExpenseControl, 1e-9)
	assert.InDelta(t, 20, h.Diversification, 1e-9)
	assert.Equal(t, 62, h.Score)
	assert.Equal(t, analytics.RatingGood, h.Rating)
}

func TestHealth_NoIncome(t *testing.T) {
	jan := analytics.Period{Year: 2025, Month: time.January}
	txs := []*transaction.Transaction{expense("100", "Food", date(2025, time.January, 2))}

	h, err := analytics.Health(txs, []*budget.Budget{newBudget("Food", "100", "100")}, jan, "USD")
	require.NoError(t, err)

	assert.Zero(t, h.SavingsRate)
	assert.Zero(t, h.ExpenseControl)
	assert.Zero(t, h.BudgetAdherence)
	assert.InDelta(t, 10, h.Diversification, 1e-9)
	assert.Equal(t, 2, h.Score)
	assert.Equal(t, analytics.RatingNeedsImprovement, h.Rating)
}

func TestHealth_DiversificationCaps(t *testing.T) {
	jan := analytics.Period{Year: 2025, Month: time.January}

	var txs []*transaction.Transaction
	for _, c := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		txs = append(txs, expense("1", c, date(2025, time.January, 3)))
	}

	h, err := analytics.Health(txs, nil, jan, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 100, h.Diversification, 1e-9)
}

func TestHealth_OverspendingIsNotClamped(t *testing.T) {
	jan := analytics.Period{Year: 2025, Month: time.January}
	budgets := []*budget.Budget{newBudget("Dining", "100", "1000")}

	h, err := analytics.Health(nil, budgets, jan, "USD")
	require.NoError(t, err)

	// 0.25 * -900
	assert.Equal(t, -225, h.Score)
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		score int
		want  analytics.Rating
	}{
		{100, analytics.RatingExcellent},
		{80, analytics.RatingExcellent},
		{79, analytics.RatingGood},
		{60, analytics.RatingGood},
		{59, analytics.RatingFair},
		{40, analytics.RatingFair},
		{39, analytics.RatingNeedsImprovement},
		{-20, analytics.RatingNeedsImprovement},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, analytics.RatingFor(tt.score), "score %d", tt.score)
	}
}
