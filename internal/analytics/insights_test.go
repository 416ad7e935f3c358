package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fintrack/internal/analytics"
	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

var march15 = date(2025, time.March, 15)

func newEngine() *analytics.Engine {
	return analytics.NewEngine(analytics.WithClock(func() time.Time { return march15 }))
}

func findInsight(insights []analytics.Insight, title string) (analytics.Insight, bool) {
	for _, in := range insights {
		if in.Title == title {
			return in, true
		}
	}

	return analytics.Insight{}, false
}

func TestInsights_BudgetAlertThreshold(t *testing.T) {
	tests := []struct {
		name  string
		limit string
		spent string
		want  bool
	}{
		{name: "ExactlyNinety", limit: "100", spent: "90", want: false},
		{name: "JustOver", limit: "100", spent: "90.01", want: true},
		{name: "OverLimit", limit: "200", spent: "250", want: true},
		{name: "Under", limit: "600", spent: "450", want: false},
		{name: "ZeroLimit", limit: "0", spent: "10", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budgets := []*budget.Budget{newBudget("Groceries", tt.limit, tt.spent)}

			got := newEngine().Insights(nil, budgets)

			alert, ok := findInsight(got, "Groceries Budget Alert")
			assert.Equal(t, tt.want, ok)

			if ok {
				assert.Equal(t, analytics.InsightWarning, alert.Type)
				assert.Equal(t, analytics.ImpactHigh, alert.Impact)
				assert.Equal(t, "Groceries", alert.Category)
			}
		})
	}
}

func TestInsights_SpendingTrend(t *testing.T) {
	tests := []struct {
		name      string
		last      string
		this      string
		wantTitle string
		wantType  analytics.InsightType
	}{
		{name: "Increase", last: "100", this: "121", wantTitle: "Spending Increase Detected", wantType: analytics.InsightWarning},
		{name: "DeadZoneHigh", last: "100", this: "119"},
		{name: "DeadZoneLow", last: "100", this: "81"},
		{name: "Decrease", last: "100", this: "79", wantTitle: "Great Job Saving!", wantType: analytics.InsightAchievement},
		{name: "NothingLastMonth", last: "0", this: "50", wantTitle: "Spending Increase Detected", wantType: analytics.InsightWarning},
		{name: "NothingAtAll", last: "0", this: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := []*transaction.Transaction{
				expense(tt.last, "Misc", date(2025, time.February, 10)),
				expense(tt.this, "Misc", date(2025, time.March, 10)),
			}

			got := newEngine().Insights(txs, nil)

			_, up := findInsight(got, "Spending Increase Detected")
			_, down := findInsight(got, "Great Job Saving!")

			if tt.wantTitle == "" {
				assert.False(t, up)
				assert.False(t, down)

				return
			}

			in, ok := findInsight(got, tt.wantTitle)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, in.Type)
		})
	}
}

func TestInsights_IncreaseSavingsIsDifference(t *testing.T) {
	txs := []*transaction.Transaction{
		expense("100", "Misc", date(2025, time.February, 10)),
		expense("150", "Misc", date(2025, time.March, 10)),
	}

	in, ok := findInsight(newEngine().Insights(txs, nil), "Spending Increase Detected")
	require.True(t, ok)
	require.NotNil(t, in.PotentialSavings)
	assert.True(t, dec("50").Equal(*in.PotentialSavings))
	assert.Equal(t, "Your spending increased by 50.0% compared to last month.", in.Description)
}

func TestInsights_HighCategorySpend(t *testing.T) {
	txs := []*transaction.Transaction{
		expense("300", "Shopping", date(2025, time.March, 1)),
		expense("250", "Shopping", date(2025, time.March, 2)),
		expense("400", "Rent", date(2025, time.March, 3)),
		expense("900", "Travel", date(2025, time.February, 3)),
	}

	in, ok := findInsight(newEngine().Insights(txs, nil), "High Shopping Spending")
	require.True(t, ok)
	assert.Equal(t, "Shopping", in.Category)
	assert.True(t, dec("110").Equal(*in.PotentialSavings))
	assert.Equal(t, "You've spent $550.00 on Shopping this month. Consider reviewing these expenses.", in.Description)
}

func TestInsights_CurrentMonthFollowsStoredDatesInUTC(t *testing.T) {
	// 22:00 on January 31st in UTC-5 is already February 1st in UTC.
	clock := time.Date(2025, time.January, 31, 22, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	engine := analytics.NewEngine(analytics.WithClock(func() time.Time { return clock }))

	txs := []*transaction.Transaction{expense("700", "Rent", date(2025, time.February, 1))}

	in, ok := findInsight(engine.Insights(txs, nil), "High Rent Spending")
	require.True(t, ok)
	assert.Equal(t, "Rent", in.Category)
}

func TestInsights_HighCategoryAtThresholdDoesNotFire(t *testing.T) {
	txs := []*transaction.Transaction{expense("500", "Rent", date(2025, time.March, 1))}

	_, ok := findInsight(newEngine().Insights(txs, nil), "High Rent Spending")
	assert.False(t, ok)
}

func TestInsights_Subscriptions(t *testing.T) {
	txs := []*transaction.Transaction{
		newTx(transaction.TypeExpense, "10", "Media", "Netflix subscription", date(2024, time.June, 1)),
		newTx(transaction.TypeExpense, "10", "Media", "MONTHLY gym", date(2024, time.July, 1)),
		newTx(transaction.TypeExpense, "20", "Entertainment", "Cinema", date(2025, time.January, 1)),
	}

	_, ok := findInsight(newEngine().Insights(txs, nil), "Review Your Subscriptions")
	assert.False(t, ok, "three matches must not fire")

	txs = append(txs, newTx(transaction.TypeExpense, "20", "Entertainment", "Concert", date(2025, time.March, 1)))

	in, ok := findInsight(newEngine().Insights(txs, nil), "Review Your Subscriptions")
	require.True(t, ok)
	assert.Equal(t, analytics.InsightTip, in.Type)
	assert.True(t, dec("18").Equal(*in.PotentialSavings), "got %s", in.PotentialSavings)
}

func TestInsights_SavingsRate(t *testing.T) {
	txs := []*transaction.Transaction{
		income("1000", "Salary", date(2025, time.January, 1)),
		expense("900", "Rent", date(2025, time.March, 1)),
	}

	in, ok := findInsight(newEngine().Insights(txs, nil), "Increase Your Savings Rate")
	require.True(t, ok)
	assert.Equal(t, analytics.InsightRecommendation, in.Type)
	assert.True(t, dec("100").Equal(*in.PotentialSavings), "got %s", in.PotentialSavings)
	assert.Equal(t, "Your current savings rate is 10.0%. Aim for 20% by reducing discretionary spending.", in.Description)

	txs[1] = expense("800", "Rent", date(2025, time.March, 1))

	_, ok = findInsight(newEngine().Insights(txs, nil), "Increase Your Savings Rate")
	assert.False(t, ok, "exactly 20% meets the target")
}

func TestInsights_SmallPurchases(t *testing.T) {
	var txs []*transaction.Transaction

	for i := range 15 {
		txs = append(txs, expense("5", "Coffee", date(2025, time.March, i+1)))
	}

	txs = append(txs, expense("20", "Coffee", date(2025, time.March, 20)))

	_, ok := findInsight(newEngine().Insights(txs, nil), "Watch Small Purchases")
	assert.False(t, ok, "20 is not a small purchase")

	txs = append(txs, expense("19.99", "Coffee", date(2025, time.March, 21)))

	in, ok := findInsight(newEngine().Insights(txs, nil), "Watch Small Purchases")
	require.True(t, ok)
	assert.Equal(t, "You made 16 small purchases totaling $94.99. These add up quickly!", in.Description)
}

func TestInsights_CappedAndOrdered(t *testing.T) {
	txs := []*transaction.Transaction{expense("600", "Groceries", date(2025, time.March, 1))}

	for i := range 4 {
		txs = append(txs, expense("10", "Entertainment", date(2025, time.March, i+2)))
	}

	for i := range 16 {
		txs = append(txs, expense("5", "Coffee", date(2025, time.March, i+6)))
	}

	budgets := []*budget.Budget{
		newBudget("Groceries", "600", "600"),
		newBudget("Entertainment", "40", "40"),
		newBudget("Coffee", "80", "80"),
	}

	got := newEngine().Insights(txs, budgets)
	require.Len(t, got, analytics.MaxInsights)

	titles := make([]string, 0, len(got))
	for _, in := range got {
		titles = append(titles, in.Title)
	}

	assert.Equal(t, []string{
		"High Groceries Spending",
		"Groceries Budget Alert",
		"Entertainment Budget Alert",
		"Coffee Budget Alert",
		"Spending Increase Detected",
		"Review Your Subscriptions",
	}, titles)
}

func TestInsights_Deterministic(t *testing.T) {
	txs := []*transaction.Transaction{
		expense("700", "Rent", date(2025, time.March, 1)),
		expense("100", "Rent", date(2025, time.February, 1)),
	}
	budgets := []*budget.Budget{newBudget("Rent", "700", "700")}

	first := newEngine().Insights(txs, budgets)
	second := newEngine().Insights(txs, budgets)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	seen := make(map[string]struct{})
	for _, in := range first {
		_, dup := seen[in.ID.String()]
		assert.False(t, dup, fmt.Sprintf("duplicate id for %q", in.Title))
		seen[in.ID.String()] = struct{}{}
	}

	later := analytics.NewEngine(analytics.WithClock(func() time.Time { return date(2025, time.April, 1) }))
	for _, in := range later.Insights(txs, budgets) {
		if in.Title == "Rent Budget Alert" {
			assert.NotEqual(t, first[1].ID, in.ID, "ids are scoped to the month")
		}
	}
}

func TestInsights_DoesNotMutateInput(t *testing.T) {
	b := newBudget("Rent", "100", "95")
	before := *b

	newEngine().Insights([]*transaction.Transaction{expense("95", "Rent", march15)}, []*budget.Budget{b})

	assert.Equal(t, before, *b)
}
