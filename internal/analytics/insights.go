package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// InsightType classifies an insight for display.
type InsightType string

const (
	InsightWarning        InsightType = "warning"
	InsightTip            InsightType = "tip"
	InsightAchievement    InsightType = "achievement"
	InsightRecommendation InsightType = "recommendation"
)

// Impact ranks how much acting on an insight matters.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// MaxInsights caps how many insights a single evaluation returns.
const MaxInsights = 6

// Insight is a heuristic observation about spending behaviour.
type Insight struct {
	ID               uuid.UUID
	Type             InsightType
	Title            string
	Description      string
	Impact           Impact
	Category         string           // empty when not category specific
	PotentialSavings *decimal.Decimal // nil when the rule estimates none
}

// Rule thresholds. Amounts are compared against raw transaction amounts,
// whatever currency those are recorded in.
var (
	highSpendThreshold  = decimal.NewFromInt(500)
	budgetAlertPercent  = decimal.NewFromInt(90)
	trendIncreaseFactor = decimal.RequireFromString("1.2")
	trendDecreaseFactor = decimal.RequireFromString("0.8")
	smallPurchaseLimit  = decimal.NewFromInt(20)
	targetSavingsRate   = 20.0

	subscriptionMinCount  = 3
	smallPurchaseMinCount = 15

	highSpendSavings     = decimal.RequireFromString("0.2")
	subscriptionSavings  = decimal.RequireFromString("0.3")
	smallPurchaseSavings = decimal.RequireFromString("0.4")
	targetSavingsShare   = decimal.RequireFromString("0.2")
)

var insightNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("fintrack/insights"))

// insightID is stable for a given rule, subject and month so that identical
// inputs always produce identical insights.
func insightID(rule, subject string, p Period) uuid.UUID {
	return uuid.NewSHA1(insightNamespace, []byte(rule+"|"+subject+"|"+p.String()))
}

// Engine evaluates the insight rules relative to the current month.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock that decides which month is "this month".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine returns an engine that reads the wall clock unless WithClock is given.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// insightInput is what every rule sees.
type insightInput struct {
	current   Period
	all       []*transaction.Transaction
	thisMonth []*transaction.Transaction // expenses only
	lastMonth []*transaction.Transaction // expenses only
	budgets   []*budget.Budget
	thisTotal decimal.Decimal
	lastTotal decimal.Decimal
}

type rule func(in *insightInput) []Insight

// rules run in this order and the result keeps that order.
var rules = []rule{
	highCategorySpend,
	budgetAlerts,
	spendingTrend,
	subscriptionReview,
	savingsRate,
	smallPurchases,
}

// Insights evaluates every rule and returns at most MaxInsights results in
// rule order.
func (e *Engine) Insights(txs []*transaction.Transaction, budgets []*budget.Budget) []Insight {
	current := PeriodOf(e.now())
	previous := current.Previous()

	in := &insightInput{
		current: current,
		all:     txs,
		budgets: budgets,
	}

	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}

		switch {
		case current.Contains(tx.Date):
			in.thisMonth = append(in.thisMonth, tx)
			in.thisTotal = in.thisTotal.Add(tx.Amount)
		case previous.Contains(tx.Date):
			in.lastMonth = append(in.lastMonth, tx)
			in.lastTotal = in.lastTotal.Add(tx.Amount)
		}
	}

	var insights []Insight

	for _, r := range rules {
		insights = append(insights, r(in)...)
	}

	if len(insights) > MaxInsights {
		insights = insights[:MaxInsights]
	}

	return insights
}

func savings(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func dollars(d decimal.Decimal) string {
	return currency.Format(d, currency.Base)
}

func highCategorySpend(in *insightInput) []Insight {
	var (
		order []string
		sums  = make(map[string]decimal.Decimal)
	)

	for _, tx := range in.thisMonth {
		if _, seen := sums[tx.Category]; !seen {
			order = append(order, tx.Category)
		}

		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}

	if len(order) == 0 {
		return nil
	}

	top := order[0]
	for _, c := range order[1:] {
		if sums[c].GreaterThan(sums[top]) {
			top = c
		}
	}

	total := sums[top]
	if !total.GreaterThan(highSpendThreshold) {
		return nil
	}

	return []Insight{{
		ID:               insightID("high-spending", top, in.current),
		Type:             InsightWarning,
		Title:            fmt.Sprintf("High %s Spending", top),
		Description:      fmt.Sprintf("You've spent %s on %s this month. Consider reviewing these expenses.", dollars(total), top),
		Impact:           ImpactHigh,
		Category:         top,
		PotentialSavings: savings(total.Mul(highSpendSavings)),
	}}
}

func budgetAlerts(in *insightInput) []Insight {
	var out []Insight

	for _, b := range in.budgets {
		// spent/limit*100 > 90, kept in integer-friendly form so 90% exactly never fires.
		if !b.Limit.IsPositive() || !b.Spent.Mul(hundred).GreaterThan(b.Limit.Mul(budgetAlertPercent)) {
			continue
		}

		pct, _ := b.PercentUsed()

		out = append(out, Insight{
			ID:    insightID("budget-alert", b.ID.String(), in.current),
			Type:  InsightWarning,
			Title: fmt.Sprintf("%s Budget Alert", b.Category),
			Description: fmt.Sprintf("You've used %.1f%% of your %s budget. Only %s remaining.",
				pct, b.Category, dollars(b.Remaining())),
			Impact:   ImpactHigh,
			Category: b.Category,
		})
	}

	return out
}

func spendingTrend(in *insightInput) []Insight {
	this, last := in.thisTotal, in.lastTotal

	switch {
	case this.GreaterThan(last.Mul(trendIncreaseFactor)):
		desc := fmt.Sprintf("You spent %s this month after no spending last month.", dollars(this))
		if last.IsPositive() {
			desc = fmt.Sprintf("Your spending increased by %.1f%% compared to last month.", percentOf(this.Sub(last), last))
		}

		return []Insight{{
			ID:               insightID("spending-increase", "", in.current),
			Type:             InsightWarning,
			Title:            "Spending Increase Detected",
			Description:      desc,
			Impact:           ImpactMedium,
			PotentialSavings: savings(this.Sub(last)),
		}}
	case last.IsPositive() && this.LessThan(last.Mul(trendDecreaseFactor)):
		return []Insight{{
			ID:          insightID("spending-decrease", "", in.current),
			Type:        InsightAchievement,
			Title:       "Great Job Saving!",
			Description: fmt.Sprintf("You've reduced spending by %.1f%% this month. Keep it up!", percentOf(last.Sub(this), last)),
			Impact:      ImpactHigh,
		}}
	}

	return nil
}

// isSubscriptionLike flags recurring-looking expenses.
func isSubscriptionLike(tx *transaction.Transaction) bool {
	desc := strings.ToLower(tx.Description)

	return strings.Contains(desc, "subscription") ||
		strings.Contains(desc, "monthly") ||
		tx.Category == "Entertainment"
}

func subscriptionReview(in *insightInput) []Insight {
	var (
		count int
		total decimal.Decimal
	)

	for _, tx := range in.all {
		if tx.IsExpense() && isSubscriptionLike(tx) {
			count++
			total = total.Add(tx.Amount)
		}
	}

	if count <= subscriptionMinCount {
		return nil
	}

	return []Insight{{
		ID:    insightID("subscription-review", "", in.current),
		Type:  InsightTip,
		Title: "Review Your Subscriptions",
		Description: fmt.Sprintf("You have %d subscription-like expenses totaling %s. Consider canceling unused services.",
			count, dollars(total)),
		Impact:           ImpactMedium,
		PotentialSavings: savings(total.Mul(subscriptionSavings)),
	}}
}

// savingsRate compares all-time income against this month's expenses.
func savingsRate(in *insightInput) []Insight {
	var income decimal.Decimal

	for _, tx := range in.all {
		if !tx.IsExpense() {
			income = income.Add(tx.Amount)
		}
	}

	kept := income.Sub(in.thisTotal)

	rate := percentOf(kept, income)
	if rate >= targetSavingsRate {
		return nil
	}

	return []Insight{{
		ID:               insightID("savings-goal", "", in.current),
		Type:             InsightRecommendation,
		Title:            "Increase Your Savings Rate",
		Description:      fmt.Sprintf("Your current savings rate is %.1f%%. Aim for 20%% by reducing discretionary spending.", rate),
		Impact:           ImpactHigh,
		PotentialSavings: savings(income.Mul(targetSavingsShare).Sub(kept)),
	}}
}

func smallPurchases(in *insightInput) []Insight {
	var (
		count int
		total decimal.Decimal
	)

	for _, tx := range in.thisMonth {
		if tx.Amount.LessThan(smallPurchaseLimit) {
			count++
			total = total.Add(tx.Amount)
		}
	}

	if count <= smallPurchaseMinCount {
		return nil
	}

	return []Insight{{
		ID:               insightID("small-purchases", "", in.current),
		Type:             InsightTip,
		Title:            "Watch Small Purchases",
		Description:      fmt.Sprintf("You made %d small purchases totaling %s. These add up quickly!", count, dollars(total)),
		Impact:           ImpactMedium,
		PotentialSavings: savings(total.Mul(smallPurchaseSavings)),
	}}
}
