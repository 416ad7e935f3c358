package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

type Rating string

const (
	RatingExcellent        Rating = "Excellent"
	RatingGood             Rating = "Good"
	RatingFair             Rating = "Fair"
	RatingNeedsImprovement Rating = "Needs Improvement"
)

// RatingFor maps a composite score onto its display band.
func RatingFor(score int) Rating {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	case score >= 40:
		return RatingFair
	default:
		return RatingNeedsImprovement
	}
}

// HealthScore is a weighted composite of four sub-scores. None of the values
// are clamped to [0, 100]: heavy overspending drives adherence and the
// composite below zero.
type HealthScore struct {
	Score           int
	Rating          Rating
	SavingsRate     float64
	BudgetAdherence float64
	ExpenseControl  float64
	Diversification float64
}

const (
	savingsWeight         = 0.30
	adherenceWeight       = 0.25
	expenseControlWeight  = 0.25
	diversificationWeight = 0.20
)

// Health scores the given month. Transactions outside the period are ignored
// but budgets are taken as-is, whatever period their spent totals cover.
func Health(txs []*transaction.Transaction, budgets []*budget.Budget, period Period, code string) (HealthScore, error) {
	var t totals

	categories := make(map[string]struct{})

	for _, tx := range txs {
		if !period.Contains(tx.Date) {
			continue
		}

		amount, err := amountIn(tx, code)
		if err != nil {
			return HealthScore{}, err
		}

		t.add(tx, amount)
		categories[tx.Category] = struct{}{}
	}

	h := HealthScore{
		SavingsRate:     t.summary().SavingsRate,
		BudgetAdherence: Adherence(budgets),
		ExpenseControl:  expenseControl(t.income, t.expenses),
		Diversification: math.Min(float64(len(categories))*10, 100),
	}

	h.Score = roundHalfUp(savingsWeight*h.SavingsRate +
		adherenceWeight*h.BudgetAdherence +
		expenseControlWeight*h.ExpenseControl +
		diversificationWeight*h.Diversification)
	h.Rating = RatingFor(h.Score)

	return h, nil
}

// Adherence averages min(headroom%, 100) across budgets. A budget with a zero
// limit contributes 0. With no budgets at all the result is 100.
func Adherence(budgets []*budget.Budget) float64 {
	if len(budgets) == 0 {
		return 100
	}

	var sum float64

	for _, b := range budgets {
		if b.Limit.IsZero() {
			continue
		}

		sum += math.Min(percentOf(b.Remaining(), b.Limit), 100)
	}

	return sum / float64(len(budgets))
}

func expenseControl(income, expenses decimal.Decimal) float64 {
	ratio := 100.0
	if income.IsPositive() {
		ratio = percentOf(expenses, income)
	}

	return math.Max(0, 100-ratio)
}

// roundHalfUp rounds halves towards positive infinity, so -2.5 becomes -2.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
