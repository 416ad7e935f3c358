package analytics

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

type BudgetStatus string

const (
	StatusOK         BudgetStatus = "ok"
	StatusNearLimit  BudgetStatus = "near_limit"
	StatusOverBudget BudgetStatus = "over_budget"
	StatusNoBudget   BudgetStatus = "no_budget"
)

const nearLimitPercent = 80.0

// BudgetLine is one row of the budget overview: either Configured or
// Unconfigured.
type BudgetLine interface {
	Category() string
	Spent() decimal.Decimal
	Status() BudgetStatus

	budgetLine()
}

// Configured is a category with a budget. PeriodSpent is the converted spend
// observed in the selected month; Budget.Spent keeps the stored running total.
type Configured struct {
	Budget      *budget.Budget
	PeriodSpent decimal.Decimal
}

func (c Configured) Category() string       { return c.Budget.Category }
func (c Configured) Spent() decimal.Decimal { return c.PeriodSpent }
func (Configured) budgetLine()              {}

// PercentUsed is period spend against the limit, 0 when the limit is zero.
func (c Configured) PercentUsed() float64 {
	return percentOf(c.PeriodSpent, c.Budget.Limit)
}

// Remaining never goes below zero.
func (c Configured) Remaining() decimal.Decimal {
	return decimal.Max(decimal.Zero, c.Budget.Limit.Sub(c.PeriodSpent))
}

func (c Configured) Status() BudgetStatus {
	if c.Budget.Limit.IsZero() {
		if c.PeriodSpent.IsPositive() {
			return StatusOverBudget
		}

		return StatusOK
	}

	switch pct := c.PercentUsed(); {
	case pct > 100:
		return StatusOverBudget
	case pct > nearLimitPercent:
		return StatusNearLimit
	default:
		return StatusOK
	}
}

// Unconfigured is a category that has expenses but no budget.
type Unconfigured struct {
	Name          string
	ObservedSpend decimal.Decimal
}

func (u Unconfigured) Category() string       { return u.Name }
func (u Unconfigured) Spent() decimal.Decimal { return u.ObservedSpend }
func (Unconfigured) Status() BudgetStatus     { return StatusNoBudget }
func (Unconfigured) budgetLine()              {}

// BudgetOverview lists every configured budget plus every expense category
// without one, with spend taken from the selected period. Lines are sorted by
// spend, largest first.
func BudgetOverview(txs []*transaction.Transaction, budgets []*budget.Budget, period Period, code string) ([]BudgetLine, error) {
	var (
		order []string
		spent = make(map[string]decimal.Decimal)
	)

	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}

		if _, seen := spent[tx.Category]; !seen {
			order = append(order, tx.Category)
			spent[tx.Category] = decimal.Zero
		}

		if !period.Contains(tx.Date) {
			continue
		}

		amount, err := amountIn(tx, code)
		if err != nil {
			return nil, err
		}

		spent[tx.Category] = spent[tx.Category].Add(amount)
	}

	lines := make([]BudgetLine, 0, len(budgets)+len(order))
	configured := make(map[string]struct{}, len(budgets))

	for _, b := range budgets {
		configured[b.Category] = struct{}{}
		lines = append(lines, Configured{Budget: b, PeriodSpent: spent[b.Category]})
	}

	for _, c := range order {
		if _, ok := configured[c]; ok {
			continue
		}

		lines = append(lines, Unconfigured{Name: c, ObservedSpend: spent[c]})
	}

	slices.SortStableFunc(lines, func(a, b BudgetLine) int {
		return b.Spent().Cmp(a.Spent())
	})

	return lines, nil
}
