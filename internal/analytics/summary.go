package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// Summary aggregates income and expenses, all in one currency.
// SavingsRate is a percentage and is 0 when there is no income.
type Summary struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	NetIncome        decimal.Decimal
	SavingsRate      float64
	MonthlyAverage   decimal.Decimal
	YearlyProjection decimal.Decimal
}

// Report pairs the all-time summary with the summary of a selected month.
type Report struct {
	Currency string
	Period   Period
	AllTime  Summary
	Selected Summary
}

type totals struct {
	income   decimal.Decimal
	expenses decimal.Decimal
}

func (t *totals) add(tx *transaction.Transaction, amount decimal.Decimal) {
	if tx.IsExpense() {
		t.expenses = t.expenses.Add(amount)
		return
	}

	t.income = t.income.Add(amount)
}

func (t totals) summary() Summary {
	net := t.income.Sub(t.expenses)

	return Summary{
		TotalIncome:   t.income,
		TotalExpenses: t.expenses,
		NetIncome:     net,
		SavingsRate:   percentOf(net, t.income),
	}
}

// Summarize converts every transaction into code and computes the all-time
// and selected-period summaries.
//
// The all-time monthly average divides total expenses by the number of
// distinct months that have at least one transaction, not by elapsed
// calendar months. The selected-period average is that month's expenses.
func Summarize(txs []*transaction.Transaction, period Period, code string) (Report, error) {
	var all, selected totals

	months := make(map[Period]struct{})

	for _, tx := range txs {
		amount, err := amountIn(tx, code)
		if err != nil {
			return Report{}, err
		}

		all.add(tx, amount)
		months[PeriodOf(tx.Date)] = struct{}{}

		if period.Contains(tx.Date) {
			selected.add(tx, amount)
		}
	}

	allTime := all.summary()
	if len(months) > 0 {
		allTime.MonthlyAverage = all.expenses.Div(decimal.NewFromInt(int64(len(months))))
	}

	allTime.YearlyProjection = allTime.MonthlyAverage.Mul(decimal.NewFromInt(12))

	sel := selected.summary()
	sel.MonthlyAverage = selected.expenses
	sel.YearlyProjection = selected.expenses.Mul(decimal.NewFromInt(12))

	return Report{
		Currency: code,
		Period:   period,
		AllTime:  allTime,
		Selected: sel,
	}, nil
}
