package analytics

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// CategoryTotal is the converted sum of one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
	Share    float64 // percentage of the breakdown total
}

// CategoryBreakdown sums the period's transactions of type typ per category,
// largest first. Ties keep first-seen order.
func CategoryBreakdown(txs []*transaction.Transaction, period Period, typ transaction.Type, code string) ([]CategoryTotal, error) {
	var filtered []*transaction.Transaction

	for _, tx := range txs {
		if tx.Type == typ && period.Contains(tx.Date) {
			filtered = append(filtered, tx)
		}
	}

	return sumByCategory(filtered, code)
}

func sumByCategory(txs []*transaction.Transaction, code string) ([]CategoryTotal, error) {
	var (
		out   []CategoryTotal
		index = make(map[string]int)
		total decimal.Decimal
	)

	for _, tx := range txs {
		amount, err := amountIn(tx, code)
		if err != nil {
			return nil, err
		}

		total = total.Add(amount)

		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryTotal{Category: tx.Category})
		}

		out[i].Amount = out[i].Amount.Add(amount)
	}

	for i := range out {
		out[i].Share = percentOf(out[i].Amount, total)
	}

	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		return b.Amount.Cmp(a.Amount)
	})

	return out, nil
}

// MonthTotals is one month of an annual overview.
type MonthTotals struct {
	Month    time.Month
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// AnnualOverview covers one calendar year.
type AnnualOverview struct {
	Year   int
	Months []MonthTotals // always 12 entries, January first

	YTDIncome   decimal.Decimal
	YTDExpenses decimal.Decimal
	YTDNet      decimal.Decimal

	AvgMonthlyIncome        decimal.Decimal
	AvgMonthlyExpenses      decimal.Decimal
	ProjectedYearlyIncome   decimal.Decimal
	ProjectedYearlyExpenses decimal.Decimal
	TopExpenseCategories    []CategoryTotal
}

const topCategoryCount = 6

// Annual builds the month-by-month view of year. Year-to-date figures run
// through the month of now when now falls in year, and over the full year
// otherwise.
func Annual(txs []*transaction.Transaction, year int, code string, now time.Time) (AnnualOverview, error) {
	ov := AnnualOverview{
		Year:   year,
		Months: make([]MonthTotals, 12),
	}

	for i := range ov.Months {
		ov.Months[i].Month = time.Month(i + 1)
	}

	var expenses []*transaction.Transaction

	for _, tx := range txs {
		if tx.Date.Year() != year {
			continue
		}

		amount, err := amountIn(tx, code)
		if err != nil {
			return AnnualOverview{}, err
		}

		m := &ov.Months[tx.Date.Month()-1]
		if tx.IsExpense() {
			m.Expenses = m.Expenses.Add(amount)
			expenses = append(expenses, tx)
		} else {
			m.Income = m.Income.Add(amount)
		}
	}

	elapsed := 12
	if current := PeriodOf(now); current.Year == year {
		elapsed = int(current.Month)
	}

	for i := range ov.Months {
		m := &ov.Months[i]
		m.Net = m.Income.Sub(m.Expenses)

		if i < elapsed {
			ov.YTDIncome = ov.YTDIncome.Add(m.Income)
			ov.YTDExpenses = ov.YTDExpenses.Add(m.Expenses)
		}
	}

	ov.YTDNet = ov.YTDIncome.Sub(ov.YTDExpenses)

	n := decimal.NewFromInt(int64(elapsed))
	twelve := decimal.NewFromInt(12)
	ov.AvgMonthlyIncome = ov.YTDIncome.Div(n)
	ov.AvgMonthlyExpenses = ov.YTDExpenses.Div(n)
	ov.ProjectedYearlyIncome = ov.AvgMonthlyIncome.Mul(twelve)
	ov.ProjectedYearlyExpenses = ov.AvgMonthlyExpenses.Mul(twelve)

	top, err := sumByCategory(expenses, code)
	if err != nil {
		return AnnualOverview{}, err
	}

	if len(top) > topCategoryCount {
		top = top[:topCategoryCount]
	}

	ov.TopExpenseCategories = top

	return ov, nil
}

// DayTotals is one day of a daily trend.
type DayTotals struct {
	Day                int
	Income             decimal.Decimal
	Expenses           decimal.Decimal
	Net                decimal.Decimal
	CumulativeExpenses decimal.Decimal
}

// DailyTrend returns one entry per calendar day of the period.
func DailyTrend(txs []*transaction.Transaction, period Period, code string) ([]DayTotals, error) {
	days := make([]DayTotals, period.Days())
	for i := range days {
		days[i].Day = i + 1
	}

	for _, tx := range txs {
		if !period.Contains(tx.Date) {
			continue
		}

		amount, err := amountIn(tx, code)
		if err != nil {
			return nil, err
		}

		d := &days[tx.Date.Day()-1]
		if tx.IsExpense() {
			d.Expenses = d.Expenses.Add(amount)
		} else {
			d.Income = d.Income.Add(amount)
		}
	}

	var running decimal.Decimal

	for i := range days {
		running = running.Add(days[i].Expenses)
		days[i].Net = days[i].Income.Sub(days[i].Expenses)
		days[i].CumulativeExpenses = running
	}

	return days, nil
}

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// stableBand is the percentage change within which spending counts as flat.
const stableBand = 10.0

// Comparison contrasts a month's expenses with the month before.
type Comparison struct {
	Period    Period
	Current   decimal.Decimal
	Previous  decimal.Decimal
	ChangePct float64 // 0 when the previous month had no expenses
	Direction Direction
}

func MonthOverMonth(txs []*transaction.Transaction, period Period, code string) (Comparison, error) {
	prev := period.Previous()
	c := Comparison{Period: period}

	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}

		in := period.Contains(tx.Date)
		if !in && !prev.Contains(tx.Date) {
			continue
		}

		amount, err := amountIn(tx, code)
		if err != nil {
			return Comparison{}, err
		}

		if in {
			c.Current = c.Current.Add(amount)
		} else {
			c.Previous = c.Previous.Add(amount)
		}
	}

	c.ChangePct = percentOf(c.Current.Sub(c.Previous), c.Previous)

	switch {
	case c.ChangePct > stableBand:
		c.Direction = DirectionUp
	case c.ChangePct < -stableBand:
		c.Direction = DirectionDown
	default:
		c.Direction = DirectionStable
	}

	return c, nil
}
