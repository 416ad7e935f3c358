package state

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// Categories offered when recording a transaction.
var Categories = []string{
	"Salary",
	"Freelance",
	"Investment",
	"Rent",
	"Groceries",
	"Utilities",
	"Transportation",
	"Entertainment",
	"Healthcare",
	"Education",
	"Shopping",
	"Other",
}

func sampleID(n int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("fintrack:sample:"+strconv.Itoa(n)))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SampleTransactions returns the seed transactions.
func SampleTransactions() []*transaction.Transaction {
	created := day(2025, time.January, 1)

	rows := []struct {
		typ         transaction.Type
		amount      int64
		category    string
		description string
		date        time.Time
	}{
		{transaction.TypeIncome, 5000, "Salary", "Monthly salary", day(2025, time.January, 15)},
		{transaction.TypeExpense, 1200, "Rent", "Monthly rent payment", day(2025, time.January, 1)},
		{transaction.TypeExpense, 450, "Groceries", "Weekly grocery shopping", day(2025, time.January, 8)},
		{transaction.TypeExpense, 80, "Utilities", "Electricity bill", day(2025, time.January, 5)},
		{transaction.TypeIncome, 500, "Freelance", "Web development project", day(2025, time.August, 10)},
		{transaction.TypeExpense, 150, "Entertainment", "Movies and dining", day(2025, time.September, 12)},
	}

	txs := make([]*transaction.Transaction, len(rows))
	for i, r := range rows {
		txs[i] = &transaction.Transaction{
			ID:          sampleID(i + 1),
			Type:        r.typ,
			Amount:      decimal.NewFromInt(r.amount),
			Category:    r.category,
			Description: r.description,
			Date:        r.date,
			Currency:    "USD",
			CreatedAt:   created,
		}
	}

	return txs
}

// SampleBudgets returns the seed budgets.
func SampleBudgets() []*budget.Budget {
	rows := []struct {
		category     string
		limit, spent int64
	}{
		{"Groceries", 600, 450},
		{"Entertainment", 300, 150},
		{"Utilities", 200, 80},
		{"Transportation", 400, 0},
	}

	budgets := make([]*budget.Budget, len(rows))
	for i, r := range rows {
		budgets[i] = &budget.Budget{
			ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("fintrack:budget:"+r.category)),
			Category: r.category,
			Limit:    decimal.NewFromInt(r.limit),
			Spent:    decimal.NewFromInt(r.spent),
			Period:   budget.PeriodMonthly,
		}
	}

	return budgets
}
