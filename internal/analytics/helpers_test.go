package analytics_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func income(amount string, category string, on time.Time) *transaction.Transaction {
	return newTx(transaction.TypeIncome, amount, category, "", on)
}

func expense(amount string, category string, on time.Time) *transaction.Transaction {
	return newTx(transaction.TypeExpense, amount, category, "", on)
}

func newTx(typ transaction.Type, amount, category, desc string, on time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID:          uuid.New(),
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: desc,
		Date:        on,
		Currency:    "USD",
	}
}

func newBudget(category, limit, spent string) *budget.Budget {
	return &budget.Budget{
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(category)),
		Category: category,
		Limit:    decimal.RequireFromString(limit),
		Spent:    decimal.RequireFromString(spent),
		Period:   budget.PeriodMonthly,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
