package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

const dbTimeout = 5 * time.Second

var (
	errorColor   = lipgloss.Color("196")
	successColor = lipgloss.Color("46")
	warningColor = lipgloss.Color("214")
	accentColor  = lipgloss.Color("205")
	borderColor  = lipgloss.Color("240")
)

// FormatAmount renders an amount with the symbol of code, e.g. "€12.50".
func FormatAmount(amount decimal.Decimal, code string) string {
	return currency.Format(amount, code)
}

// FormatSigned prefixes the transaction amount with + for income and - for
// expenses.
func FormatSigned(tx *transaction.Transaction) string {
	sign := "-"
	if tx.Type == transaction.TypeIncome {
		sign = "+"
	}

	return sign + FormatAmount(tx.Amount, tx.Currency)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for storage operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(accentColor).Render(s)
}

func errorText(s string) string {
	return lipgloss.NewStyle().Foreground(errorColor).Render(s)
}

func successText(s string) string {
	return lipgloss.NewStyle().Foreground(successColor).Render(s)
}

func faint(s string) string {
	return lipgloss.NewStyle().Faint(true).Render(s)
}

func panel(title, body string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + body)
}
