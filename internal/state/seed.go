package state

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// Seed loads the sample data set into an empty backend. Transactions go in
// before budgets so the sample spent totals are not counted twice. A backend
// that already holds data is left untouched and seeded reports false.
func Seed(ctx context.Context, txs transaction.Repository, budgets budget.Repository) (seeded bool, err error) {
	existingBudgets, err := budgets.ListBudgets(ctx)
	if err != nil {
		return false, fmt.Errorf("list budgets: %w", err)
	}

	existingTxs, err := txs.ListTransactions(ctx, transaction.ListFilter{})
	if err != nil {
		return false, fmt.Errorf("list transactions: %w", err)
	}

	if len(existingBudgets) > 0 || len(existingTxs) > 0 {
		return false, nil
	}

	for _, tx := range SampleTransactions() {
		if err := txs.CreateTransaction(ctx, tx); err != nil {
			return false, fmt.Errorf("seed transaction %q: %w", tx.Description, err)
		}
	}

	for _, b := range SampleBudgets() {
		if err := budgets.CreateBudget(ctx, b); err != nil {
			return false, fmt.Errorf("seed budget %q: %w", b.Category, err)
		}
	}

	return true, nil
}
