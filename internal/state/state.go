// Package state holds the in-memory application state: transactions,
// budgets and preferences behind a single lock. It implements the
// transaction, budget and preferences repositories so that inserting an
// expense and bumping its budget happen as one step.
package state

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/preferences"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

type State struct {
	mu           sync.RWMutex
	importMu     sync.Mutex
	transactions []*transaction.Transaction
	budgets      []*budget.Budget
	prefs        preferences.Preferences
	now          func() time.Time
}

// New returns an empty state with default preferences.
func New() *State {
	return &State{
		prefs: preferences.Default(),
		now:   time.Now,
	}
}

// NewSeeded returns a state populated with the sample data set.
func NewSeeded() *State {
	s := New()
	s.transactions = SampleTransactions()
	s.budgets = SampleBudgets()

	return s
}

var (
	_ transaction.Repository = (*State)(nil)
	_ budget.Repository      = (*State)(nil)
	_ preferences.Repository = (*State)(nil)
)

// Snapshot returns copies of everything the analytics engine reads.
func (s *State) Snapshot() ([]*transaction.Transaction, []*budget.Budget, preferences.Preferences) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]*transaction.Transaction, len(s.transactions))
	for i, tx := range s.transactions {
		txs[i] = cloneTransaction(tx)
	}

	budgets := make([]*budget.Budget, len(s.budgets))
	for i, b := range s.budgets {
		budgets[i] = cloneBudget(b)
	}

	return txs, budgets, s.prefs
}

// Transactions

func (s *State) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertLocked(tx)

	return nil
}

func (s *State) GetTransaction(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.transactionIndexLocked(id)
	if idx < 0 {
		return nil, transaction.ErrNotFound
	}

	return cloneTransaction(s.transactions[idx]), nil
}

func (s *State) ReplaceTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.transactionIndexLocked(tx.ID)
	if idx < 0 {
		return transaction.ErrNotFound
	}

	old := s.transactions[idx]
	s.applySpendLocked(old, old.Amount.Neg())

	now := s.now()
	stored := cloneTransaction(tx)
	stored.UpdatedAt = &now
	s.transactions[idx] = stored
	s.applySpendLocked(stored, stored.Amount)

	tx.UpdatedAt = &now

	return nil
}

// ListTransactions returns matching transactions ordered by date, oldest first.
func (s *State) ListTransactions(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txs []*transaction.Transaction

	for _, tx := range s.transactions {
		if filter.Matches(tx) {
			txs = append(txs, cloneTransaction(tx))
		}
	}

	slices.SortStableFunc(txs, func(a, b *transaction.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	return txs, nil
}

// BeginImport stages a batch of transactions that becomes visible only on
// Commit. Imports are serialized: the returned ImportTx holds the import lock
// until Commit or Rollback.
func (s *State) BeginImport(ctx context.Context, _, _ time.Time) (transaction.ImportTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.importMu.Lock()

	return &importTx{state: s}, nil
}

// insertLocked stores tx and bumps the spent total of its budget.
func (s *State) insertLocked(tx *transaction.Transaction) {
	tx.ID = uuid.New()
	tx.CreatedAt = s.now()
	tx.UpdatedAt = nil

	stored := cloneTransaction(tx)
	s.transactions = append(s.transactions, stored)
	s.applySpendLocked(stored, stored.Amount)
}

func (s *State) applySpendLocked(tx *transaction.Transaction, delta decimal.Decimal) {
	if !tx.IsExpense() {
		return
	}

	for _, b := range s.budgets {
		if b.Category == tx.Category {
			b.Spent = b.Spent.Add(delta)
			return
		}
	}
}

func (s *State) transactionIndexLocked(id uuid.UUID) int {
	return slices.IndexFunc(s.transactions, func(tx *transaction.Transaction) bool {
		return tx.ID == id
	})
}

type importTx struct {
	state  *State
	staged []*transaction.Transaction
	done   bool
}

func (itx *importTx) FindDuplicates(_ context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	itx.state.mu.RLock()
	defer itx.state.mu.RUnlock()

	var duplicates []*transaction.Transaction

	for _, tx := range itx.state.transactions {
		for _, p := range params {
			if transaction.IsDuplicate(tx, p) {
				duplicates = append(duplicates, cloneTransaction(tx))
				break
			}
		}
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(_ context.Context, txs []*transaction.Transaction) error {
	itx.staged = append(itx.staged, txs...)
	return nil
}

func (itx *importTx) Commit() error {
	if itx.done {
		return nil
	}

	defer itx.finish()

	itx.state.mu.Lock()
	defer itx.state.mu.Unlock()

	for _, tx := range itx.staged {
		itx.state.insertLocked(tx)
	}

	return nil
}

func (itx *importTx) Rollback() error {
	if !itx.done {
		itx.staged = nil
		itx.finish()
	}

	return nil
}

func (itx *importTx) finish() {
	itx.done = true
	itx.state.importMu.Unlock()
}

// Budgets

func (s *State) CreateBudget(_ context.Context, b *budget.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.budgetByCategoryLocked(b.Category) >= 0 {
		return budget.ErrDuplicateBudget
	}

	b.ID = uuid.New()
	s.budgets = append(s.budgets, cloneBudget(b))

	return nil
}

func (s *State) GetBudget(_ context.Context, id uuid.UUID) (*budget.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.budgetIndexLocked(id)
	if idx < 0 {
		return nil, budget.ErrNotFound
	}

	return cloneBudget(s.budgets[idx]), nil
}

func (s *State) ListBudgets(_ context.Context) ([]*budget.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*budget.Budget, len(s.budgets))
	for i, b := range s.budgets {
		out[i] = cloneBudget(b)
	}

	return out, nil
}

func (s *State) UpdateBudget(_ context.Context, b *budget.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.budgetIndexLocked(b.ID)
	if idx < 0 {
		return budget.ErrNotFound
	}

	if other := s.budgetByCategoryLocked(b.Category); other >= 0 && other != idx {
		return budget.ErrDuplicateBudget
	}

	s.budgets[idx] = cloneBudget(b)

	return nil
}

func (s *State) budgetIndexLocked(id uuid.UUID) int {
	return slices.IndexFunc(s.budgets, func(b *budget.Budget) bool { return b.ID == id })
}

func (s *State) budgetByCategoryLocked(category string) int {
	return slices.IndexFunc(s.budgets, func(b *budget.Budget) bool { return b.Category == category })
}

// Preferences

func (s *State) GetPreferences(_ context.Context) (preferences.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.prefs, nil
}

func (s *State) SavePreferences(_ context.Context, p preferences.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = p

	return nil
}

func cloneTransaction(tx *transaction.Transaction) *transaction.Transaction {
	c := *tx
	if tx.Bill != nil {
		bill := *tx.Bill
		bill.Data = slices.Clone(tx.Bill.Data)
		c.Bill = &bill
	}

	if tx.UpdatedAt != nil {
		c.UpdatedAt = new(*tx.UpdatedAt)
	}

	return &c
}

func cloneBudget(b *budget.Budget) *budget.Budget {
	c := *b
	return &c
}
