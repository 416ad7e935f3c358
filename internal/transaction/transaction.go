package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a single recorded income or expense event.
// Amount is denominated in Currency and is never negative.
type Transaction struct {
	ID          uuid.UUID
	Type        Type
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time // date only, UTC midnight
	Currency    string
	Bill        *Bill
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Bill is a receipt or bill image attached to a transaction.
type Bill struct {
	FileName string
	Data     []byte
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}
