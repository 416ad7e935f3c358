package budget

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is advisory only; spent totals are never rolled over.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}

	return false
}

var (
	ErrNotFound        = errors.New("budget not found")
	ErrEmptyCategory   = errors.New("category is required")
	ErrNegativeLimit   = errors.New("limit must not be negative")
	ErrNegativeSpent   = errors.New("spent must not be negative")
	ErrInvalidPeriod   = errors.New("invalid budget period")
	ErrDuplicateBudget = errors.New("a budget for this category already exists")
)

// Budget is a per-category spending ceiling. Spent is a running total kept
// up to date by the transaction repository.
type Budget struct {
	ID       uuid.UUID
	Category string
	Limit    decimal.Decimal
	Spent    decimal.Decimal
	Period   Period
}

var hundred = decimal.NewFromInt(100)

// PercentUsed returns spent as a percentage of the limit. ok is false when
// the limit is zero and no ratio exists.
func (b *Budget) PercentUsed() (pct float64, ok bool) {
	if b.Limit.IsZero() {
		return 0, false
	}

	return b.Spent.Div(b.Limit).Mul(hundred).InexactFloat64(), true
}

// Remaining is the headroom left under the limit. Negative when over budget.
func (b *Budget) Remaining() decimal.Decimal {
	return b.Limit.Sub(b.Spent)
}
