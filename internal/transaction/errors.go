package transaction

import "errors"

var (
	ErrNotFound        = errors.New("transaction not found")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrEmptyCategory   = errors.New("category is required")
	ErrMissingDate     = errors.New("date is required")
	ErrMissingCurrency = errors.New("currency is required")
)
