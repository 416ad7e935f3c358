package render_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/http/render"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "NotFound", err: transaction.ErrNotFound, want: http.StatusNotFound},
		{name: "WrappedNotFound", err: fmt.Errorf("get: %w", budget.ErrNotFound), want: http.StatusNotFound},
		{name: "Duplicate", err: budget.ErrDuplicateBudget, want: http.StatusConflict},
		{name: "Validation", err: fmt.Errorf("row 3: %w", currency.ErrUnknownCurrency), want: http.StatusBadRequest},
		{name: "Unexpected", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.StatusOf(tt.err))
		})
	}
}
