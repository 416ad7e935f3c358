// Package render writes JSON responses and maps domain errors to HTTP
// status codes.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/fintrack/internal/matching"
	"github.com/MrJamesThe3rd/fintrack/internal/preferences"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

var (
	notFound = []error{
		transaction.ErrNotFound,
		budget.ErrNotFound,
	}

	conflict = []error{
		budget.ErrDuplicateBudget,
	}

	badRequest = []error{
		currency.ErrUnknownCurrency,
		transaction.ErrInvalidType,
		transaction.ErrNegativeAmount,
		transaction.ErrEmptyCategory,
		transaction.ErrMissingDate,
		transaction.ErrMissingCurrency,
		budget.ErrEmptyCategory,
		budget.ErrNegativeLimit,
		budget.ErrNegativeSpent,
		budget.ErrInvalidPeriod,
		preferences.ErrNegativeSavingsGoal,
		matching.ErrEmptyPattern,
		matching.ErrEmptyCategory,
		csvfile.ErrUnknownFormat,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}

	return false
}

// StatusOf returns the HTTP status an error from a service call maps to.
func StatusOf(err error) int {
	switch {
	case isAny(err, notFound):
		return http.StatusNotFound
	case isAny(err, conflict):
		return http.StatusConflict
	case isAny(err, badRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with its mapped status. Unexpected errors are logged and
// their text is not exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}

	http.Error(w, msg, status)
}
