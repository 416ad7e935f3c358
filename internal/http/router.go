package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/fintrack/internal/http/analytics"
	"github.com/MrJamesThe3rd/fintrack/internal/http/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/http/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/http/export"
	"github.com/MrJamesThe3rd/fintrack/internal/http/importcsv"
	"github.com/MrJamesThe3rd/fintrack/internal/http/matching"
	"github.com/MrJamesThe3rd/fintrack/internal/http/preferences"
	"github.com/MrJamesThe3rd/fintrack/internal/http/transaction"
)

// Handlers groups the per-resource v1 handlers mounted by New.
type Handlers struct {
	Transactions *transaction.Handler
	Budgets      *budget.Handler
	Preferences  *preferences.Handler
	Currencies   *currency.Handler
	Analytics    *analytics.Handler
	Import       *importcsv.Handler
	Matching     *matching.Handler
	Export       *export.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", h.Transactions.Routes)

		r.Route("/budgets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Budgets.Routes(r)
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Preferences.Routes(r)
		})

		r.Route("/currencies", h.Currencies.Routes)
		r.Route("/analytics", h.Analytics.Routes)
		r.Route("/import", h.Import.Routes)

		r.Route("/matching", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Matching.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Export.Routes(r)
		})
	})

	return router
}
