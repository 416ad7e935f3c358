package analytics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fintrack/internal/analytics"
	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/http/render"
	"github.com/MrJamesThe3rd/fintrack/internal/preferences"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

var errInvalidPeriod = errors.New("year and month must be numeric, month 1-12")

// Handler serves the derived metrics. Every endpoint accepts year, month and
// currency query parameters, defaulting to the current month and the
// preferred currency.
type Handler struct {
	txSvc     *transaction.Service
	budgetSvc *budget.Service
	prefSvc   *preferences.Service
	engine    *analytics.Engine
	now       func() time.Time
}

func NewHandler(
	txSvc *transaction.Service,
	budgetSvc *budget.Service,
	prefSvc *preferences.Service,
	engine *analytics.Engine,
) *Handler {
	return &Handler{
		txSvc:     txSvc,
		budgetSvc: budgetSvc,
		prefSvc:   prefSvc,
		engine:    engine,
		now:       time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/insights", h.insights)
	r.Get("/health", h.health)
	r.Get("/categories", h.categories)
	r.Get("/annual", h.annual)
	r.Get("/daily", h.daily)
	r.Get("/trend", h.trend)
	r.Get("/budgets", h.budgets)
}

type selection struct {
	period analytics.Period
	code   string
}

func (h *Handler) selection(ctx context.Context, r *http.Request) (selection, error) {
	q := r.URL.Query()
	sel := selection{period: analytics.PeriodOf(h.now())}

	if s := q.Get("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			return sel, errInvalidPeriod
		}

		sel.period.Year = year
	}

	if s := q.Get("month"); s != "" {
		month, err := strconv.Atoi(s)
		if err != nil {
			return sel, errInvalidPeriod
		}

		sel.period.Month = time.Month(month)
	}

	if !sel.period.Valid() {
		return sel, errInvalidPeriod
	}

	sel.code = q.Get("currency")
	if sel.code == "" {
		prefs, err := h.prefSvc.Get(ctx)
		if err != nil {
			return sel, fmt.Errorf("get preferences: %w", err)
		}

		sel.code = prefs.PreferredCurrency
	}

	return sel, currency.Validate(sel.code)
}

type dataset struct {
	selection

	txs     []*transaction.Transaction
	budgets []*budget.Budget
}

// load resolves the query selection and reads the full transaction log and
// budgets. It writes the error response itself and reports false on failure.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (dataset, bool) {
	ctx := r.Context()

	sel, err := h.selection(ctx, r)
	if err != nil {
		if errors.Is(err, errInvalidPeriod) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			render.Error(w, r, err)
		}

		return dataset{}, false
	}

	txs, err := h.txSvc.List(ctx, transaction.ListFilter{})
	if err != nil {
		render.Error(w, r, err)
		return dataset{}, false
	}

	budgets, err := h.budgetSvc.List(ctx)
	if err != nil {
		render.Error(w, r, err)
		return dataset{}, false
	}

	return dataset{selection: sel, txs: txs, budgets: budgets}, true
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}

	report, err := analytics.Summarize(ds.txs, ds.period, ds.code)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toReport(report))
}

func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}

	render.JSON(w, http.StatusOK, toInsights(h.engine.Insights(ds.txs, ds.budgets)))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}

	score, err := analytics.Health(ds.txs, ds.budgets, ds.period, ds.code)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toHealth(score))
}

// categories takes an optional type parameter, expense by default.
func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	typ := transaction.TypeExpense
	if s := r.URL.Query().Get("type"); s != "" {
		typ = transaction.Type(s)
	}

	if !typ.Valid() {
		render.Error(w, r, fmt.Errorf("%w: %q", transaction.ErrInvalidType, typ))
		return
	}

	ds, ok := h.load(w, r)
	if !ok {
		return
	}

	totals, err := analytics.CategoryBreakdown(ds.txs, ds.period, typ, ds.code)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toCategories(totals))
}

func (h *Handler) annual(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}

	ov, err := analytics.Annual(ds.txs, ds.period.Year, ds.code, h.now())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toAnnual(ov))
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}

	days, err := analytics.DailyTrend(ds.txs, ds.period, ds.code)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toDays(days))
}

func (h *Handler) trend(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}

	cmp, err := analytics.MonthOverMonth(ds.txs, ds.period, ds.code)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toTrend(cmp))
}

func (h *Handler) budgets(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.load(w, r)
	if !ok {
		return
	}

	lines, err := analytics.BudgetOverview(ds.txs, ds.budgets, ds.period, ds.code)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toBudgetLines(lines))
}
