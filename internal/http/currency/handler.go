package currency

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/http/render"
)

// Handler exposes the fixed rate table. It has no state.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/convert", h.convert)
}

type currencyResponse struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	all := currency.All()

	resp := make([]currencyResponse, len(all))
	for i, c := range all {
		resp[i] = currencyResponse{Code: c.Code, Name: c.Name, Symbol: c.Symbol, Rate: c.Rate}
	}

	render.JSON(w, http.StatusOK, resp)
}

type convertResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Result    decimal.Decimal `json:"result"`
	Formatted string          `json:"formatted"`
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		http.Error(w, "amount must be a decimal number", http.StatusBadRequest)
		return
	}

	for _, code := range []string{from, to} {
		if err := currency.Validate(code); err != nil {
			render.Error(w, r, err)
			return
		}
	}

	result, err := currency.Convert(amount, from, to)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, convertResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Result:    result,
		Formatted: currency.Format(result, to),
	})
}
