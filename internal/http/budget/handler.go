package budget

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/http/render"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
}

type budgetRequest struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Spent    decimal.Decimal `json:"spent"`
	Period   budget.Period   `json:"period"`
}

type budgetResponse struct {
	ID          uuid.UUID       `json:"id"`
	Category    string          `json:"category"`
	Limit       decimal.Decimal `json:"limit"`
	Spent       decimal.Decimal `json:"spent"`
	Period      budget.Period   `json:"period"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed *float64        `json:"percent_used,omitempty"`
}

func toResponse(b *budget.Budget) budgetResponse {
	resp := budgetResponse{
		ID:        b.ID,
		Category:  b.Category,
		Limit:     b.Limit,
		Spent:     b.Spent,
		Period:    b.Period,
		Remaining: b.Remaining(),
	}

	if pct, ok := b.PercentUsed(); ok {
		resp.PercentUsed = &pct
	}

	return resp
}

func decodeParams(r *http.Request) (budget.Params, error) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return budget.Params{}, err
	}

	return budget.Params{
		Category: req.Category,
		Limit:    req.Limit,
		Spent:    req.Spent,
		Period:   req.Period,
	}, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	params, err := decodeParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.svc.Create(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.svc.List(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toResponse(b)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(b))
}

// update replaces every field of the budget, including spent.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	params, err := decodeParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(b))
}
