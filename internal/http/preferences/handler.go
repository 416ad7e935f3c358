package preferences

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/http/render"
	"github.com/MrJamesThe3rd/fintrack/internal/preferences"
)

type Handler struct {
	svc *preferences.Service
}

func NewHandler(svc *preferences.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.update)
}

type preferencesDTO struct {
	PreferredCurrency string          `json:"preferred_currency"`
	BudgetAlerts      bool            `json:"budget_alerts"`
	SavingsGoal       decimal.Decimal `json:"savings_goal"`
}

func toDTO(p preferences.Preferences) preferencesDTO {
	return preferencesDTO{
		PreferredCurrency: p.PreferredCurrency,
		BudgetAlerts:      p.BudgetAlerts,
		SavingsGoal:       p.SavingsGoal,
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toDTO(p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req preferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Update(r.Context(), preferences.Preferences{
		PreferredCurrency: req.PreferredCurrency,
		BudgetAlerts:      req.BudgetAlerts,
		SavingsGoal:       req.SavingsGoal,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toDTO(p))
}
