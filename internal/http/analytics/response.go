package analytics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/analytics"
)

type summaryResponse struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetIncome        decimal.Decimal `json:"net_income"`
	SavingsRate      float64         `json:"savings_rate"`
	MonthlyAverage   decimal.Decimal `json:"monthly_average"`
	YearlyProjection decimal.Decimal `json:"yearly_projection"`
}

type reportResponse struct {
	Currency string          `json:"currency"`
	Period   string          `json:"period"`
	AllTime  summaryResponse `json:"all_time"`
	Selected summaryResponse `json:"selected"`
}

func toSummary(s analytics.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:      s.TotalIncome,
		TotalExpenses:    s.TotalExpenses,
		NetIncome:        s.NetIncome,
		SavingsRate:      s.SavingsRate,
		MonthlyAverage:   s.MonthlyAverage,
		YearlyProjection: s.YearlyProjection,
	}
}

func toReport(r analytics.Report) reportResponse {
	return reportResponse{
		Currency: r.Currency,
		Period:   r.Period.String(),
		AllTime:  toSummary(r.AllTime),
		Selected: toSummary(r.Selected),
	}
}

type insightResponse struct {
	ID               uuid.UUID             `json:"id"`
	Type             analytics.InsightType `json:"type"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Impact           analytics.Impact      `json:"impact"`
	Category         string                `json:"category,omitempty"`
	PotentialSavings *decimal.Decimal      `json:"potential_savings,omitempty"`
}

func toInsights(insights []analytics.Insight) []insightResponse {
	resp := make([]insightResponse, len(insights))
	for i, in := range insights {
		resp[i] = insightResponse{
			ID:               in.ID,
			Type:             in.Type,
			Title:            in.Title,
			Description:      in.Description,
			Impact:           in.Impact,
			Category:         in.Category,
			PotentialSavings: in.PotentialSavings,
		}
	}

	return resp
}

type healthResponse struct {
	Score           int              `json:"score"`
	Rating          analytics.Rating `json:"rating"`
	SavingsRate     float64          `json:"savings_rate"`
	BudgetAdherence float64          `json:"budget_adherence"`
	ExpenseControl  float64          `json:"expense_control"`
	Diversification float64          `json:"diversification"`
}

func toHealth(h analytics.HealthScore) healthResponse {
	return healthResponse{
		Score:           h.Score,
		Rating:          h.Rating,
		SavingsRate:     h.SavingsRate,
		BudgetAdherence: h.BudgetAdherence,
		ExpenseControl:  h.ExpenseControl,
		Diversification: h.Diversification,
	}
}

type categoryResponse struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Share    float64         `json:"share"`
}

func toCategories(totals []analytics.CategoryTotal) []categoryResponse {
	resp := make([]categoryResponse, len(totals))
	for i, t := range totals {
		resp[i] = categoryResponse{Category: t.Category, Amount: t.Amount, Share: t.Share}
	}

	return resp
}

type monthResponse struct {
	Month    int             `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type annualResponse struct {
	Year                    int                `json:"year"`
	Months                  []monthResponse    `json:"months"`
	YTDIncome               decimal.Decimal    `json:"ytd_income"`
	YTDExpenses             decimal.Decimal    `json:"ytd_expenses"`
	YTDNet                  decimal.Decimal    `json:"ytd_net"`
	AvgMonthlyIncome        decimal.Decimal    `json:"avg_monthly_income"`
	AvgMonthlyExpenses      decimal.Decimal    `json:"avg_monthly_expenses"`
	ProjectedYearlyIncome   decimal.Decimal    `json:"projected_yearly_income"`
	ProjectedYearlyExpenses decimal.Decimal    `json:"projected_yearly_expenses"`
	TopExpenseCategories    []categoryResponse `json:"top_expense_categories"`
}

func toAnnual(ov analytics.AnnualOverview) annualResponse {
	months := make([]monthResponse, len(ov.Months))
	for i, m := range ov.Months {
		months[i] = monthResponse{Month: int(m.Month), Income: m.Income, Expenses: m.Expenses, Net: m.Net}
	}

	return annualResponse{
		Year:                    ov.Year,
		Months:                  months,
		YTDIncome:               ov.YTDIncome,
		YTDExpenses:             ov.YTDExpenses,
		YTDNet:                  ov.YTDNet,
		AvgMonthlyIncome:        ov.AvgMonthlyIncome,
		AvgMonthlyExpenses:      ov.AvgMonthlyExpenses,
		ProjectedYearlyIncome:   ov.ProjectedYearlyIncome,
		ProjectedYearlyExpenses: ov.ProjectedYearlyExpenses,
		TopExpenseCategories:    toCategories(ov.TopExpenseCategories),
	}
}

type dayResponse struct {
	Day                int             `json:"day"`
	Income             decimal.Decimal `json:"income"`
	Expenses           decimal.Decimal `json:"expenses"`
	Net                decimal.Decimal `json:"net"`
	CumulativeExpenses decimal.Decimal `json:"cumulative_expenses"`
}

func toDays(days []analytics.DayTotals) []dayResponse {
	resp := make([]dayResponse, len(days))
	for i, d := range days {
		resp[i] = dayResponse{
			Day:                d.Day,
			Income:             d.Income,
			Expenses:           d.Expenses,
			Net:                d.Net,
			CumulativeExpenses: d.CumulativeExpenses,
		}
	}

	return resp
}

type trendResponse struct {
	Period    string              `json:"period"`
	Current   decimal.Decimal     `json:"current"`
	Previous  decimal.Decimal     `json:"previous"`
	ChangePct float64             `json:"change_pct"`
	Direction analytics.Direction `json:"direction"`
}

func toTrend(c analytics.Comparison) trendResponse {
	return trendResponse{
		Period:    c.Period.String(),
		Current:   c.Current,
		Previous:  c.Previous,
		ChangePct: c.ChangePct,
		Direction: c.Direction,
	}
}

type budgetLineResponse struct {
	Category    string                 `json:"category"`
	Spent       decimal.Decimal        `json:"spent"`
	Status      analytics.BudgetStatus `json:"status"`
	BudgetID    *uuid.UUID             `json:"budget_id,omitempty"`
	Limit       *decimal.Decimal       `json:"limit,omitempty"`
	PercentUsed *float64               `json:"percent_used,omitempty"`
	Remaining   *decimal.Decimal       `json:"remaining,omitempty"`
}

func toBudgetLines(lines []analytics.BudgetLine) []budgetLineResponse {
	resp := make([]budgetLineResponse, len(lines))
	for i, line := range lines {
		r := budgetLineResponse{
			Category: line.Category(),
			Spent:    line.Spent(),
			Status:   line.Status(),
		}

		if c, ok := line.(analytics.Configured); ok {
			r.BudgetID = new(c.Budget.ID)
			r.Limit = new(c.Budget.Limit)
			r.PercentUsed = new(c.PercentUsed())
			r.Remaining = new(c.Remaining())
		}

		resp[i] = r
	}

	return resp
}
