package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fintrack/internal/analytics"
	"github.com/MrJamesThe3rd/fintrack/internal/budget"
	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/preferences"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// DashboardModel shows the derived metrics for one month in one currency.
type DashboardModel struct {
	CommonModel
	txService     *transaction.Service
	budgetService *budget.Service
	prefService   *preferences.Service
	engine        *analytics.Engine

	period  analytics.Period
	code    string
	loading bool
	err     error
	data    dashboardData
}

type dashboardData struct {
	report   analytics.Report
	health   analytics.HealthScore
	trend    analytics.Comparison
	insights []analytics.Insight
	budgets  []analytics.BudgetLine
}

func NewDashboardModel(
	txSvc *transaction.Service,
	budgetSvc *budget.Service,
	prefSvc *preferences.Service,
	engine *analytics.Engine,
	now time.Time,
) DashboardModel {
	return DashboardModel{
		txService:     txSvc,
		budgetService: budgetSvc,
		prefService:   prefSvc,
		engine:        engine,
		period:        analytics.PeriodOf(now),
		loading:       true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "←/→: month | c: currency | r: refresh | Esc: back"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.code = msg.code
			m.data = msg.data
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "left", "h":
			m.period = m.period.Previous()
		case "right", "l":
			m.period = m.period.Next()
		case "c":
			m.code = nextCurrency(m.code)
		case "r":
		default:
			return m, nil
		}

		m.loading = true

		return m, m.loadCmd()
	}

	return m, nil
}

func nextCurrency(code string) string {
	codes := currency.Codes()
	idx := slices.Index(codes, code)

	return codes[(idx+1)%len(codes)]
}

func (m DashboardModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%s  ·  %s", m.period.Start().Format("January 2006"), m.code))

	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nLoading...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + errorText(fmt.Sprintf("Error: %v", m.err)))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		panel("This Month", m.summaryView(m.data.report.Selected)),
		" ",
		panel("All Time", m.summaryView(m.data.report.AllTime)),
		" ",
		panel("Financial Health", m.healthView()),
	)

	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		panel("Budgets", m.budgetsView()),
		" ",
		panel("Insights", m.insightsView()),
	)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", top, "", bottom, "", faint(m.ShortHelp())),
	)
}

func (m DashboardModel) summaryView(s analytics.Summary) string {
	net := FormatAmount(s.NetIncome, m.code)
	if s.NetIncome.IsNegative() {
		net = errorText(net)
	} else {
		net = successText(net)
	}

	return fmt.Sprintf(
		"Income:     %s\nExpenses:   %s\nNet:        %s\nSavings:    %.1f%%\nMonthly:    %s\nProjected:  %s",
		FormatAmount(s.TotalIncome, m.code),
		FormatAmount(s.TotalExpenses, m.code),
		net,
		s.SavingsRate,
		FormatAmount(s.MonthlyAverage, m.code),
		FormatAmount(s.YearlyProjection, m.code),
	)
}

func (m DashboardModel) healthView() string {
	h := m.data.health

	color := errorColor

	switch {
	case h.Score >= 80:
		color = successColor
	case h.Score >= 40:
		color = warningColor
	}

	score := lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("%d", h.Score))

	trend := fmt.Sprintf("%s %+.1f%% vs last month", m.data.trend.Direction, m.data.trend.ChangePct)

	return fmt.Sprintf(
		"Score: %s (%s)\n\nSavings rate:     %.1f\nBudget adherence: %.1f\nExpense control:  %.1f\nDiversification:  %.1f\n\nSpending %s",
		score, h.Rating, h.SavingsRate, h.BudgetAdherence, h.ExpenseControl, h.Diversification, trend,
	)
}

func (m DashboardModel) budgetsView() string {
	if len(m.data.budgets) == 0 {
		return faint("No expenses or budgets yet.")
	}

	var sb strings.Builder

	for _, line := range m.data.budgets {
		status := string(line.Status())

		switch line.Status() {
		case analytics.StatusOverBudget:
			status = errorText(status)
		case analytics.StatusNearLimit:
			status = lipgloss.NewStyle().Foreground(warningColor).Render(status)
		case analytics.StatusNoBudget:
			status = faint(status)
		}

		switch l := line.(type) {
		case analytics.Configured:
			fmt.Fprintf(&sb, "%-15s %10s / %-10s %5.1f%%  %s\n",
				l.Category(), FormatAmount(l.Spent(), m.code), FormatAmount(l.Budget.Limit, m.code), l.PercentUsed(), status)
		case analytics.Unconfigured:
			fmt.Fprintf(&sb, "%-15s %10s   %-10s %6s  %s\n",
				l.Category(), FormatAmount(l.Spent(), m.code), "", "", status)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m DashboardModel) insightsView() string {
	if len(m.data.insights) == 0 {
		return faint("Nothing to report.")
	}

	var sb strings.Builder

	for _, in := range m.data.insights {
		marker := "•"

		switch in.Type {
		case analytics.InsightWarning:
			marker = errorText("!")
		case analytics.InsightAchievement:
			marker = successText("★")
		}

		fmt.Fprintf(&sb, "%s %s [%s]\n  %s\n", marker, activeStyle(in.Title), in.Impact, faint(in.Description))
	}

	return strings.TrimRight(sb.String(), "\n")
}

type dashboardLoadedMsg struct {
	code string
	data dashboardData
	err  error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	period, code := m.period, m.code

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if code == "" {
			prefs, err := m.prefService.Get(ctx)
			if err != nil {
				return dashboardLoadedMsg{err: err}
			}

			code = prefs.PreferredCurrency
		}

		txs, err := m.txService.List(ctx, transaction.ListFilter{})
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		budgets, err := m.budgetService.List(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		data, err := buildDashboard(m.engine, txs, budgets, period, code)

		return dashboardLoadedMsg{code: code, data: data, err: err}
	}
}

func buildDashboard(
	engine *analytics.Engine,
	txs []*transaction.Transaction,
	budgets []*budget.Budget,
	period analytics.Period,
	code string,
) (dashboardData, error) {
	var (
		data dashboardData
		err  error
	)

	if data.report, err = analytics.Summarize(txs, period, code); err != nil {
		return data, err
	}

	if data.health, err = analytics.Health(txs, budgets, period, code); err != nil {
		return data, err
	}

	if data.trend, err = analytics.MonthOverMonth(txs, period, code); err != nil {
		return data, err
	}

	if data.budgets, err = analytics.BudgetOverview(txs, budgets, period, code); err != nil {
		return data, err
	}

	data.insights = engine.Insights(txs, budgets)

	return data, nil
}
