package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fintrack/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/fintrack/internal/app"
	"github.com/MrJamesThe3rd/fintrack/internal/config"
)

type model struct {
	app       *app.App
	exportDir string

	currentView View

	dashboardView view.DashboardModel
	listView      view.ListModel
	addView       view.AddModel
	importView    view.ImportModel
	reviewView    view.ReviewModel
	billView      view.BillModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewList      View = 2
	ViewAdd       View = 3
	ViewImport    View = 4
	ViewReview    View = 5
	ViewBills     View = 6
	ViewExport    View = 7
)

func initialModel(a *app.App, cfg *config.Config) model {
	return model{
		app:         a,
		exportDir:   cfg.Export.Dir,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewAdd:
		var newModel tea.Model
		newModel, cmd = m.addView.Update(msg)
		m.addView = newModel.(view.AddModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewBills:
		var newModel tea.Model
		newModel, cmd = m.billView.Update(msg)
		m.billView = newModel.(view.BillModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.app

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewDashboard
		m.dashboardView = view.NewDashboardModel(a.Transactions, a.Budgets, a.Preferences, a.Engine, time.Now())

		return m, m.dashboardView.Init()
	case "2":
		m.currentView = ViewList
		m.listView = view.NewListModel(a.Transactions)

		return m, m.listView.Init()
	case "3":
		m.currentView = ViewAdd
		m.addView = view.NewAddModel(a.Transactions, a.Preferences, a.Matching)

		return m, m.addView.Init()
	case "4":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(a.Transactions, a.Importer, a.Preferences)

		return m, m.importView.Init()
	case "5":
		m.currentView = ViewReview
		m.reviewView = view.NewReviewModel(a.Transactions, a.Matching)

		return m, m.reviewView.Init()
	case "6":
		m.currentView = ViewBills
		m.billView = view.NewBillModel(a.Transactions)

		return m, m.billView.Init()
	case "7":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(a.Export, m.exportDir)

		return m, m.exportView.Init()
	}

	return m, nil
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Fintrack TUI\n\n" +
				"1. Dashboard\n" +
				"2. List Transactions\n" +
				"3. Add Transaction\n" +
				"4. Import CSV\n" +
				"5. Categorize\n" +
				"6. Attach Bills\n" +
				"7. Export\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewList:
		return m.listView.View()
	case ViewAdd:
		return m.addView.View()
	case ViewImport:
		return m.importView.View()
	case ViewReview:
		return m.reviewView.View()
	case ViewBills:
		return m.billView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open application", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(a, cfg), tea.WithAltScreen())
	_, err = p.Run()

	if cerr := a.Close(); cerr != nil {
		slog.Error("failed to close application", "error", cerr)
	}

	if err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
