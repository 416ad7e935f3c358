package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/currency"
	"github.com/MrJamesThe3rd/fintrack/internal/importer"
	"github.com/MrJamesThe3rd/fintrack/internal/matching"
	"github.com/MrJamesThe3rd/fintrack/internal/preferences"
	"github.com/MrJamesThe3rd/fintrack/internal/state"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

type addState int

const (
	addStateLoading addState = iota
	addStateForm
	addStateResult
)

// AddModel records a single transaction through a form.
type AddModel struct {
	CommonModel
	txService       *transaction.Service
	prefService     *preferences.Service
	matchingService *matching.Service

	state  addState
	form   *huh.Form
	err    error
	status string

	fields *addFields
}

type addFields struct {
	typ         string
	amount      string
	description string
	category    string
	date        string
	currency    string
}

func NewAddModel(txSvc *transaction.Service, prefSvc *preferences.Service, matchSvc *matching.Service) AddModel {
	return AddModel{
		txService:       txSvc,
		prefService:     prefSvc,
		matchingService: matchSvc,
	}
}

func (m AddModel) Title() string { return "Add Transaction" }

func (m AddModel) ShortHelp() string {
	if m.state == addStateForm {
		return "Enter/Tab: next field | Esc: cancel"
	}

	return "Esc: back | n: add another"
}

func (m AddModel) Init() tea.Cmd {
	return m.loadPreferredCmd()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case preferredCurrencyMsg:
		if msg.err != nil {
			m.state = addStateResult
			m.err = msg.err

			return m, nil
		}

		return m.startForm(msg.code, time.Now())

	case addResultMsg:
		m.state = addStateResult
		m.err = msg.err

		if msg.err == nil {
			m.status = fmt.Sprintf("Saved %s %s in %s.", msg.tx.Type, FormatAmount(msg.tx.Amount, msg.tx.Currency), msg.tx.Category)
		}

		return m, nil
	}

	switch m.state {
	case addStateForm:
		return m.updateForm(msg)
	case addStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				return m, Back
			case "n":
				m.err = nil
				m.status = ""

				return m, m.loadPreferredCmd()
			}
		}
	}

	return m, nil
}

func (m AddModel) startForm(code string, now time.Time) (tea.Model, tea.Cmd) {
	m.fields = &addFields{
		typ:      string(transaction.TypeExpense),
		date:     FormatDate(now),
		currency: code,
	}

	categories := make([]huh.Option[string], 0, len(state.Categories)+1)
	categories = append(categories, huh.NewOption("Suggest from description", ""))

	for _, c := range state.Categories {
		categories = append(categories, huh.NewOption(c, c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&m.fields.typ),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.fields.amount).
				Validate(validateAmount),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.fields.description),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categories...).
				Value(&m.fields.category),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("currency").
				Title("Currency").
				Options(huh.NewOptions(currency.Codes()...)...).
				Value(&m.fields.currency),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = addStateForm

	return m, m.form.Init()
}

func (m AddModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = addStateLoading

	return m, m.saveCmd()
}

func (m AddModel) View() string {
	switch m.state {
	case addStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	case addStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	msg := successText(m.status)
	if m.err != nil {
		msg = errorText(fmt.Sprintf("Error: %v", m.err))
	}

	return lipgloss.NewStyle().Padding(2).Render(msg + "\n\n" + faint(m.ShortHelp()))
}

type preferredCurrencyMsg struct {
	code string
	err  error
}

func (m AddModel) loadPreferredCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		prefs, err := m.prefService.Get(ctx)

		return preferredCurrencyMsg{code: prefs.PreferredCurrency, err: err}
	}
}

type addResultMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m AddModel) saveCmd() tea.Cmd {
	amount, _ := decimal.NewFromString(strings.TrimSpace(m.fields.amount))
	date, _ := time.Parse(time.DateOnly, strings.TrimSpace(m.fields.date))

	params := transaction.CreateParams{
		Type:        transaction.Type(m.fields.typ),
		Amount:      amount,
		Category:    m.fields.category,
		Description: strings.TrimSpace(m.fields.description),
		Date:        date,
		Currency:    m.fields.currency,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if params.Category == "" {
			suggested, err := m.matchingService.Suggest(ctx, params.Description)
			if err != nil {
				return addResultMsg{err: err}
			}

			params.Category = suggested
			if params.Category == "" {
				params.Category = importer.DefaultCategory
			}
		}

		tx, err := m.txService.Create(ctx, params)

		return addResultMsg{tx: tx, err: err}
	}
}
