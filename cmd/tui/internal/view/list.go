package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
)

var (
	typeFilterLabels = []string{"All", "Income", "Expense"}
	dateFilterLabels = []string{"All Time", "This Month", "Last Month"}
)

// ListModel browses transactions in a table and edits them in place.
type ListModel struct {
	CommonModel
	txService *transaction.Service

	state listState
	table table.Model
	txs   []*transaction.Transaction
	form  *huh.Form

	typeFilterIdx int
	dateFilterIdx int

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string

	edit *editFields
}

// editFields is shared with the huh form, which keeps pointers into it across
// model copies.
type editFields struct {
	category    string
	description string
	amount      string
}

func NewListModel(txSvc *transaction.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Amount", Width: 14},
		{Title: "Description", Width: 36},
		{Title: "Bill", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		txService: txSvc,
		table:     t,
		loading:   true,
	}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	if m.state == listStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | t: type filter | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.txs = msg.txs
			m.refreshTable()
		}

		return m, nil

	case listSaveMsg:
		m.status = "Saved."
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "e":
			return m.enterEditMode()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilterLabels)
			m.applyFilter(time.Now())

			return m, m.loadTxsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilterLabels)
			m.applyFilter(time.Now())

			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("amount must be a number")
	}

	if d.IsNegative() {
		return errors.New("amount must not be negative")
	}

	return nil
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return m, nil
	}

	tx := m.txs[idx]
	m.edit = &editFields{
		category:    tx.Category,
		description: tx.Description,
		amount:      tx.Amount.String(),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("category").
				Title("Category").
				Value(&m.edit.category).
				Validate(notBlank("category")),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.edit.description),

			huh.NewInput().
				Key("amount").
				Title("Amount ("+tx.Currency+")").
				Value(&m.edit.amount).
				Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	save := m.saveCmd()
	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()

	return m, save
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s",
		activeStyle(typeFilterLabels[m.typeFilterIdx]),
		activeStyle(dateFilterLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateEdit && m.form != nil {
		var info string
		if idx := m.table.Cursor(); idx >= 0 && idx < len(m.txs) {
			tx := m.txs[idx]
			info = fmt.Sprintf("%s  %s  %s", FormatDate(tx.Date), tx.Type, FormatSigned(tx))
		}

		editPanel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Edit Transaction\n\n%s\n\n%s", info, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, editPanel)
	}

	if m.status != "" {
		content = faint(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) applyFilter(now time.Time) {
	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = new(transaction.TypeIncome)
	case 2:
		m.filter.Type = new(transaction.TypeExpense)
	default:
		m.filter.Type = nil
	}

	switch m.dateFilterIdx {
	case 1:
		m.filter.StartDate, m.filter.EndDate = rangeFilter(TimeframeThisMonth, now)
	case 2:
		m.filter.StartDate, m.filter.EndDate = rangeFilter(TimeframeLastMonth, now)
	default:
		m.filter.StartDate, m.filter.EndDate = nil, nil
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		bill := ""
		if tx.Bill != nil {
			bill = tx.Bill.FileName
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.Category,
			FormatSigned(tx),
			tx.Description,
			bill,
		})
	}

	m.table.SetRows(rows)
}

type loadListMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)

		return loadListMsg{txs: txs, err: err}
	}
}

type listSaveMsg struct {
	err error
}

func (m ListModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	tx := m.txs[idx]
	params := replaceParams(tx)
	params.Category = strings.TrimSpace(m.edit.category)
	params.Description = strings.TrimSpace(m.edit.description)
	params.Amount, _ = decimal.NewFromString(strings.TrimSpace(m.edit.amount))

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Replace(ctx, tx.ID, params)

		return listSaveMsg{err: err}
	}
}

// replaceParams copies tx into params for a full replacement.
func replaceParams(tx *transaction.Transaction) transaction.CreateParams {
	return transaction.CreateParams{
		Type:        tx.Type,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
		Currency:    tx.Currency,
		Bill:        tx.Bill,
	}
}
