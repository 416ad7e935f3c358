package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fintrack/internal/importer"
	"github.com/MrJamesThe3rd/fintrack/internal/matching"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks through uncategorized transactions. Every category the
// user assigns is learned as a rule for the transaction's description.
type ReviewModel struct {
	CommonModel
	txService       *transaction.Service
	matchingService *matching.Service

	state           reviewState
	timeframePicker TimeframePicker

	queue     []*transaction.Transaction
	currentTx *transaction.Transaction

	categoryInput textinput.Model

	status     string
	loading    bool
	totalCount int
}

func NewReviewModel(txSvc *transaction.Service, matchSvc *matching.Service) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Category"
	ti.Width = 40

	return ReviewModel{
		txService:       txSvc,
		matchingService: matchSvc,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		categoryInput:   ti,
	}
}

func (m ReviewModel) Title() string { return "Categorize Transactions" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateTimeframe {
		return "Esc: back | Enter: select"
	}

	return "Enter: save & next | Tab: skip | Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = reviewStateReviewing
		m.loading = true

		start, end := msg.Bounds()

		return m, m.loadUncategorizedCmd(start, end)

	case loadUncategorizedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading transactions: %v", msg.err)
			return m, nil
		}

		m.queue = msg.txs
		m.totalCount = len(m.queue)

		if len(m.queue) == 0 {
			m.status = "Nothing left to categorize."
			return m, nil
		}

		cmd := m.nextTx()

		return m, cmd

	case reviewSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		cmd := m.nextTx()

		return m, cmd

	case suggestionMsg:
		if m.currentTx != nil && msg.id == m.currentTx.ID && msg.category != "" {
			m.categoryInput.SetValue(msg.category)
		}

		return m, nil
	}

	if m.state == reviewStateTimeframe {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.loading {
			return m, nil
		}

		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyTab:
			if m.currentTx != nil {
				cmd := m.nextTx()
				return m, cmd
			}
		case tea.KeyEnter:
			category := strings.TrimSpace(m.categoryInput.Value())
			if m.currentTx != nil && category != "" {
				return m, m.saveCmd(m.currentTx, category)
			}
		}
	}

	var cmd tea.Cmd
	m.categoryInput, cmd = m.categoryInput.Update(msg)

	return m, cmd
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.currentTx == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	info := fmt.Sprintf(
		"Date:        %s\nType:        %s\nAmount:      %s\nDescription: %s\n",
		FormatDate(m.currentTx.Date),
		m.currentTx.Type,
		FormatAmount(m.currentTx.Amount, m.currentTx.Currency),
		m.currentTx.Description,
	)

	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"%s\n\n%s\nCategory:\n%s\n\n%s",
		m.status, info, m.categoryInput.View(), faint("(Enter to save & next, Tab to skip, Esc to quit)"),
	))
}

type loadUncategorizedMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ReviewModel) loadUncategorizedCmd(start, end *time.Time) tea.Cmd {
	filter := transaction.ListFilter{
		Category:  new(importer.DefaultCategory),
		StartDate: start,
		EndDate:   end,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)

		return loadUncategorizedMsg{txs: txs, err: err}
	}
}

// nextTx pops the queue and asks for a category suggestion for the new head.
func (m *ReviewModel) nextTx() tea.Cmd {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.status = "All done!"
		m.categoryInput.Blur()
		m.categoryInput.SetValue("")

		return nil
	}

	m.currentTx = m.queue[0]
	m.queue = m.queue[1:]
	m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)
	m.categoryInput.SetValue("")
	m.categoryInput.Focus()

	return tea.Batch(textinput.Blink, m.suggestCmd(m.currentTx))
}

type suggestionMsg struct {
	id       uuid.UUID
	category string
}

func (m ReviewModel) suggestCmd(tx *transaction.Transaction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		category, _ := m.matchingService.Suggest(ctx, tx.Description)

		return suggestionMsg{id: tx.ID, category: category}
	}
}

type reviewSavedMsg struct {
	err error
}

func (m ReviewModel) saveCmd(tx *transaction.Transaction, category string) tea.Cmd {
	params := replaceParams(tx)
	params.Category = category

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if strings.TrimSpace(tx.Description) != "" {
			if _, err := m.matchingService.Learn(ctx, tx.Description, category); err != nil {
				return reviewSavedMsg{err: err}
			}
		}

		_, err := m.txService.Replace(ctx, tx.ID, params)

		return reviewSavedMsg{err: err}
	}
}
