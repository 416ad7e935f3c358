package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

// maxBillSize matches the limit of the HTTP upload endpoint.
const maxBillSize = 5 << 20

// BillModel walks through expenses without a bill and attaches image files
// read from disk.
type BillModel struct {
	CommonModel
	txService *transaction.Service

	queue     []*transaction.Transaction
	currentTx *transaction.Transaction

	pathInput textinput.Model

	loading    bool
	status     string
	totalCount int
}

func NewBillModel(txSvc *transaction.Service) BillModel {
	ti := textinput.New()
	ti.Placeholder = "~/receipts/2025-01-15.jpg"
	ti.Width = 60

	return BillModel{
		txService: txSvc,
		pathInput: ti,
		loading:   true,
	}
}

func (m BillModel) Title() string { return "Attach Bills" }

func (m BillModel) ShortHelp() string {
	return "Enter: attach | Tab: skip | Esc: back"
}

func (m BillModel) Init() tea.Cmd {
	return m.loadMissingCmd()
}

func (m BillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyTab:
			if m.currentTx != nil {
				m.status = ""
				m.nextTx()

				return m, nil
			}
		case tea.KeyEnter:
			if m.currentTx != nil {
				return m, m.attachCmd(m.currentTx, m.pathInput.Value())
			}
		}

	case loadMissingMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.queue = msg.txs
		m.totalCount = len(m.queue)
		m.nextTx()

		return m, textinput.Blink

	case billAttachedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = "Attached " + msg.fileName
		m.nextTx()

		return m, nil
	}

	m.pathInput, cmd = m.pathInput.Update(msg)

	return m, cmd
}

func (m BillModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses without bills...")
	}

	if m.currentTx == nil {
		if m.totalCount == 0 {
			return lipgloss.NewStyle().Padding(2).Render("Every expense has a bill.\n\n(Esc to back)")
		}

		return lipgloss.NewStyle().Padding(2).Render("All done!\n\n(Esc to back)")
	}

	info := fmt.Sprintf(
		"Date:     %s\nCategory: %s\nDesc:     %s\nAmount:   %s\n",
		FormatDate(m.currentTx.Date),
		m.currentTx.Category,
		m.currentTx.Description,
		FormatAmount(m.currentTx.Amount, m.currentTx.Currency),
	)

	status := ""
	if m.status != "" {
		status = faint(m.status) + "\n\n"
	}

	return lipgloss.NewStyle().Padding(2).Render(
		fmt.Sprintf("%sMissing Bill (%d remaining)\n\n%s\nBill file:\n%s\n\n%s",
			status, len(m.queue)+1, info, m.pathInput.View(), faint("(Enter to attach, Tab to skip, Esc to back)")),
	)
}

func (m *BillModel) nextTx() {
	m.pathInput.SetValue("")

	if len(m.queue) == 0 {
		m.currentTx = nil
		m.pathInput.Blur()

		return
	}

	m.currentTx = m.queue[0]
	m.queue = m.queue[1:]
	m.pathInput.Focus()
}

type loadMissingMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m BillModel) loadMissingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, transaction.ListFilter{Type: new(transaction.TypeExpense)})
		if err != nil {
			return loadMissingMsg{err: err}
		}

		missing := txs[:0]
		for _, tx := range txs {
			if tx.Bill == nil {
				missing = append(missing, tx)
			}
		}

		return loadMissingMsg{txs: missing}
	}
}

type billAttachedMsg struct {
	fileName string
	err      error
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}

	return path
}

func (m BillModel) attachCmd(tx *transaction.Transaction, path string) tea.Cmd {
	path = expandHome(strings.TrimSpace(path))

	return func() tea.Msg {
		info, err := os.Stat(path)
		if err != nil {
			return billAttachedMsg{err: err}
		}

		if info.Size() > maxBillSize {
			return billAttachedMsg{err: fmt.Errorf("%s is larger than %d MiB", filepath.Base(path), maxBillSize>>20)}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return billAttachedMsg{err: err}
		}

		params := replaceParams(tx)
		params.Bill = &transaction.Bill{FileName: filepath.Base(path), Data: data}

		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.txService.Replace(ctx, tx.ID, params); err != nil {
			return billAttachedMsg{err: err}
		}

		return billAttachedMsg{fileName: params.Bill.FileName}
	}
}
