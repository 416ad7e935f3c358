package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fintrack/internal/importer"
	"github.com/MrJamesThe3rd/fintrack/internal/preferences"
	"github.com/MrJamesThe3rd/fintrack/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	CommonModel
	txService     *transaction.Service
	importService *importer.Service
	prefService   *preferences.Service

	state      importState
	filePicker filepicker.Model

	newParams    []transaction.CreateParams
	conflicts    []transaction.Conflict
	conflictList list.Model
	selected     []bool

	status string
	err    error
}

func NewImportModel(txSvc *transaction.Service, impSvc *importer.Service, prefSvc *preferences.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		txService:     txSvc,
		importService: impSvc,
		prefService:   prefSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateConflicts {
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateConflicts {
			return m.updateConflicts(msg)
		}

	case importResultMsg:
		if msg.err != nil || len(msg.result.Conflicts) == 0 {
			var imported int
			if msg.result != nil {
				imported = len(msg.result.Imported)
			}

			return m.finish(imported, msg.err), nil
		}

		return m.reviewConflicts(msg.result), nil

	case confirmResultMsg:
		return m.finish(msg.count, msg.err), nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = "Reading " + filepath.Base(path) + "..."

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) finish(count int, err error) ImportModel {
	m.state = importStateResult
	m.err = err

	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
	} else {
		m.status = fmt.Sprintf("Imported %d transactions.", count)
	}

	return m
}

// reviewConflicts lists every incoming row that matches a stored transaction.
// Rows without a match are kept aside and imported on confirmation.
func (m ImportModel) reviewConflicts(result *transaction.ImportResult) ImportModel {
	m.state = importStateConflicts
	m.newParams = result.New
	m.conflicts = result.Conflicts
	m.selected = make([]bool, len(result.Conflicts))

	items := make([]list.Item, len(m.conflicts))
	for i, c := range m.conflicts {
		items[i] = conflictItem{conflict: c, index: i}
	}

	m.conflictList = list.New(items, conflictDelegate{selected: m.selected}, 80, 20)
	m.conflictList.Title = fmt.Sprintf("Possible duplicates (%d new rows will be imported)", len(m.newParams))
	m.conflictList.SetShowStatusBar(false)
	m.conflictList.SetFilteringEnabled(false)
	m.conflictList.SetShowHelp(false)

	return m
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == importStateFilePick || m.state == importStateImporting {
		return m, Back
	}

	m.state = importStateFilePick
	m.err = nil
	m.status = ""
	m.conflicts = nil
	m.newParams = nil
	m.selected = nil

	return m, m.filePicker.Init()
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a", "n":
		keep := msg.String() == "a"
		for i := range m.selected {
			m.selected[i] = keep
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a CSV file (date,type,amount,category,description,currency):\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(m.conflictList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorText(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successText(m.status) + "\n\n(Esc to go back)")
}

type importResultMsg struct {
	result *transaction.ImportResult
	err    error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		prefs, err := m.prefService.Get(ctx)
		if err != nil {
			return importResultMsg{err: err}
		}

		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Parse(ctx, f, prefs.PreferredCurrency)
		if err != nil {
			return importResultMsg{err: err}
		}

		result, err := m.txService.ImportBatch(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

// confirmCmd stores the rows without a match plus every conflict the user
// ticked.
func (m ImportModel) confirmCmd() tea.Cmd {
	params := append([]transaction.CreateParams(nil), m.newParams...)
	for i, c := range m.conflicts {
		if m.selected[i] {
			params = append(params, c.Incoming)
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := m.txService.CreateBatch(ctx, params)

		return confirmResultMsg{count: len(txs), err: err}
	}
}

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) Title() string       { return "" }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return "" }

// conflictDelegate renders the incoming row above the stored one it collides
// with. selected shares its backing array with the model.
type conflictDelegate struct {
	selected []bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	mark := "skip  "
	if d.selected[item.index] {
		mark = "import"
	}

	in, ex := item.conflict.Incoming, item.conflict.Existing

	line := fmt.Sprintf("[%s] %s  %-10s  %s  %s",
		mark, FormatDate(in.Date), in.Type, FormatAmount(in.Amount, in.Currency), in.Description)
	if index == m.Index() {
		line = activeStyle("> " + line)
	} else {
		line = "  " + line
	}

	fmt.Fprintf(w, "%s\n%s\n", line,
		faint(fmt.Sprintf("         stored: %s  %s  %s (%s)",
			FormatDate(ex.Date), FormatAmount(ex.Amount, ex.Currency), ex.Description, ex.Category)))
}
