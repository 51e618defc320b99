package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lpellecer/quetzal/internal/transaction"
)

type ListModel struct {
	CommonModel
	txService *transaction.Service

	table   table.Model
	entries []*transaction.Entry

	// Filter cycling
	typeFilterIdx int
	dateFilterIdx int

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string
}

func NewListModel(txSvc *transaction.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Description", Width: 38},
		{Title: "Account", Width: 16},
		{Title: "Holder", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
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
		filter:    transaction.ListFilter{},
	}
}

func (m ListModel) Title() string { return "Transactions" }
func (m ListModel) ShortHelp() string {
	return "Esc: back | t: type filter | d: date filter | x: delete | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadEntriesCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
		m.status = ""
		m.refreshTable()
		return m, nil

	case deleteResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}
		return m, m.loadEntriesCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadEntriesCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadEntriesCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadEntriesCmd()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	typeLabels := []string{"All", "Debits", "Credits"}
	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s",
		activeStyle(typeLabels[m.typeFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ListModel) applyFilter() {
	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = new(transaction.TypeDebit)
	case 2:
		m.filter.Type = new(transaction.TypeCredit)
	default:
		m.filter.Type = nil
	}

	now := time.Now()
	switch m.dateFilterIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			FormatMoney(e.Amount, e.Currency),
			string(e.Type),
			e.Description,
			e.AccountName,
			string(e.Holder),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	entries []*transaction.Entry
	err     error
}

func (m ListModel) loadEntriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.txService.List(ctx, m.filter)
		return loadListMsg{entries: entries, err: err}
	}
}

type deleteResultMsg struct {
	err error
}

func (m ListModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return nil
	}

	id := m.entries[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return deleteResultMsg{err: m.txService.Delete(ctx, id)}
	}
}
