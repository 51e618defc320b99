package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/lpellecer/quetzal/internal/export"
	"github.com/lpellecer/quetzal/internal/transaction"
)

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStateForm
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state           exportState
	err             error
	timeframePicker TimeframePicker

	startDate time.Time
	endDate   time.Time
	allTime   bool

	form        *huh.Form
	path        string
	accountName string
	spinner     spinner.Model
	summary     string
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService:   svc,
		state:           exportStateTimeframe,
		timeframePicker: NewTimeframePicker(),
		path:            "./transactions.csv",
		spinner:         s,
	}
}

func (m ExportModel) Title() string { return "Export CSV" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.startDate = tfMsg.Start
		m.endDate = tfMsg.End
		m.allTime = tfMsg.All
		m.form = m.buildForm()
		m.state = exportStateForm
		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)
	return m, cmd
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStateTimeframe
			m.timeframePicker.Reset()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.path = m.form.GetString("path")
	m.accountName = m.form.GetString("account_name")
	m.state = exportStateExporting
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runExportCmd())
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		if result.err != nil {
			m.err = result.err
		}
		m.summary = result.summary
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output File").
				Description("Parent directory will be created if needed").
				Placeholder("./transactions.csv").
				Value(&m.path),

			huh.NewInput().
				Key("account_name").
				Title("Account Name (optional)").
				Description("Leave empty to export all accounts").
				Value(&m.accountName),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Writing CSV export...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	summary string
	err     error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd() tea.Cmd {
	start, end := m.startDate, m.endDate
	allTime := m.allTime
	path := m.path
	accountName := m.accountName

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		filter := transaction.ListFilter{}
		if !allTime {
			filter.StartDate = &start
			filter.EndDate = &end
		}

		if accountName != "" {
			filter.AccountName = &accountName
		}

		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return exportResultMsg{err: err}
			}
		}

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: err}
		}
		defer f.Close()

		if err := m.exportService.ExportCSV(ctx, filter, f); err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{summary: fmt.Sprintf("Wrote %s", path)}
	}
}
