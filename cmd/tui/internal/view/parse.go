package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/lpellecer/quetzal/internal/encoding"
	"github.com/lpellecer/quetzal/internal/pdftext"
	"github.com/lpellecer/quetzal/internal/statement"
	"github.com/lpellecer/quetzal/internal/transaction"
)

const parseTimeout = 2 * time.Minute

type parseState int

const (
	parseStateForm parseState = iota
	parseStateFilePick
	parseStateParsing
	parseStateResult
)

type ParseModel struct {
	CommonModel
	txService *transaction.Service
	extractor *pdftext.Extractor

	state      parseState
	form       *huh.Form
	filePicker filepicker.Model

	// Form bindings
	selection   statement.Selection
	accountName string
	secondary   bool

	status  string
	summary string
	err     error
}

func NewParseModel(txSvc *transaction.Service, extractor *pdftext.Extractor) ParseModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AllowedTypes = []string{".pdf", ".csv"}
	fp.SetHeight(15)

	m := ParseModel{
		txService:  txSvc,
		extractor:  extractor,
		filePicker: fp,
	}
	m.form = m.buildForm()

	return m
}

func (m ParseModel) buildForm() *huh.Form {
	sels := statement.Selections()

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[statement.Selection]().
				Key("parser").
				Title("Bank / Account").
				Options(huh.NewOptions(sels...)...).
				Value(&m.selection),

			huh.NewInput().
				Key("account_name").
				Title("Account Name").
				Placeholder("bi-monetaria").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("account name cannot be empty")
					}
					return nil
				}).
				Value(&m.accountName),

			huh.NewConfirm().
				Key("secondary").
				Title("Statement belongs to an additional cardholder?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.secondary),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ParseModel) Title() string { return "Parse Statement" }

func (m ParseModel) ShortHelp() string {
	switch m.state {
	case parseStateForm:
		return "Navigate form | Esc: back"
	case parseStateFilePick:
		return "Enter: select file | Esc: back"
	}

	return "Esc: back"
}

func (m ParseModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ParseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case parseResultMsg:
		m.state = parseStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.summary = fmt.Sprintf(
			"Imported %d transactions (%d duplicates skipped, %d lines unreadable).",
			msg.imported, msg.duplicates, msg.skipped,
		)
		if msg.usedOCR {
			m.summary += "\nOCR was used for at least one page; review the amounts."
		}

		return m, nil
	}

	switch m.state {
	case parseStateForm:
		return m.updateForm(msg)
	case parseStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ParseModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case parseStateFilePick:
		m.state = parseStateForm
		m.form = m.buildForm()

		return m, m.form.Init()
	case parseStateResult:
		m.state = parseStateForm
		m.form = m.buildForm()
		m.err = nil
		m.status = ""
		m.summary = ""

		return m, m.form.Init()
	}

	return m, Back
}

func (m ParseModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.selection = m.form.Get("parser").(statement.Selection)
	m.accountName = m.form.GetString("account_name")
	m.secondary = m.form.GetBool("secondary")
	m.state = parseStateFilePick

	return m, m.filePicker.Init()
}

func (m ParseModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = parseStateParsing
		m.status = fmt.Sprintf("Parsing %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ParseModel) View() string {
	switch m.state {
	case parseStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case parseStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select statement file %s:\n\n%s", m.selection, m.filePicker.View()),
		)
	case parseStateParsing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case parseStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ParseModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.summary) +
			"\n\n(Esc to go back)",
	)
}

// Messages

type parseResultMsg struct {
	imported   int
	duplicates int
	skipped    int
	usedOCR    bool
	err        error
}

func (m ParseModel) parseCmd(path string) tea.Cmd {
	sel := m.selection
	accountName := m.accountName
	opts := statement.Options{SecondaryHolder: m.secondary}

	return func() tea.Msg {
		parser, err := statement.Get(sel.Bank, sel.Account)
		if err != nil {
			return parseResultMsg{err: err}
		}

		text, usedOCR, err := m.statementText(path, sel.Account)
		if err != nil {
			return parseResultMsg{err: err}
		}

		result, err := parser.ExtractData(text, opts)
		if err != nil {
			return parseResultMsg{err: err}
		}

		for i := range result.Records {
			result.Records[i].AccountName = accountName
		}

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		imported, err := m.txService.ImportBatch(ctx, result.Records)
		if err != nil {
			return parseResultMsg{err: err}
		}

		return parseResultMsg{
			imported:   len(imported.Imported),
			duplicates: imported.Duplicates,
			skipped:    result.SkippedLines,
			usedOCR:    usedOCR,
		}
	}
}

func (m ParseModel) statementText(path string, account statement.AccountType) (string, bool, error) {
	if account == statement.AccountCheckingCSV || strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return "", false, err
		}
		defer f.Close()

		decoded, err := encoding.NewUTF8Reader(f)
		if err != nil {
			return "", false, err
		}

		content, err := io.ReadAll(decoded)
		if err != nil {
			return "", false, err
		}

		return string(content), false, nil
	}

	res, err := m.extractor.Extract(path)
	if err != nil {
		return "", false, err
	}

	return res.Text, res.UsedOCR, nil
}
