package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/lpellecer/quetzal/cmd/tui/internal/view"
	"github.com/lpellecer/quetzal/internal/config"
	"github.com/lpellecer/quetzal/internal/database"
	"github.com/lpellecer/quetzal/internal/export"
	"github.com/lpellecer/quetzal/internal/pdftext"
	"github.com/lpellecer/quetzal/internal/transaction"
	txStore "github.com/lpellecer/quetzal/internal/transaction/store"
)

type model struct {
	txService     *transaction.Service
	exportService *export.Service
	extractor     *pdftext.Extractor

	currentView View

	parseView  view.ParseModel
	listView   view.ListModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewParse  View = 1
	ViewList   View = 2
	ViewExport View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(txStore.New(db))
	expSvc := export.NewService(txSvc)
	extractor := pdftext.NewExtractor(
		pdftext.WithEngineFactory(pdftext.TesseractFactory(cfg.OCR.Language)),
		pdftext.WithRasterDPI(float64(cfg.OCR.RasterDPI)),
	)

	return model{
		txService:     txSvc,
		exportService: expSvc,
		extractor:     extractor,
		currentView:   ViewMenu,
		parseView:     view.NewParseModel(txSvc, extractor),
		listView:      view.NewListModel(txSvc),
		exportView:    view.NewExportModel(expSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewParse
				m.parseView = view.NewParseModel(m.txService, m.extractor)

				return m, m.parseView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.txService)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewParse:
		var newModel tea.Model
		newModel, cmd = m.parseView.Update(msg)
		m.parseView = newModel.(view.ParseModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Quetzal TUI\n\n" +
				"1. Parse Statement\n" +
				"2. Browse Transactions\n" +
				"3. Export CSV\n\n" +
				"q. Quit",
		)
	case ViewParse:
		return m.parseView.View()
	case ViewList:
		return m.listView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
