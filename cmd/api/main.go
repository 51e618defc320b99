package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/lpellecer/quetzal/internal/config"
	"github.com/lpellecer/quetzal/internal/database"
	"github.com/lpellecer/quetzal/internal/export"
	quetzalHttp "github.com/lpellecer/quetzal/internal/http"
	exportHandler "github.com/lpellecer/quetzal/internal/http/export"
	statementsHandler "github.com/lpellecer/quetzal/internal/http/statements"
	txHandler "github.com/lpellecer/quetzal/internal/http/transaction"
	"github.com/lpellecer/quetzal/internal/pdftext"
	"github.com/lpellecer/quetzal/internal/transaction"
	txStore "github.com/lpellecer/quetzal/internal/transaction/store"
)

func main() {
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
	defer db.Close()

	var (
		transactionService = transaction.NewService(txStore.New(db))
		exportService      = export.NewService(transactionService)
		extractor          = pdftext.NewExtractor(
			pdftext.WithEngineFactory(pdftext.TesseractFactory(cfg.OCR.Language)),
			pdftext.WithRasterDPI(float64(cfg.OCR.RasterDPI)),
		)
	)

	var (
		statementsH  = statementsHandler.NewHandler(extractor, transactionService)
		transactionH = txHandler.NewHandler(transactionService)
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := quetzalHttp.New(statementsH, transactionH, exportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
