// Package statements exposes statement upload and parsing over HTTP.
package statements

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lpellecer/quetzal/internal/encoding"
	"github.com/lpellecer/quetzal/internal/pdftext"
	"github.com/lpellecer/quetzal/internal/statement"
	"github.com/lpellecer/quetzal/internal/transaction"
)

const maxUploadBytes = 32 << 20

// Extractor pulls text out of a PDF. *pdftext.Extractor satisfies it.
type Extractor interface {
	Extract(path string) (*pdftext.Result, error)
}

type Handler struct {
	extractor Extractor
	txSvc     *transaction.Service
	jobs      *jobRegistry
}

func NewHandler(extractor Extractor, txSvc *transaction.Service) *Handler {
	return &Handler{
		extractor: extractor,
		txSvc:     txSvc,
		jobs:      newJobRegistry(),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/parsers", h.parsers)
	r.Post("/", h.parse)
	r.Post("/jobs", h.createJob)
	r.Get("/jobs/{id}", h.getJob)
}

type parserResponse struct {
	Bank    statement.Bank        `json:"bank"`
	Account statement.AccountType `json:"account"`
}

func (h *Handler) parsers(w http.ResponseWriter, r *http.Request) {
	sels := statement.Selections()

	resp := make([]parserResponse, 0, len(sels))
	for _, sel := range sels {
		resp = append(resp, parserResponse{Bank: sel.Bank, Account: sel.Account})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type entryResponse struct {
	ID                  uuid.UUID          `json:"id"`
	Date                time.Time          `json:"date"`
	Description         string             `json:"description"`
	OriginalDescription string             `json:"original_description,omitempty"`
	Amount              int64              `json:"amount"`
	Type                transaction.Type   `json:"type"`
	Category            string             `json:"category,omitempty"`
	AccountName         string             `json:"account_name"`
	Currency            string             `json:"currency"`
	Holder              transaction.Holder `json:"holder"`
	CreatedAt           time.Time          `json:"created_at"`
}

type parseResponse struct {
	Imported     int             `json:"imported"`
	Duplicates   int             `json:"duplicates"`
	SkippedLines int             `json:"skipped_lines"`
	UsedOCR      bool            `json:"used_ocr"`
	Transactions []entryResponse `json:"transactions"`
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	params, err := uploadParamsFrom(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := saveUpload(file)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.Remove(path)

	outcome, err := h.process(r.Context(), path, header.Filename, params)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	resp := parseResponse{
		Imported:     len(outcome.imported),
		Duplicates:   outcome.duplicates,
		SkippedLines: outcome.skippedLines,
		UsedOCR:      outcome.usedOCR,
		Transactions: make([]entryResponse, 0, len(outcome.imported)),
	}
	for _, e := range outcome.imported {
		resp.Transactions = append(resp.Transactions, toEntryResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// uploadParams carries the form fields that tell us how to parse an upload.
type uploadParams struct {
	bank        statement.Bank
	account     statement.AccountType
	accountName string
	opts        statement.Options
}

func uploadParamsFrom(r *http.Request) (uploadParams, error) {
	params := uploadParams{
		bank:        statement.Bank(r.FormValue("bank")),
		account:     statement.AccountType(r.FormValue("account")),
		accountName: r.FormValue("account_name"),
		opts: statement.Options{
			SecondaryHolder: r.FormValue("secondary_holder") == "true",
		},
	}

	if params.bank == "" {
		return params, errors.New("bank field is required")
	}

	if params.account == "" {
		return params, errors.New("account field is required")
	}

	return params, nil
}

type outcome struct {
	imported     []*transaction.Entry
	duplicates   int
	skippedLines int
	usedOCR      bool
}

// process runs the whole pipeline for one saved upload: text acquisition,
// parsing and persistence.
func (h *Handler) process(ctx context.Context, path, filename string, params uploadParams) (*outcome, error) {
	parser, err := statement.Get(params.bank, params.account)
	if err != nil {
		return nil, err
	}

	text, usedOCR, err := h.textFromFile(path, filename, params.account)
	if err != nil {
		return nil, err
	}

	result, err := parser.ExtractData(text, params.opts)
	if err != nil {
		return nil, err
	}

	for i := range result.Records {
		result.Records[i].AccountName = params.accountName
	}

	imported, err := h.txSvc.ImportBatch(ctx, result.Records)
	if err != nil {
		return nil, err
	}

	return &outcome{
		imported:     imported.Imported,
		duplicates:   imported.Duplicates,
		skippedLines: result.SkippedLines,
		usedOCR:      usedOCR,
	}, nil
}

// textFromFile decodes CSV uploads directly and sends everything else
// through PDF extraction.
func (h *Handler) textFromFile(path, filename string, account statement.AccountType) (string, bool, error) {
	if account == statement.AccountCheckingCSV || strings.EqualFold(filepath.Ext(filename), ".csv") {
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

	res, err := h.extractor.Extract(path)
	if err != nil {
		return "", false, err
	}

	return res.Text, res.UsedOCR, nil
}

func saveUpload(file multipart.File) (string, error) {
	tmp, err := os.CreateTemp("", "quetzal-upload-*")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return "", err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// statusFor maps pipeline errors to HTTP statuses: caller mistakes are 400,
// documents we cannot handle are 422, a missing OCR install is 503.
func statusFor(err error) int {
	var unknownErr *statement.UnknownMovementsError

	switch {
	case errors.Is(err, statement.ErrUnknownParser):
		return http.StatusBadRequest
	case errors.Is(err, statement.ErrUnsupportedFormat),
		errors.Is(err, pdftext.ErrUnreadablePDF),
		errors.As(err, &unknownErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pdftext.ErrOCRUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toEntryResponse(e *transaction.Entry) entryResponse {
	return entryResponse{
		ID:                  e.ID,
		Date:                e.Date,
		Description:         e.Description,
		OriginalDescription: e.OriginalDescription,
		Amount:              e.Amount,
		Type:                e.Type,
		Category:            e.Category,
		AccountName:         e.AccountName,
		Currency:            e.Currency,
		Holder:              e.Holder,
		CreatedAt:           e.CreatedAt,
	}
}
