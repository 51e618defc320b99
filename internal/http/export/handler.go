package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lpellecer/quetzal/internal/export"
	"github.com/lpellecer/quetzal/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/csv", h.downloadCSV)
}

// downloadCSV streams the matching transactions as a CSV attachment.
// Filters come in as query parameters: account_name, start_date, end_date.
func (h *Handler) downloadCSV(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}

	if s := r.URL.Query().Get("account_name"); s != "" {
		filter.AccountName = new(s)
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}

		filter.StartDate = new(t)
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}

		filter.EndDate = new(t)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"", time.Now().Format("20060102")))

	if err := h.svc.ExportCSV(r.Context(), filter, w); err != nil {
		// Headers are already out; all we can do is log.
		slog.Error("failed to write csv export", "error", err)
	}
}
