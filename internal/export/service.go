package export

import (
	"context"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/lpellecer/quetzal/internal/transaction"
)

// Row is the CSV shape of a normalized transaction. Column names are part
// of the export contract; downstream spreadsheets key on them.
type Row struct {
	Date                string `csv:"Date"`
	Description         string `csv:"Description"`
	OriginalDescription string `csv:"Original Description"`
	Amount              string `csv:"Amount"`
	TransactionType     string `csv:"Transaction Type"`
	Category            string `csv:"Category"`
	AccountName         string `csv:"Account Name"`
	Currency            string `csv:"Original Currency"`
	Cardholder          string `csv:"Cardholder"`
}

// Service turns stored transactions into CSV exports.
type Service struct {
	transactions *transaction.Service
}

// NewService creates a new export Service.
func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// ExportCSV writes all transactions matching the filter to w as CSV.
func (s *Service) ExportCSV(ctx context.Context, filter transaction.ListFilter, w io.Writer) error {
	entries, err := s.transactions.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	records := make([]transaction.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.Record)
	}

	return Write(w, records)
}

// Write renders records to w as CSV, header row first, in input order.
func Write(w io.Writer, records []transaction.Record) error {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, rowFromRecord(r))
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

func rowFromRecord(r transaction.Record) Row {
	return Row{
		Date:                r.Date.Format("2006-01-02"),
		Description:         r.Description,
		OriginalDescription: r.OriginalDescription,
		Amount:              decimal.NewFromInt(r.Amount).Div(decimal.NewFromInt(100)).StringFixed(2),
		TransactionType:     string(r.Type),
		Category:            r.Category,
		AccountName:         r.AccountName,
		Currency:            r.Currency,
		Cardholder:          string(r.Holder),
	}
}
