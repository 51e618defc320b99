package statement

import (
	"regexp"

	"github.com/lpellecer/quetzal/internal/transaction"
)

// IndustrialChecking parses Banco Industrial GTQ checking account statements.
//
// The main layout is a ledger: date, document number, description, amount and
// running balance on one line. The statement prints a single amount column, so
// direction comes from the balance delta between consecutive rows. Some
// statements (notably OCR'd ones) instead print a compact form without the
// balance column, with an optional CR/DB marker on the same or following line.
type IndustrialChecking struct {
	currency string
	ledger   *regexp.Regexp
	compact  *regexp.Regexp
}

// Ledger row: 01/03/2024  123456  SUPERMERCADO LA TORRE  125.50  1,325.50
var biLedgerLine = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{4})\s+(\d+)\s+(.+?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})$`)

// Compact row: 01/03/2024  SUPERMERCADO LA TORRE  Q125.50 [CR|DB]
var biCompactLine = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+Q?([\d,]+\.\d{2})(?:\s+(CR|DB))?$`)

// Standalone direction marker that banks sometimes wrap onto the next line.
var biMarkerLine = regexp.MustCompile(`^(CR|DB)$`)

// Summary rows, column headers and page furniture. These are excluded
// explicitly: a SALDO ANTERIOR row carries a perfectly parseable amount and
// must never become a transaction.
var biCheckingSkip = []string{
	"subtotal",
	"total",
	"saldo anterior",
	"saldo actual",
	"disponible",
	"fecha",
	"referencia",
	"descripción",
	"débito",
	"crédito",
	"saldo",
}

func NewIndustrialChecking() *IndustrialChecking {
	return &IndustrialChecking{
		currency: transaction.CurrencyGTQ,
		ledger:   biLedgerLine,
		compact:  biCompactLine,
	}
}

func (p *IndustrialChecking) ExtractData(text string, opts Options) (*Result, error) {
	res := &Result{}
	holder := holderFor(opts)
	lines := splitLines(text)

	sawLayout := false

	// Running balance of the previous ledger row. The first row has nothing to
	// compare against and defaults to credit; the delta corrects direction
	// from the second row on.
	var prevBalance *int64

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if containsAnyFold(line, biCheckingSkip) {
			sawLayout = true
			continue
		}

		if m := p.ledger.FindStringSubmatch(line); m != nil {
			date, ok := parseDate(m[1])
			if !ok {
				res.SkippedLines++
				continue
			}

			amount, err := amountCents(m[4])
			if err != nil {
				res.SkippedLines++
				continue
			}

			balance, err := amountCents(m[5])
			if err != nil {
				res.SkippedLines++
				continue
			}

			txType := transaction.TypeCredit
			if prevBalance != nil && balance < *prevBalance {
				txType = transaction.TypeDebit
			}

			prevBalance = &balance

			res.add(transaction.Record{
				Date:                date,
				Description:         normalizeSpace(m[3]),
				OriginalDescription: m[3],
				Amount:              abs(amount),
				Type:                txType,
				AccountName:         "",
				Currency:            p.currency,
				Holder:              holder,
			})

			continue
		}

		if m := p.compact.FindStringSubmatch(line); m != nil {
			date, ok := parseDate(m[1])
			if !ok {
				res.SkippedLines++
				continue
			}

			amount, err := amountCents(m[3])
			if err != nil {
				res.SkippedLines++
				continue
			}

			marker := m[4]
			if marker == "" && i+1 < len(lines) {
				if mm := biMarkerLine.FindStringSubmatch(lines[i+1]); mm != nil {
					marker = mm[1]
					i++
				}
			}

			// Without a balance column or marker there is no signal either
			// way; purchases and withdrawals dominate, so default to debit.
			txType := transaction.TypeDebit
			if marker == "CR" {
				txType = transaction.TypeCredit
			}

			res.add(transaction.Record{
				Date:                date,
				Description:         normalizeSpace(m[2]),
				OriginalDescription: m[2],
				Amount:              abs(amount),
				Type:                txType,
				Currency:            p.currency,
				Holder:              holder,
			})
		}
	}

	if len(res.Records) == 0 && res.SkippedLines == 0 && !sawLayout {
		return nil, ErrUnsupportedFormat
	}

	return res, nil
}
