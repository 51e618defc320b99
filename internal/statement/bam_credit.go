package statement

import (
	"regexp"

	"github.com/lpellecer/quetzal/internal/transaction"
)

// BAMCredit parses Banco Agromercantil credit card statements.
//
// BAM statements are image-only PDFs, so the text this parser sees is OCR
// output: column alignment is gone and long merchant names wrap onto the
// following line. A row has a consumption date, a charge date, the merchant,
// a debit amount and an optional credit amount, each amount prefixed with its
// currency symbol (Q. or $.). Wrapped description fragments are glued onto the
// preceding record until a date-anchored line or noise line closes it.
type BAMCredit struct{}

// 04/03/2024 06/03/2024 | RESTAURANTE KACAO Q.450.00
// 10/03/2024 11/03/2024 AMAZON MKTPLACE $.32.99
// 15/03/2024 15/03/2024 PAGO RECIBIDO Q.0.00 Q.2,500.00
var bamLine = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{4})\s+(\d{2}/\d{2}/\d{4})\s*\|?\s*(.+?)\s+([Q$])\.([\d,]+\.\d{2})(?:\s+[Q$]\.([\d,]+\.\d{2}))?$`)

var bamDateAnchor = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)

var bamSkip = []string{
	"subtotal",
	"total",
	"saldo anterior",
	"saldo actual",
	"disponible",
	"página",
	"pagina",
}

// Cardholder section boundaries as BAM prints them.
var (
	bamSecondaryMarker = regexp.MustCompile(`(?i)^ADICIONAL:`)
	bamPrimaryMarker   = regexp.MustCompile(`(?i)^TITULAR:`)
)

func NewBAMCredit() *BAMCredit {
	return &BAMCredit{}
}

func (p *BAMCredit) ExtractData(text string, opts Options) (*Result, error) {
	res := &Result{}
	holder := holderFor(opts)

	sawLayout := false

	// Index into res.Records of the row still accepting wrapped description
	// fragments; -1 when no continuation is open.
	open := -1

	for _, line := range splitLines(text) {
		if bamSecondaryMarker.MatchString(line) {
			holder = transaction.HolderSecondary
			open = -1
			sawLayout = true

			continue
		}

		if bamPrimaryMarker.MatchString(line) {
			holder = holderFor(opts)
			open = -1
			sawLayout = true

			continue
		}

		if containsAnyFold(line, bamSkip) {
			open = -1
			sawLayout = true

			continue
		}

		m := bamLine.FindStringSubmatch(line)
		if m == nil {
			if bamDateAnchor.MatchString(line) {
				// Date-anchored but garbled (OCR mangled an amount, usually).
				res.SkippedLines++
				open = -1

				continue
			}

			// Wrapped description fragment.
			if open >= 0 {
				rec := &res.Records[open]
				rec.Description = normalizeSpace(rec.Description + " " + line)
				rec.OriginalDescription += " " + line
			}

			continue
		}

		date, ok := parseDate(m[1])
		if !ok {
			res.SkippedLines++
			open = -1

			continue
		}

		currency := transaction.CurrencyGTQ
		if m[4] == "$" {
			currency = transaction.CurrencyUSD
		}

		debit, err := amountCents(m[5])
		if err != nil {
			res.SkippedLines++
			open = -1

			continue
		}

		var credit int64
		if m[6] != "" {
			credit, err = amountCents(m[6])
			if err != nil {
				res.SkippedLines++
				open = -1

				continue
			}
		}

		// A non-zero credit column is a payment or refund; otherwise the
		// debit column is a purchase. Both zero carries no information.
		var (
			amount int64
			txType transaction.Type
		)

		switch {
		case credit != 0:
			amount, txType = credit, transaction.TypeCredit
		case debit != 0:
			amount, txType = debit, transaction.TypeDebit
		default:
			res.SkippedLines++
			open = -1

			continue
		}

		res.add(transaction.Record{
			Date:                date,
			Description:         normalizeSpace(m[3]),
			OriginalDescription: m[3],
			Amount:              abs(amount),
			Type:                txType,
			Currency:            currency,
			Holder:              holder,
		})

		open = len(res.Records) - 1
	}

	if len(res.Records) == 0 && res.SkippedLines == 0 && !sawLayout {
		return nil, ErrUnsupportedFormat
	}

	return res, nil
}
