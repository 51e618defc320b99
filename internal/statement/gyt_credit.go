package statement

import (
	"regexp"
	"strings"

	"github.com/lpellecer/quetzal/internal/transaction"
)

// GyTCredit parses Banco G&T Continental credit card statements.
//
// Rows carry an alphanumeric reference and a currency token in front of the
// amount. The token spelling varies (QTZ, GTQ, DOL, USD). Direction comes from
// the sign printed on the token: a leading minus marks a charge (debit),
// unsigned rows are payments or refunds (credit).
type GyTCredit struct{}

// 03/03/2024 REF123AB PASAJES AEREOS AVIANCA -QTZ 1,520.00
// 15/03/2024 PG993411 PAGO ELECTRONICO QTZ 2,000.00
var gytLine = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{4})\s+([A-Z0-9]+)\s+(.+?)\s+(-?(?:QTZ|GTQ|DOL|USD))\s+([\d,]+\.?\d{2})$`)

var gytSkip = []string{
	"subtotal",
	"total",
	"saldo anterior",
	"saldo actual",
	"disponible",
	"fecha",
	"referencia",
	"descripción",
	"crédito/débito",
}

// Additional-cardholder section boundaries.
var (
	gytSecondaryMarker = regexp.MustCompile(`(?i)^TARJETA\s+ADICIONAL`)
	gytPrimaryMarker   = regexp.MustCompile(`(?i)^TARJETA\s+TITULAR`)
)

func NewGyTCredit() *GyTCredit {
	return &GyTCredit{}
}

func (p *GyTCredit) ExtractData(text string, opts Options) (*Result, error) {
	res := &Result{}
	holder := holderFor(opts)

	sawLayout := false

	for _, line := range splitLines(text) {
		if gytSecondaryMarker.MatchString(line) {
			holder = transaction.HolderSecondary
			sawLayout = true

			continue
		}

		if gytPrimaryMarker.MatchString(line) {
			holder = holderFor(opts)
			sawLayout = true

			continue
		}

		if containsAnyFold(line, gytSkip) {
			sawLayout = true
			continue
		}

		m := gytLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		date, ok := parseDate(m[1])
		if !ok {
			res.SkippedLines++
			continue
		}

		amount, err := amountCents(m[5])
		if err != nil {
			res.SkippedLines++
			continue
		}

		token := m[4]
		negative := strings.HasPrefix(token, "-")
		code := strings.TrimPrefix(token, "-")

		currency := transaction.CurrencyGTQ
		if code == "DOL" || code == "USD" {
			currency = transaction.CurrencyUSD
		}

		txType := transaction.TypeCredit
		if negative {
			txType = transaction.TypeDebit
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
	}

	if len(res.Records) == 0 && res.SkippedLines == 0 && !sawLayout {
		return nil, ErrUnsupportedFormat
	}

	return res, nil
}
