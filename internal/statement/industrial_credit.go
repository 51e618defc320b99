package statement

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/lpellecer/quetzal/internal/transaction"
)

// IndustrialCredit parses Banco Industrial credit card statements, in both the
// GTQ (Q.) and USD ($.) variants.
//
// Rows carry an explicit movement-type column, so direction comes from a fixed
// code table instead of balance deltas. A code outside the table is a hard
// error: inventing a sign for it would corrupt amounts silently.
type IndustrialCredit struct {
	currency string
	line     *regexp.Regexp
}

// Movement-type codes and their directions. Purchases (CONSUMO) are debits on
// a credit card; payments reduce the balance owed and are credits.
var (
	biCreditDebitTypes  = map[string]bool{"DEBITO": true, "CONSUMO": true}
	biCreditCreditTypes = map[string]bool{"PAGO AGENC": true, "PAGO": true, "CREDITO": true}
)

// Column header landmark. "MOVMIENTO" is the bank's own typo; match it as
// printed.
var biCreditHeader = regexp.MustCompile(`FECHA\s+.*TIPO DE MOVMIENTO\s+.*COMERCIO`)

var biCreditFooterSkip = []string{
	"favor de revisar",
	"mes calendario",
	"saldo al final",
}

// Additional-cardholder section boundaries.
var (
	biSecondaryMarker = regexp.MustCompile(`(?i)^TARJETA\s+ADICIONAL`)
	biPrimaryMarker   = regexp.MustCompile(`(?i)^TARJETA\s+TITULAR`)
)

// biCreditLineFor builds the row pattern for a currency sign:
// 02/03/2024  CONSUMO  4512879  RESTAURANTE ALTUNA  Q. 312.00  Q. 1,512.00
func biCreditLineFor(sign string) *regexp.Regexp {
	s := regexp.QuoteMeta(sign)

	return regexp.MustCompile(fmt.Sprintf(
		`^(\d{2}/\d{2}/\d{4})\s+([A-ZÁÉÍÓÚÑ ]+?)\s+(\d+)\s+(.+?)\s+%s\.\s*([\d,]+\.\d{2})\s+%s\.\s*([\d,]+\.\d{2})$`,
		s, s))
}

func NewIndustrialCredit() *IndustrialCredit {
	return &IndustrialCredit{
		currency: transaction.CurrencyGTQ,
		line:     biCreditLineFor("Q"),
	}
}

func NewIndustrialCreditUSD() *IndustrialCredit {
	return &IndustrialCredit{
		currency: transaction.CurrencyUSD,
		line:     biCreditLineFor("$"),
	}
}

func (p *IndustrialCredit) ExtractData(text string, opts Options) (*Result, error) {
	res := &Result{}
	holder := holderFor(opts)

	sawHeader := false
	unknown := map[string]bool{}

	for _, line := range splitLines(text) {
		if biCreditHeader.MatchString(line) {
			sawHeader = true
			continue
		}

		if biSecondaryMarker.MatchString(line) {
			holder = transaction.HolderSecondary
			continue
		}

		if biPrimaryMarker.MatchString(line) {
			holder = holderFor(opts)
			continue
		}

		if containsAnyFold(line, biCreditFooterSkip) {
			continue
		}

		m := p.line.FindStringSubmatch(line)
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

		movType := normalizeSpace(m[2])

		var txType transaction.Type

		switch {
		case biCreditDebitTypes[movType]:
			txType = transaction.TypeDebit
		case biCreditCreditTypes[movType]:
			txType = transaction.TypeCredit
		default:
			unknown[movType] = true
			continue
		}

		res.add(transaction.Record{
			Date:                date,
			Description:         normalizeSpace(m[4]),
			OriginalDescription: m[4],
			Amount:              abs(amount),
			Type:                txType,
			Currency:            p.currency,
			Holder:              holder,
		})
	}

	if len(unknown) > 0 {
		types := make([]string, 0, len(unknown))
		for t := range unknown {
			types = append(types, t)
		}

		sort.Strings(types)

		return nil, &UnknownMovementsError{Types: types}
	}

	if len(res.Records) == 0 && res.SkippedLines == 0 && !sawHeader {
		return nil, ErrUnsupportedFormat
	}

	return res, nil
}
