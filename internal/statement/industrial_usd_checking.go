package statement

import (
	"regexp"

	"github.com/lpellecer/quetzal/internal/transaction"
)

// IndustrialUSDChecking parses Banco Industrial USD checking statements.
//
// Nearly the GTQ ledger layout, but the reference number is optional and
// amounts are dollars. Amounts stay in USD; conversion is not this package's
// business.
type IndustrialUSDChecking struct {
	line *regexp.Regexp
}

// 05/03/2024  784512  WIRE TRANSFER IN  1,000.00  3,450.75
// 07/03/2024  CHEQUE PAGADO  250.00  3,200.75
var biUSDLine = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{4})\s+(?:(\d+)\s+)?(.+?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})$`)

func NewIndustrialUSDChecking() *IndustrialUSDChecking {
	return &IndustrialUSDChecking{line: biUSDLine}
}

func (p *IndustrialUSDChecking) ExtractData(text string, opts Options) (*Result, error) {
	res := &Result{}
	holder := holderFor(opts)

	sawLayout := false

	var prevBalance *int64

	for _, line := range splitLines(text) {
		if containsAnyFold(line, biCheckingSkip) {
			sawLayout = true
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
			Currency:            transaction.CurrencyUSD,
			Holder:              holder,
		})
	}

	if len(res.Records) == 0 && res.SkippedLines == 0 && !sawLayout {
		return nil, ErrUnsupportedFormat
	}

	return res, nil
}
