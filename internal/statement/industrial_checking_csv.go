package statement

import (
	"encoding/csv"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lpellecer/quetzal/internal/transaction"
)

// IndustrialCheckingCSV parses Banco Industrial's CSV export of the GTQ
// checking account. The export opens with account metadata, then a statement
// period line ("Del 01/10/2025 al 31/10/2025"), then the column header row.
//
// Data rows print the date as day and month only ("01- 10"), so the year comes
// from the period line. For a period spanning a year boundary (December to
// January) each row takes the period year its month belongs to; the parser
// never assumes the processing year unless the period line is missing entirely.
type IndustrialCheckingCSV struct{}

var biCSVPeriod = regexp.MustCompile(`Del\s+(\d{2})/(\d{2})/(\d{4})\s+al\s+(\d{2})/(\d{2})/(\d{4})`)

var biCSVDay = regexp.MustCompile(`^(\d{1,2})\s*-\s*(\d{1,2})$`)

// TT (transaction type) codes: NC nota de crédito, DE depósito, ND nota de
// débito, CQ pago de cheque.
var biCSVCreditCodes = map[string]bool{"NC": true, "DE": true}

func NewIndustrialCheckingCSV() *IndustrialCheckingCSV {
	return &IndustrialCheckingCSV{}
}

func (p *IndustrialCheckingCSV) ExtractData(text string, opts Options) (*Result, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, ErrUnsupportedFormat
	}

	period, havePeriod := findPeriod(text)
	cols, headerIdx := findCSVHeader(rows)

	if cols == nil {
		return nil, ErrUnsupportedFormat
	}

	res := &Result{}
	holder := holderFor(opts)

	for _, row := range rows[headerIdx+1:] {
		dayStr := cellValue(row, cols.date)

		m := biCSVDay.FindStringSubmatch(dayStr)
		if m == nil {
			// Footer or summary row.
			continue
		}

		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])

		year := period.yearFor(month, havePeriod)

		date, ok := parseDate(pad2(day) + "/" + pad2(month) + "/" + strconv.Itoa(year))
		if !ok {
			res.SkippedLines++
			continue
		}

		txType := transaction.TypeDebit
		if biCSVCreditCodes[strings.ToUpper(cellValue(row, cols.tt))] {
			txType = transaction.TypeCredit
		}

		desc := cellValue(row, cols.desc)

		// Amount lives in Debe or Haber depending on direction; either way
		// the TT code decides the type.
		amountStr := cellValue(row, cols.debe)
		if amountStr == "" {
			amountStr = cellValue(row, cols.haber)
		}

		if amountStr == "" {
			res.SkippedLines++
			continue
		}

		amount, err := amountCents(amountStr)
		if err != nil {
			res.SkippedLines++
			continue
		}

		res.add(transaction.Record{
			Date:                date,
			Description:         normalizeSpace(desc),
			OriginalDescription: desc,
			Amount:              abs(amount),
			Type:                txType,
			Currency:            transaction.CurrencyGTQ,
			Holder:              holder,
		})
	}

	return res, nil
}

type csvColumns struct {
	date, tt, desc, debe, haber int
}

// findCSVHeader locates the header row and resolves column indices. Substring
// matching tolerates the "(Q.)" suffixes and mojibake the export sometimes
// carries on accented headers.
func findCSVHeader(rows [][]string) (*csvColumns, int) {
	for idx, row := range rows {
		cols := csvColumns{date: -1, tt: -1, desc: -1, debe: -1, haber: -1}

		for i, cell := range row {
			cell = strings.TrimSpace(cell)

			switch {
			case cell == "Fecha":
				cols.date = i
			case cell == "TT":
				cols.tt = i
			case strings.Contains(cell, "Descripci"):
				cols.desc = i
			case strings.Contains(cell, "Debe"):
				cols.debe = i
			case strings.Contains(cell, "Haber"):
				cols.haber = i
			}
		}

		if cols.date >= 0 && cols.tt >= 0 && cols.desc >= 0 && cols.debe >= 0 && cols.haber >= 0 {
			return &cols, idx
		}
	}

	return nil, -1
}

type statementPeriod struct {
	startMonth, startYear int
	endMonth, endYear     int
}

func findPeriod(text string) (statementPeriod, bool) {
	m := biCSVPeriod.FindStringSubmatch(text)
	if m == nil {
		return statementPeriod{}, false
	}

	sm, _ := strconv.Atoi(m[2])
	sy, _ := strconv.Atoi(m[3])
	em, _ := strconv.Atoi(m[5])
	ey, _ := strconv.Atoi(m[6])

	return statementPeriod{startMonth: sm, startYear: sy, endMonth: em, endYear: ey}, true
}

// yearFor picks the period year a row month belongs to. Without a period line
// the current processing year is the documented fallback; exports missing the
// period line are a known limitation, not an error.
func (sp statementPeriod) yearFor(month int, havePeriod bool) int {
	if !havePeriod {
		return time.Now().Year()
	}

	if sp.startYear == sp.endYear {
		return sp.startYear
	}

	if month >= sp.startMonth {
		return sp.startYear
	}

	return sp.endYear
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}

	return strconv.Itoa(n)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
