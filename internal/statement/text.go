package statement

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayout is the DD/MM/YYYY form used by all supported Guatemalan banks.
const dateLayout = "02/01/2006"

// parseDate parses a DD/MM/YYYY token. Returns false for anything that is not
// a valid calendar date; callers skip such lines rather than emit bad records.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// amountCents parses a statement amount ("1,234.56") into cents.
// Thousands separators are commas and the decimal separator is a period on
// every supported statement.
func amountCents(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// normalizeSpace collapses runs of whitespace to single spaces and trims the
// ends. Wrapped description fragments are joined through this.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// containsAnyFold reports whether line contains any keyword, case-insensitively.
// Parsers use it for their noise skip lists.
func containsAnyFold(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

// splitLines splits statement text into trimmed lines, dropping empty ones.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))

	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}

	return lines
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
