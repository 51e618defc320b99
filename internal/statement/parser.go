// Package statement parses extracted bank-statement text into normalized
// transaction records.
//
// Each supported (bank, account type) pair has its own parser: a line-oriented
// regex matcher tuned to that bank's layout. Statement layouts change without
// notice, so parsers are deliberately isolated from each other — each carries
// its own transaction pattern, its own skip list of noise lines, and its own
// sign convention. Get selects among them.
package statement

import "github.com/lpellecer/quetzal/internal/transaction"

// Options control aspects of a parse that the caller knows and the text does not.
type Options struct {
	// SecondaryHolder tags all records as belonging to an additional
	// cardholder. It does not change parsing logic; statements that contain
	// their own holder sections still switch holders on section markers.
	SecondaryHolder bool
}

// Result is the outcome of parsing one statement.
type Result struct {
	// Records in statement order. Never re-sorted.
	Records []transaction.Record

	// SkippedLines counts lines that matched a transaction pattern but had an
	// unparseable date or amount. Noise lines (headers, subtotals) do not count.
	SkippedLines int
}

// Parser extracts transaction records from statement text.
//
// Implementations hold no state across calls and are safe for concurrent use.
// Malformed individual lines are skipped, never fatal; ErrUnsupportedFormat is
// returned only when the document as a whole shows none of the expected layout.
type Parser interface {
	ExtractData(text string, opts Options) (*Result, error)
}

func (r *Result) add(rec transaction.Record) {
	r.Records = append(r.Records, rec)
}

// holderFor returns the baseline holder for a parse.
func holderFor(opts Options) transaction.Holder {
	if opts.SecondaryHolder {
		return transaction.HolderSecondary
	}

	return transaction.HolderPrimary
}
