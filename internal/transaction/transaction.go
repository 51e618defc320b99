package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the direction of money movement relative to the account
// holder. Note that credit-card statements invert the convention relative to
// checking accounts: a purchase is a debit because it increases the balance owed.
type Type string

const (
	TypeCredit Type = "credit"
	TypeDebit  Type = "debit"
)

// Holder identifies which cardholder section of a statement a record came from.
// Credit-card statements commonly contain a block for the primary holder
// followed by blocks for additional cardholders on the same account.
type Holder string

const (
	HolderPrimary   Holder = "primary"
	HolderSecondary Holder = "secondary"
)

// Currency codes as they appear on Guatemalan statements.
const (
	CurrencyGTQ = "GTQ"
	CurrencyUSD = "USD"
)

// Record is one economic event parsed from a bank statement.
//
// Amount is always a positive magnitude in cents; the direction lives solely
// in Type. Records are pure values: parsers construct them and never touch
// them again.
type Record struct {
	Date                time.Time
	Description         string
	OriginalDescription string
	Amount              int64 // cents, always > 0
	Type                Type
	Category            string // left blank by parsers, filled downstream
	AccountName         string // caller-supplied label, not inferred
	Currency            string
	Holder              Holder
}

// Entry is a persisted Record.
type Entry struct {
	ID        uuid.UUID
	Record
	CreatedAt time.Time
}
