package statement

import (
	"fmt"
	"sort"
	"strings"
)

// Bank identifies the issuing bank of a statement.
type Bank string

const (
	BankIndustrial Bank = "industrial"
	BankBAM        Bank = "bam"
	BankGyT        Bank = "gyt"
)

// AccountType identifies the kind of account a statement covers.
type AccountType string

const (
	AccountChecking    AccountType = "checking"
	AccountUSDChecking AccountType = "usd_checking"
	AccountCredit      AccountType = "credit"
	AccountCreditUSD   AccountType = "credit_usd"
	// AccountCheckingCSV is Banco Industrial's CSV export of the GTQ checking
	// account, which carries different column layout and date handling than
	// the PDF statement.
	AccountCheckingCSV AccountType = "checking_csv"
)

// Selection is a registered (bank, account type) pair.
type Selection struct {
	Bank    Bank        `json:"bank"`
	Account AccountType `json:"account"`
}

func (s Selection) String() string {
	return fmt.Sprintf("(%s, %s)", s.Bank, s.Account)
}

// registry maps selections to parser constructors. Parsers are stateless, so
// instantiating one per call is cheap and keeps concurrent parses independent.
var registry = map[Selection]func() Parser{
	{BankIndustrial, AccountChecking}:    func() Parser { return NewIndustrialChecking() },
	{BankIndustrial, AccountUSDChecking}: func() Parser { return NewIndustrialUSDChecking() },
	{BankIndustrial, AccountCredit}:      func() Parser { return NewIndustrialCredit() },
	{BankIndustrial, AccountCreditUSD}:   func() Parser { return NewIndustrialCreditUSD() },
	{BankIndustrial, AccountCheckingCSV}: func() Parser { return NewIndustrialCheckingCSV() },
	{BankBAM, AccountCredit}:             func() Parser { return NewBAMCredit() },
	{BankGyT, AccountCredit}:             func() Parser { return NewGyTCredit() },
}

// Get returns the parser for the given bank and account type.
//
// The error for an unregistered pair lists every valid combination: the pair
// comes from a user-facing dropdown upstream and the message is shown as-is.
func Get(bank Bank, account AccountType) (Parser, error) {
	construct, ok := registry[Selection{bank, account}]
	if !ok {
		return nil, fmt.Errorf("%w for bank=%q account=%q; valid combinations: %s",
			ErrUnknownParser, bank, account, validCombinations())
	}

	return construct(), nil
}

// Selections returns all registered pairs in stable order.
func Selections() []Selection {
	out := make([]Selection, 0, len(registry))
	for sel := range registry {
		out = append(out, sel)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Bank != out[j].Bank {
			return out[i].Bank < out[j].Bank
		}

		return out[i].Account < out[j].Account
	})

	return out
}

func validCombinations() string {
	sels := Selections()
	parts := make([]string, 0, len(sels))

	for _, s := range sels {
		parts = append(parts, s.String())
	}

	return strings.Join(parts, ", ")
}
