package view

import (
	"context"
	"fmt"
	"time"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount stored as cents into a human-readable string.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100.0)
}

// FormatMoney renders an amount with its statement currency symbol.
func FormatMoney(cents int64, currency string) string {
	symbol := "Q"
	if currency == "USD" {
		symbol = "$"
	}

	return fmt.Sprintf("%s %s", symbol, FormatAmount(cents))
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
