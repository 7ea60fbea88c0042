// Package currency formats rupiah amounts for receipts and notifications.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount with Indonesian digit grouping,
// e.g. 222000 -> "Rp222.000".
func FormatRupiah(amount int64) string {
	return printer.Sprintf("Rp%v", number.Decimal(amount))
}
