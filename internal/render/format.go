package render

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var dutch = message.NewPrinter(language.Dutch)

// Money formats an amount the Dutch way, "€ 1.250,75".
func Money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return dutch.Sprintf("€ %.2f", f)
}

// Date formats t as dd-MM-yyyy.
func Date(t time.Time) string {
	return t.Format("02-01-2006")
}

// Percent formats a fractional rate such as 0.21 as "21%".
func Percent(rate decimal.Decimal) string {
	return rate.Shift(2).Round(2).String() + "%"
}
