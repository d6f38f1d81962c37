package workbook

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseRate reads an hourly rate cell. The raw cell value is tried as a number first,
// then the displayed text with a decimal comma, with Dutch grouping ("1.234,50") taken
// into account. It reports false when nothing parses or the rate is not positive.
func ParseRate(raw, formatted string) (decimal.Decimal, bool) {
	text := stripCurrency(formatted)
	if text == "" {
		text = stripCurrency(raw)
	}

	for _, c := range []string{strings.TrimSpace(raw), normalizeDecimalText(text)} {
		if c == "" {
			continue
		}
		d, err := decimal.NewFromString(c)
		if err != nil {
			continue
		}
		if !d.IsPositive() {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// ParseAmount reads a positive monthly amount from the realisatie sheet.
func ParseAmount(raw string) (float64, bool) {
	d, ok := ParseRate(raw, raw)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// normalizeDecimalText turns "1.234,50", "1,234.50" and "107,5" into plain decimal
// notation. Whichever separator comes last is the decimal separator.
func normalizeDecimalText(s string) string {
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	case comma >= 0 && dot >= 0:
		return strings.ReplaceAll(s, ",", "")
	default:
		return strings.ReplaceAll(s, ",", ".")
	}
}

func stripCurrency(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "EUR")
	return strings.NewReplacer(" ", "", "\u00a0", "").Replace(strings.TrimSpace(s))
}
