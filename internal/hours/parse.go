package hours

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonNumeric = regexp.MustCompile(`[^\d,.]`)

// ParseHours reads an hours cell written with either a decimal comma or a decimal
// point. Values that cannot be read count as zero.
func ParseHours(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	if v, ok := parseFloat(strings.ReplaceAll(text, ",", ".")); ok {
		return v
	}
	comma, dot := strings.LastIndex(text, ","), strings.LastIndex(text, ".")
	if comma > dot && dot >= 0 {
		// Dutch grouping: "1.234,5"
		if v, ok := parseFloat(strings.ReplaceAll(strings.ReplaceAll(text, ".", ""), ",", ".")); ok {
			return v
		}
	}
	if dot > comma && comma >= 0 {
		// US grouping: "1,234.5"
		if v, ok := parseFloat(strings.ReplaceAll(text, ",", "")); ok {
			return v
		}
	}

	clean := strings.ReplaceAll(nonNumeric.ReplaceAllString(text, ""), ",", ".")
	if v, ok := parseFloat(clean); ok {
		return v
	}
	return 0
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatHours renders hours with one decimal and a decimal comma, as on the invoice.
func FormatHours(h float64) string {
	return strings.Replace(strconv.FormatFloat(h, 'f', 1, 64), ".", ",", 1)
}
