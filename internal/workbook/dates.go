package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// serialEpoch plus serial-2 days lands on the right day for serials after February 1900.
var serialEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

var textDateLayouts = []string{
	"02-01-2006", "02/01/2006", "02-01-06", "02/01/06",
	"2-1-2006", "2/1/2006", "2-1-06", "2/1/06",
	"02-Jan-2006", "02-Jan-06", "2-Jan-2006", "2-Jan-06",
	"2 Jan 2006", "2 January 2006",
	"2006-01-02", "2006-01-02 15:04:05", time.RFC3339,
}

// dutchMonths maps Dutch month spellings onto the English abbreviations time.Parse knows.
var dutchMonths = map[string]string{
	"januari": "Jan", "februari": "Feb", "maart": "Mar", "april": "Apr",
	"mei": "May", "juni": "Jun", "juli": "Jul", "augustus": "Aug",
	"september": "Sep", "oktober": "Oct", "november": "Nov", "december": "Dec",
	"jan": "Jan", "feb": "Feb", "mrt": "Mar", "apr": "Apr", "jun": "Jun",
	"jul": "Jul", "aug": "Aug", "sep": "Sep", "sept": "Sep", "okt": "Oct",
	"nov": "Nov", "dec": "Dec", "mar": "Mar", "may": "May", "oct": "Oct",
}

// ParseWorkDate converts a date cell into a date. The cell is either a spreadsheet
// serial number or text in one of the accepted layouts.
func ParseWorkDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial < 1 || serial > 2958465 {
			return time.Time{}, false
		}
		return serialEpoch.AddDate(0, 0, int(math.Floor(serial))-2), true
	}

	text := normalizeMonthWord(raw)
	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeMonthWord rewrites a Dutch month word in a "dd-mmm-yyyy" or "d mmmm yyyy"
// date to the English abbreviation.
func normalizeMonthWord(s string) string {
	sep := ""
	switch {
	case strings.Contains(s, "-"):
		sep = "-"
	case strings.Contains(s, " "):
		sep = " "
	default:
		return s
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return s
	}
	if abbr, ok := dutchMonths[strings.ToLower(strings.TrimSuffix(parts[1], "."))]; ok {
		parts[1] = abbr
	}
	return strings.Join(parts, sep)
}
