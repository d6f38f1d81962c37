// Package fiscal maps calendar dates onto the invoicing year.
//
// Invoices are written one month behind: in January the December invoices of the
// previous year are still being produced, so January counts as the tail of the
// previous fiscal year.
package fiscal

import (
	"fmt"
	"strings"
	"time"

	"facturatie/internal/logger"
)

var monthNames = [12]string{
	"Januari", "Februari", "Maart", "April", "Mei", "Juni",
	"Juli", "Augustus", "September", "Oktober", "November", "December",
}

// MonthNames returns the Dutch month names in calendar order.
func MonthNames() []string {
	names := make([]string, len(monthNames))
	copy(names, monthNames[:])
	return names
}

// LookupMonth resolves a Dutch month name case-insensitively.
func LookupMonth(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, m := range monthNames {
		if strings.EqualFold(m, name) {
			return i + 1, true
		}
	}
	return 0, false
}

// MonthNameToNumber resolves a Dutch month name. Unknown names fall back to the
// month of now.
func MonthNameToNumber(name string, now time.Time) int {
	if n, ok := LookupMonth(name); ok {
		return n
	}
	log := logger.WithComponent("fiscal")
	log.Warn().
		Str("month", name).
		Int("fallback", int(now.Month())).
		Msg("Unknown month name, using current month")
	return int(now.Month())
}

// MonthNumberToName returns the Dutch name for month n, or "" when n is out of range.
func MonthNumberToName(n int) string {
	if n < 1 || n > 12 {
		return ""
	}
	return monthNames[n-1]
}

// DetermineFiscalYear returns the active fiscal year for now.
func DetermineFiscalYear(now time.Time) int {
	if now.Month() == time.January {
		return now.Year() - 1
	}
	return now.Year()
}

// DetermineYearForMonth returns the year an invoice for monthName belongs to.
func DetermineYearForMonth(monthName string, now time.Time) int {
	if now.Month() == time.January && MonthNameToNumber(monthName, now) == 12 {
		return now.Year() - 1
	}
	return DetermineFiscalYear(now)
}

// FirstOfMonth returns the first day of monthName in the year it is invoiced in.
func FirstOfMonth(monthName string, now time.Time) time.Time {
	year := DetermineYearForMonth(monthName, now)
	month := MonthNameToNumber(monthName, now)
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
}

// IsTransitionPeriod reports whether now falls in the January overlap.
func IsTransitionPeriod(now time.Time) bool {
	return now.Month() == time.January
}

// WorkbookFileName is the hours workbook name for the fiscal year of now.
func WorkbookFileName(now time.Time) string {
	return fmt.Sprintf("Uren %d.xlsx", DetermineFiscalYear(now))
}

// RealisatieSheetName is the summary sheet name for the fiscal year of now.
func RealisatieSheetName(now time.Time) string {
	return fmt.Sprintf("Realisatie %d", DetermineFiscalYear(now))
}

// Calendar binds the functions above to a clock.
type Calendar struct {
	Now func() time.Time
}

// New returns a Calendar on the system clock.
func New() Calendar {
	return Calendar{Now: time.Now}
}

// Fixed returns a Calendar frozen at t.
func Fixed(t time.Time) Calendar {
	return Calendar{Now: func() time.Time { return t }}
}

func (c Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today returns the current time of the calendar clock.
func (c Calendar) Today() time.Time { return c.now() }

func (c Calendar) FiscalYear() int { return DetermineFiscalYear(c.now()) }

func (c Calendar) YearForMonth(monthName string) int {
	return DetermineYearForMonth(monthName, c.now())
}

func (c Calendar) MonthNumber(monthName string) int {
	return MonthNameToNumber(monthName, c.now())
}

func (c Calendar) FirstOfMonth(monthName string) time.Time {
	return FirstOfMonth(monthName, c.now())
}

func (c Calendar) IsTransitionPeriod() bool { return IsTransitionPeriod(c.now()) }

func (c Calendar) WorkbookFileName() string { return WorkbookFileName(c.now()) }

func (c Calendar) RealisatieSheetName() string { return RealisatieSheetName(c.now()) }
