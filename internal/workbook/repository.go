// Package workbook reads client data from the yearly hours workbook.
//
// The workbook holds one summary sheet ("Realisatie {year}") listing clients with
// their monthly amounts, and one tab per client with a name and address block in
// C1:C6 and time entries from row 10 onwards in columns B to E.
package workbook

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"facturatie/internal/fiscal"
	"facturatie/internal/logger"
)

const (
	entryFirstRow = 10
	entryLastRow  = 200
	// blank rows after a blank row that confirm the end of the time entries
	entryEndLookahead = 3
)

// Options configures a Repository. Zero values select the defaults.
type Options struct {
	Matcher  Matcher
	Calendar fiscal.Calendar
}

// Repository looks up client tabs in a workbook file. The file is reopened on every
// call so edits made between runs are always seen.
type Repository struct {
	path    string
	matcher Matcher
	cal     fiscal.Calendar
	log     zerolog.Logger
}

// NewRepository returns a repository over the workbook at path.
func NewRepository(path string, opts Options) *Repository {
	if opts.Matcher == nil {
		opts.Matcher = TokenMatcher{}
	}
	if opts.Calendar.Now == nil {
		opts.Calendar = fiscal.New()
	}
	return &Repository{
		path:    path,
		matcher: opts.Matcher,
		cal:     opts.Calendar,
		log:     logger.WithComponent("workbook"),
	}
}

// Path returns the workbook file path.
func (r *Repository) Path() string { return r.path }

func (r *Repository) open() (*excelize.File, error) {
	const op = "open"

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrWorkbookOpen, err)
	}
	return f, nil
}

// Sheets returns the worksheet names in workbook order.
func (r *Repository) Sheets() ([]string, error) {
	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// FindClientTab returns the worksheet holding clientName's data.
func (r *Repository) FindClientTab(clientName string) (string, bool, error) {
	sheets, err := r.Sheets()
	if err != nil {
		return "", false, fmt.Errorf("FindClientTab: %w", err)
	}
	name, ok := matchSheet(sheets, clientName, r.matcher)
	return name, ok, nil
}

// GetClientAddress reads the name and address block and the hourly rate of a client.
// Missing tabs and blank cells fall back to DefaultClientRecord.
func (r *Repository) GetClientAddress(clientName string) ClientRecord {
	log := r.log.With().Str("client", clientName).Logger()
	record := DefaultClientRecord(clientName)

	f, err := r.open()
	if err != nil {
		log.Warn().Err(err).Msg("Workbook unavailable, using default address")
		return record
	}
	defer f.Close()

	tab, ok := matchSheet(f.GetSheetList(), clientName, r.matcher)
	if !ok {
		log.Warn().Msg("No tab found for client, using default address")
		return record
	}

	text := func(row int) string {
		v, err := f.GetCellValue(tab, cellName(3, row))
		if err != nil {
			log.Debug().Err(err).Int("row", row).Msg("Cannot read address cell")
			return ""
		}
		return strings.TrimSpace(v)
	}

	fill := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	fill(&record.Name, text(1))
	fill(&record.Attention, text(2))
	fill(&record.Street, text(3))
	fill(&record.PostalCode, text(4))
	fill(&record.City, text(5))

	rateCell := cellName(3, 6)
	raw, _ := f.GetCellValue(tab, rateCell, excelize.Options{RawCellValue: true})
	formatted, _ := f.GetCellValue(tab, rateCell)
	if rate, ok := ParseRate(raw, formatted); ok {
		record.HourlyRate = rate
	} else {
		log.Warn().
			Str("value", formatted).
			Str("default", DefaultHourlyRate.String()).
			Msg("Cannot parse hourly rate, using default")
	}

	log.Debug().Str("tab", tab).Str("rate", record.HourlyRate.String()).Msg("Client address loaded")
	return record
}

// GetTimeEntries returns the time entries of clientName for monthName, sorted by date.
// When the tab is missing or has no entries for the month, a single fallback entry
// of one hour is returned so an invoice always has a line.
func (r *Repository) GetTimeEntries(clientName, monthName string) []TimeEntry {
	log := r.log.With().Str("client", clientName).Str("month", monthName).Logger()

	entries, err := r.readTimeEntries(clientName)
	if err != nil {
		log.Warn().Err(err).Msg("Cannot read time entries, using fallback entry")
		return r.fallbackEntries(clientName)
	}

	now := r.cal.Today()
	month := fiscal.MonthNameToNumber(monthName, now)
	year := fiscal.DetermineYearForMonth(monthName, now)

	filtered := entries[:0]
	for _, e := range entries {
		if e.Date != nil && int(e.Date.Month()) == month && e.Date.Year() == year {
			filtered = append(filtered, e)
		}
	}

	log.Debug().
		Int("read", len(entries)).
		Int("matched", len(filtered)).
		Int("year", year).
		Msg("Time entries filtered")

	if len(filtered) == 0 {
		log.Warn().Int("year", year).Msg("No time entries for month, using fallback entry")
		return r.fallbackEntries(clientName)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.Before(*filtered[j].Date)
	})
	return filtered
}

// readTimeEntries returns every entry row of the client's tab, unfiltered.
func (r *Repository) readTimeEntries(clientName string) ([]TimeEntry, error) {
	const op = "readTimeEntries"

	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tab, ok := matchSheet(f.GetSheetList(), clientName, r.matcher)
	if !ok {
		return nil, fmt.Errorf("%s: %w: no tab for %q", op, ErrSheetNotFound, clientName)
	}

	rows, err := f.GetRows(tab, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read rows of %q: %w", op, tab, err)
	}

	blank := func(row int) bool {
		return cell(rows, row, 2) == "" && cell(rows, row, 3) == "" && cell(rows, row, 4) == ""
	}

	var entries []TimeEntry
	for row := entryFirstRow; row <= entryLastRow; row++ {
		if blank(row) {
			end := true
			for next := row + 1; next <= row+entryEndLookahead; next++ {
				if !blank(next) {
					end = false
					break
				}
			}
			if end {
				break
			}
		}

		activity := cell(rows, row, 3)
		if activity == "" {
			continue
		}

		entry := TimeEntry{
			Activity: activity,
			Hours:    cell(rows, row, 4),
			Remarks:  cell(rows, row, 5),
		}
		if entry.Hours == "" {
			entry.Hours = fallbackHours
		}
		if d, ok := ParseWorkDate(cell(rows, row, 2)); ok {
			entry.Date = &d
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *Repository) fallbackEntries(clientName string) []TimeEntry {
	now := r.cal.Today()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return []TimeEntry{{
		Date:     &today,
		Activity: fallbackPrefix + clientName,
		Hours:    fallbackHours,
		Remarks:  "",
	}}
}

const (
	fallbackHours  = "1,0"
	fallbackPrefix = "Advieswerkzaamheden voor "
)

// cell returns the trimmed value at a 1-based row and column of a GetRows result.
func cell(rows [][]string, row, col int) string {
	if row < 1 || row > len(rows) {
		return ""
	}
	cols := rows[row-1]
	if col < 1 || col > len(cols) {
		return ""
	}
	return strings.TrimSpace(cols[col-1])
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
