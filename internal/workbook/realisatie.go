package workbook

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

const (
	headerMarker     = "factuurgegevens"
	headerSearchRows = 20
	monthHeaderRow   = 3
	firstMonthCol    = 2
	lastMonthCol     = 13
	clientScanLimit  = 200
	blankRunLength   = 3
)

// legacyClientRows is the fixed client range used by workbooks without a header.
var legacyClientRows = [2]int{5, 31}

var endMarkers = map[string]bool{
	"btw": true, "totaal": true, "subtotaal": true, "kosten": true, "budget": true,
}

// isEndMarker reports whether a column A value closes the client list. Markers must
// appear as whole words so client names like "Kostenbeheer BV" are kept.
func isEndMarker(value string) bool {
	words := strings.FieldsFunc(strings.ToLower(value), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if endMarkers[w] {
			return true
		}
	}
	return false
}

// ListClients reads the client rows of the realisatie sheet for the fiscal year,
// with the positive amounts found under each month header.
func (r *Repository) ListClients() ([]ClientAmount, error) {
	const op = "ListClients"

	f, err := r.open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	sheet := r.cal.RealisatieSheetName()
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %q: %w", op, sheet, err)
	}

	months := make(map[int]string)
	for col := firstMonthCol; col <= lastMonthCol; col++ {
		if name := cell(rows, monthHeaderRow, col); name != "" {
			months[col] = name
		}
	}

	var clients []ClientAmount
	for _, row := range clientRows(rows) {
		name := cell(rows, row, 1)
		if name == "" {
			continue
		}
		client := ClientAmount{Name: name, Row: row, Amounts: make(map[string]float64)}
		for col, month := range months {
			if amount, ok := ParseAmount(cell(rows, row, col)); ok {
				client.Amounts[month] = amount
			}
		}
		clients = append(clients, client)
	}

	r.log.Debug().
		Str("sheet", sheet).
		Int("clients", len(clients)).
		Int("months", len(months)).
		Msg("Realisatie sheet read")

	if len(clients) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoClients)
	}
	return clients, nil
}

// clientRows returns the row numbers between the "factuurgegevens" header and the end
// of the client list.
func clientRows(rows [][]string) []int {
	header := -1
	for row := 1; row <= headerSearchRows; row++ {
		if strings.Contains(strings.ToLower(cell(rows, row, 1)), headerMarker) {
			header = row
			break
		}
	}

	var result []int
	if header < 0 {
		for row := legacyClientRows[0]; row <= legacyClientRows[1]; row++ {
			result = append(result, row)
		}
		return result
	}

	for row := header + 1; row <= clientScanLimit; row++ {
		value := cell(rows, row, 1)
		switch {
		case value == "":
			if blankRun(rows, row) {
				return result
			}
		case isEndMarker(value):
			return result
		default:
			result = append(result, row)
		}
	}
	return result
}

func blankRun(rows [][]string, start int) bool {
	for i := 0; i < blankRunLength; i++ {
		if cell(rows, start+i, 1) != "" {
			return false
		}
	}
	return true
}

// MonthClient is a client with a positive amount in the requested month.
type MonthClient struct {
	Name   string
	Amount float64
}

// ClientsForMonth returns the clients with an amount in monthName, sorted by name.
func (r *Repository) ClientsForMonth(monthName string) ([]MonthClient, error) {
	clients, err := r.ListClients()
	if err != nil {
		return nil, err
	}
	return FilterMonth(clients, monthName), nil
}

// FilterMonth keeps the clients with an amount under monthName, one entry per name.
func FilterMonth(clients []ClientAmount, monthName string) []MonthClient {
	seen := make(map[string]int)
	var result []MonthClient
	for _, c := range clients {
		for month, amount := range c.Amounts {
			if !strings.EqualFold(strings.TrimSpace(month), strings.TrimSpace(monthName)) {
				continue
			}
			if i, ok := seen[c.Name]; ok {
				result[i].Amount = amount
				continue
			}
			seen[c.Name] = len(result)
			result = append(result, MonthClient{Name: c.Name, Amount: amount})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
