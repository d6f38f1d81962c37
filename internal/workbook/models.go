package workbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientRecord holds the name and address block of a client tab plus the hourly rate.
type ClientRecord struct {
	Name       string
	Attention  string // "T.a.v." line
	Street     string
	PostalCode string
	City       string
	HourlyRate decimal.Decimal
}

// DefaultClientRecord is used when a client tab is missing or has blank fields.
func DefaultClientRecord(clientName string) ClientRecord {
	return ClientRecord{
		Name:       clientName,
		Attention:  "T.a.v. de heer G.P.J. Houben",
		Street:     "Willinkhof 3",
		PostalCode: "6006 RG",
		City:       "Weert",
		HourlyRate: DefaultHourlyRate,
	}
}

// DefaultHourlyRate applies when the rate cell is blank, unparsable or not positive.
var DefaultHourlyRate = decimal.RequireFromString("107.5")

// TimeEntry is one row of a client's hours accounting.
type TimeEntry struct {
	// Date is nil when the date cell could not be parsed.
	Date     *time.Time
	Activity string
	// Hours is kept as written in the sheet, the hours package parses it.
	Hours   string
	Remarks string
}

// ClientAmount is a client row of the realisatie sheet with its budgeted amounts per month.
type ClientAmount struct {
	Name    string
	Row     int
	Amounts map[string]float64 // keyed by the month header as written in row 3
}
