// Package hours totals the billable hours of a client for a month.
package hours

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"facturatie/internal/logger"
	"facturatie/internal/workbook"
)

// EntrySource supplies the time entries and rate of a client.
type EntrySource interface {
	GetTimeEntries(clientName, monthName string) []workbook.TimeEntry
	GetClientAddress(clientName string) workbook.ClientRecord
}

// Aggregator sums the hours of the entries returned by its source.
type Aggregator struct {
	source EntrySource
	log    zerolog.Logger
}

// NewAggregator returns an Aggregator over source. A nil source yields zero totals.
func NewAggregator(source EntrySource) *Aggregator {
	return &Aggregator{
		source: source,
		log:    logger.WithComponent("hours"),
	}
}

// TotalHours returns the sum of the parsed hours of clientName in monthName.
func (a *Aggregator) TotalHours(clientName, monthName string) (total float64) {
	if a == nil || a.source == nil {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().
				Str("client", clientName).
				Str("month", monthName).
				Interface("panic", r).
				Msg("Cannot total hours")
			total = 0
		}
	}()

	return Sum(a.source.GetTimeEntries(clientName, monthName))
}

// Sum adds up the hours of entries.
func Sum(entries []workbook.TimeEntry) float64 {
	var total float64
	for _, e := range entries {
		total += ParseHours(e.Hours)
	}
	return total
}

// Summary is the billing basis of one client for one month.
type Summary struct {
	Client     workbook.ClientRecord
	Entries    []workbook.TimeEntry
	TotalHours float64
	// Amount is TotalHours times the hourly rate, rounded to cents, excluding VAT.
	Amount decimal.Decimal
}

// Summarize reads the entries and rate of clientName once and computes the amount.
func (a *Aggregator) Summarize(clientName, monthName string) Summary {
	s := Summary{Client: workbook.DefaultClientRecord(clientName)}
	if a == nil || a.source == nil {
		return s
	}

	s.Client = a.source.GetClientAddress(clientName)
	s.Entries = a.source.GetTimeEntries(clientName, monthName)
	s.TotalHours = Sum(s.Entries)
	s.Amount = decimal.NewFromFloat(s.TotalHours).Mul(s.Client.HourlyRate).Round(2)

	a.log.Debug().
		Str("client", clientName).
		Str("month", monthName).
		Float64("hours", s.TotalHours).
		Str("rate", s.Client.HourlyRate.String()).
		Str("amount", s.Amount.StringFixed(2)).
		Msg("Hours summarized")
	return s
}
