// Package numbering allocates invoice numbers and the folders invoices are filed in.
//
// Numbers have the form "factuur {year}_{seq:000}". The sequence is shared by all
// month folders of a year:
//
//	{base}/{year} Uitgaande facturen/{year}_{MM}_{Maand}_Uitgaand/
package numbering

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"facturatie/internal/fiscal"
	"facturatie/internal/logger"
)

// Allocator assigns numbers and folders below one base path.
type Allocator struct {
	base    string
	cal     fiscal.Calendar
	dir     DirectoryStore
	store   Store
	counter *Counter
	log     zerolog.Logger
}

// NewAllocator returns an Allocator for base. Extra stores, such as the invoice
// ledger, contribute numbers that may no longer exist on disk.
func NewAllocator(base string, cal fiscal.Calendar, extra ...Store) (*Allocator, error) {
	if strings.TrimSpace(base) == "" {
		return nil, ErrNoBasePath
	}
	if cal.Now == nil {
		cal = fiscal.New()
	}

	dir := DirectoryStore{Base: base}
	var store Store = dir
	if len(extra) > 0 {
		store = append(MultiStore{dir}, extra...)
	}

	return &Allocator{
		base:    base,
		cal:     cal,
		dir:     dir,
		store:   store,
		counter: NewCounter(store),
		log:     logger.WithComponent("numbering"),
	}, nil
}

// Base returns the output base path.
func (a *Allocator) Base() string { return a.base }

// NextNumber returns the number following the highest one used in the year of
// monthName. It reads the folders on every call and reserves nothing, so repeated
// calls return the same number until a file with that number is written.
func (a *Allocator) NextNumber(monthName string) (string, error) {
	const op = "NextNumber"

	if _, err := a.EnsureFolder(monthName); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	year := a.cal.YearForMonth(monthName)
	highest, err := a.counter.Highest(year)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if highest >= MaxSequence {
		return "", fmt.Errorf("%s: %w %d", op, ErrSequenceExhausted, year)
	}

	number := Format(year, highest+1)
	a.log.Debug().Str("month", monthName).Int("highest", highest).Str("number", number).Msg("Next invoice number")
	return number, nil
}

// Reserve hands out the next number for monthName. Folders are scanned on the first
// reservation of a year only; later numbers in the same batch count up in memory.
func (a *Allocator) Reserve(monthName string) (string, error) {
	year := a.cal.YearForMonth(monthName)
	seq, err := a.counter.Reserve(year)
	if err != nil {
		return "", err
	}
	return Format(year, seq), nil
}

// Release returns a number obtained from Reserve that was never written. Only the
// latest reservation of a year can be returned.
func (a *Allocator) Release(number string) bool {
	year, seq, err := ParseNumber(number)
	if err != nil {
		return false
	}
	released := a.counter.Release(year, seq)
	a.log.Debug().Str("number", number).Bool("released", released).Msg("Release invoice number")
	return released
}

// Reset drops the in-memory reservations, typically at the start of a batch.
func (a *Allocator) Reset() { a.counter.Reset() }

// NumberExists reports whether an invoice file of the fiscal year starts with
// candidate, or a store other than the folders has recorded its sequence.
func (a *Allocator) NumberExists(candidate string) (bool, error) {
	const op = "NumberExists"

	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false, nil
	}

	year := a.cal.FiscalYear()
	found, err := a.dir.HasPrefix(year, candidate)
	if err != nil || found {
		return found, err
	}

	y, seq, err := ParseNumber(candidate)
	if err != nil || y != year {
		return false, nil
	}
	seqs, err := a.store.Sequences(year)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	for _, n := range seqs {
		if n == seq {
			return true, nil
		}
	}
	return false, nil
}

// ManualNumber formats seq as a number of the fiscal year without checking for
// collisions. Callers check NumberExists first.
func (a *Allocator) ManualNumber(seq int) string {
	return Format(a.cal.FiscalYear(), seq)
}

// AllExistingNumbers returns the distinct sequence numbers used in the fiscal year,
// ascending.
func (a *Allocator) AllExistingNumbers() ([]int, error) {
	seqs, err := a.store.Sequences(a.cal.FiscalYear())
	if err != nil {
		return nil, fmt.Errorf("AllExistingNumbers: %w", err)
	}
	return distinctSorted(seqs), nil
}

// Folder returns the month folder for monthName without creating it.
func (a *Allocator) Folder(monthName string) string {
	return MonthFolder(a.base, a.cal.YearForMonth(monthName), a.cal.MonthNumber(monthName))
}

// EnsureFolder returns the month folder for monthName, creating it when missing.
func (a *Allocator) EnsureFolder(monthName string) (string, error) {
	dir := a.Folder(monthName)
	if err := EnsureDir(dir); err != nil {
		return "", fmt.Errorf("EnsureFolder: %w", err)
	}
	return dir, nil
}

// InvoicePath returns the full PDF path of number for clientName in monthName's
// folder, creating the folder when missing.
func (a *Allocator) InvoicePath(monthName, number, clientName string) (string, error) {
	dir, err := a.EnsureFolder(monthName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName(number, clientName)), nil
}
