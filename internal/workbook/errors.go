package workbook

import "errors"

var (
	// ErrWorkbookOpen is returned when the hours workbook cannot be opened.
	ErrWorkbookOpen = errors.New("cannot open hours workbook")

	// ErrSheetNotFound is returned when a named worksheet is missing from the workbook.
	ErrSheetNotFound = errors.New("worksheet not found")

	// ErrNoClients is returned when the realisatie sheet yields no client rows.
	ErrNoClients = errors.New("no clients found in realisatie sheet")
)
