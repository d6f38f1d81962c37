package numbering

import "errors"

var (
	// ErrNoBasePath is returned when no output folder has been configured.
	ErrNoBasePath = errors.New("invoice output folder is not set")

	// ErrInvalidNumber is returned when a string is not of the form "factuur YYYY_NNN".
	ErrInvalidNumber = errors.New("invalid invoice number")

	// ErrSequenceExhausted is returned when a year has used all three-digit sequence numbers.
	ErrSequenceExhausted = errors.New("invoice sequence exhausted for year")
)
