package render

import "errors"

var (
	// ErrOutputDir is returned when the folder of the target file does not exist.
	ErrOutputDir = errors.New("output folder does not exist")

	// ErrIncompleteDocument is returned when a document lacks its number or client.
	ErrIncompleteDocument = errors.New("document is missing required fields")
)
