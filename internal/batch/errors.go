package batch

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("invalid invoice input")

	// ErrNumberInUse is returned when a manual number already exists and Force is not set.
	ErrNumberInUse = errors.New("invoice number already exists")

	// ErrNoClients is returned when a batch is started without clients.
	ErrNoClients = errors.New("no clients selected")
)

// InvoiceError is the failure of one client in a batch.
type InvoiceError struct {
	// Op is the operation that failed, e.g. "Reserve" or "Render".
	Op string

	// Client is the client the invoice was for.
	Client string

	// Stage is the state the invoice was in when it failed.
	Stage Stage

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *InvoiceError) Error() string {
	return fmt.Sprintf("batch: %s failed for %s while %s: %v", e.Op, e.Client, e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *InvoiceError) Unwrap() error {
	return e.Err
}

// Is reports whether the underlying error matches target.
func (e *InvoiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// Message is the short form shown in the batch summary.
func (e *InvoiceError) Message() string {
	return fmt.Sprintf("%s: %v", e.Client, e.Err)
}

func newInvoiceError(op, client string, stage Stage, err error) *InvoiceError {
	return &InvoiceError{Op: op, Client: client, Stage: stage, Err: err}
}

// ValidationError is an invalid invoice input.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}
