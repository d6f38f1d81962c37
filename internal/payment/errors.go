package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIBAN is returned when an IBAN fails the format check.
	ErrInvalidIBAN = errors.New("invalid IBAN format")

	// ErrInvalidAmount is returned for payment amounts of zero or less.
	ErrInvalidAmount = errors.New("payment amount must be greater than zero")

	// ErrMissingBeneficiary is returned when the beneficiary name is blank.
	ErrMissingBeneficiary = errors.New("beneficiary name is required")

	// ErrMissingReference is returned when a payment is requested without an invoice number.
	ErrMissingReference = errors.New("invoice number is required")

	// ErrGatewayUnavailable is returned when no online gateway is configured.
	ErrGatewayUnavailable = errors.New("payment gateway not configured")

	// ErrUnauthorized is returned when the gateway rejects the API key.
	ErrUnauthorized = errors.New("payment gateway rejected the API key")

	// ErrPaymentNotFound is returned when the gateway does not know a payment id.
	ErrPaymentNotFound = errors.New("payment not found")
)

// APIError is a non-success response from the payment gateway.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("payment gateway returned %d %s: %s", e.StatusCode, e.Title, e.Detail)
	}
	return fmt.Sprintf("payment gateway returned %d %s", e.StatusCode, e.Title)
}

// Is maps well-known status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == 401
	case ErrPaymentNotFound:
		return e.StatusCode == 404
	}
	return false
}
