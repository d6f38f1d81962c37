package batch

import (
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"facturatie/internal/fiscal"
	"facturatie/internal/numbering"
)

func validateClient(client string) error {
	if strings.TrimSpace(client) == "" {
		return NewValidationError("client", client, "Klantnaam is verplicht")
	}
	return nil
}

func validateMonth(month string) error {
	if strings.TrimSpace(month) == "" {
		return NewValidationError("month", month, "Maand is verplicht")
	}
	if _, ok := fiscal.LookupMonth(month); !ok {
		return NewValidationError("month", month, "onbekende maand")
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return NewValidationError("amount", amount.StringFixed(2), "Bedrag moet groter zijn dan 0")
	}
	return nil
}

func validateNumber(number string) error {
	if strings.TrimSpace(number) == "" {
		return NewValidationError("number", number, "Factuurnummer is verplicht")
	}
	if _, _, err := numbering.ParseNumber(number); err != nil {
		return NewValidationError("number", number, "ongeldig factuurnummer")
	}
	return nil
}

func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return NewValidationError("path", path, "Bestandspad is verplicht")
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewValidationError("path", path, "bestand moet een PDF zijn")
	}
	return nil
}
