package payment

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	epcMaxName       = 70
	epcMaxRemittance = 140
)

// EPCRequest holds the fields of a SEPA credit transfer QR code.
type EPCRequest struct {
	Name       string
	IBAN       string
	Amount     decimal.Decimal
	Remittance string
}

// BuildEPCPayload renders the European Payments Council QR format, version 002,
// UTF-8, without BIC or purpose code.
func BuildEPCPayload(req EPCRequest) (string, error) {
	const op = "BuildEPCPayload"

	if !req.Amount.IsPositive() {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidAmount)
	}
	if strings.TrimSpace(req.Name) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrMissingBeneficiary)
	}
	if err := ValidateIBAN(req.IBAN); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	lines := []string{
		"BCD",
		"002",
		"1",
		"SCT",
		"",
		truncate(req.Name, epcMaxName),
		NormalizeIBAN(req.IBAN),
		"EUR" + req.Amount.StringFixed(2),
		"",
		truncate(req.Remittance, epcMaxRemittance),
		"",
	}
	return strings.Join(lines, "\n"), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
