package payment

import (
	"fmt"
	"strings"
)

// NormalizeIBAN strips spaces and upper-cases an IBAN.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.Join(strings.Fields(iban), ""))
}

// ValidateIBAN checks the shape of an IBAN: 15 to 34 characters, a two-letter
// country code, two check digits and an alphanumeric remainder. The checksum is
// not verified.
func ValidateIBAN(iban string) error {
	s := NormalizeIBAN(iban)
	if len(s) < 15 || len(s) > 34 {
		return fmt.Errorf("%w: length %d", ErrInvalidIBAN, len(s))
	}
	for i, r := range s {
		var ok bool
		switch {
		case i < 2:
			ok = r >= 'A' && r <= 'Z'
		case i < 4:
			ok = r >= '0' && r <= '9'
		default:
			ok = (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		}
		if !ok {
			return fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidIBAN, r, i+1)
		}
	}
	return nil
}

// FormatIBAN groups an IBAN in blocks of four for printing.
func FormatIBAN(iban string) string {
	s := NormalizeIBAN(iban)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
