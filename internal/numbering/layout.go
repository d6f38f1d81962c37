package numbering

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"facturatie/internal/fiscal"
)

// MaxSequence is the highest sequence that fits the three-digit number format.
const MaxSequence = 999

var numberPattern = regexp.MustCompile(`^factuur (\d{4})_(\d{3})$`)

// Format renders an invoice number.
func Format(year, seq int) string {
	return fmt.Sprintf("factuur %d_%03d", year, seq)
}

// ParseNumber splits "factuur 2025_010" into its year and sequence.
func ParseNumber(number string) (year, seq int, err error) {
	m := numberPattern.FindStringSubmatch(strings.TrimSpace(number))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNumber, number)
	}
	year, _ = strconv.Atoi(m[1])
	seq, _ = strconv.Atoi(m[2])
	return year, seq, nil
}

// YearFolder is the parent folder holding all month folders of year.
func YearFolder(base string, year int) string {
	return filepath.Join(base, fmt.Sprintf("%d Uitgaande facturen", year))
}

// MonthFolder is the folder invoices of month (1-12) in year are written to.
func MonthFolder(base string, year, month int) string {
	name := fmt.Sprintf("%d_%02d_%s_Uitgaand", year, month, fiscal.MonthNumberToName(month))
	return filepath.Join(YearFolder(base, year), name)
}

var unsafeFileChars = strings.NewReplacer(" ", "_", "/", "-", `\`, "-", ":", "-")

// FileName is the PDF file name of invoice number for clientName.
func FileName(number, clientName string) string {
	return fmt.Sprintf("%s_%s.pdf", number, unsafeFileChars.Replace(strings.TrimSpace(clientName)))
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
