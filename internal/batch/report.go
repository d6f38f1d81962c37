package batch

import (
	"fmt"
	"strings"
)

// maxListedFailures bounds the failures listed in Summary.
const maxListedFailures = 5

// Report is the outcome of a batch.
type Report struct {
	Requested int
	Invoices  []Invoice
	Failures  []*InvoiceError

	// ExportErr is set when the register export failed. The invoices were still written.
	ExportErr error
}

func (r *Report) fail(err *InvoiceError) {
	r.Failures = append(r.Failures, err)
}

// OK reports whether every requested invoice was written.
func (r *Report) OK() bool { return len(r.Failures) == 0 }

// Summary is the message shown when a batch finishes.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Facturen gegenereerd: %d", len(r.Invoices))
	if len(r.Failures) == 0 {
		return b.String()
	}

	fmt.Fprintf(&b, "\nFouten: %d\n", len(r.Failures))
	listed := r.Failures
	if len(listed) > maxListedFailures {
		listed = listed[:maxListedFailures]
	}
	lines := make([]string, len(listed))
	for i, f := range listed {
		lines[i] = f.Message()
	}
	b.WriteString(strings.Join(lines, "\n"))
	if n := len(r.Failures) - maxListedFailures; n > 0 {
		fmt.Fprintf(&b, "\n... en %d meer", n)
	}
	return b.String()
}
