package render

import (
	"time"

	"github.com/shopspring/decimal"

	"facturatie/internal/payment"
	"facturatie/internal/workbook"
)

// Company is the issuing business printed in the header and payment terms.
type Company struct {
	Name            string // account holder, used in "T.n.v."
	DisplayName     string // header line
	Street          string
	PostalCity      string
	Website         string
	Email           string
	KvK             string
	BTW             string
	IBAN            string
	PaymentTermDays int
}

// Document is everything needed to render one invoice.
type Document struct {
	Company    Company
	Client     workbook.ClientRecord
	Number     string
	Month      string
	Year       int
	Date       time.Time
	Entries    []workbook.TimeEntry
	TotalHours float64
	Rate       decimal.Decimal
	VATRate    decimal.Decimal
	Net        decimal.Decimal
	VAT        decimal.Decimal
	Gross      decimal.Decimal
	Payment    payment.Result
}

// DueDate is the invoice date plus the payment term.
func (d Document) DueDate() time.Time {
	return d.Date.AddDate(0, 0, d.Company.PaymentTermDays)
}

// Amounts computes net, VAT and gross for hours billed at rate. Net and VAT are
// rounded to cents.
func Amounts(hours float64, rate, vatRate decimal.Decimal) (net, vat, gross decimal.Decimal) {
	net = decimal.NewFromFloat(hours).Mul(rate).Round(2)
	vat = net.Mul(vatRate).Round(2)
	return net, vat, net.Add(vat)
}
