package payment_test

import (
	"fmt"

	"github.com/shopspring/decimal"

	"facturatie/internal/payment"
)

func ExampleBuildEPCPayload() {
	payload, err := payment.BuildEPCPayload(payment.EPCRequest{
		Name:       "Quattro Bouw & Vastgoed Advies BV",
		IBAN:       "NL30 RABO 0347 6704 07",
		Amount:     decimal.RequireFromString("99.9"),
		Remittance: "Factuur factuur 2025_001",
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%q\n", payload)
	// Output: "BCD\n002\n1\nSCT\n\nQuattro Bouw & Vastgoed Advies BV\nNL30RABO0347670407\nEUR99.90\n\nFactuur factuur 2025_001\n"
}
