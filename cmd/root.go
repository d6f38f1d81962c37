package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"facturatie/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "facturatie",
	Short: "Maandelijkse facturen maken uit de urenregistratie",
	Long: `facturatie reads the yearly hours workbook ("Uren {jaar}.xlsx"), totals the
hours of each client for a month and writes a two-page PDF invoice with a payment
QR code into the outgoing invoices folder.

Invoice numbers run per fiscal year ("factuur 2025_001"). During January the
previous year is still the active fiscal year, so December can be invoiced.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Debug().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
