package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"facturatie/internal/fiscal"
	"facturatie/internal/hours"
	"facturatie/internal/render"
)

var hoursCmd = &cobra.Command{
	Use:     "hours",
	Short:   "Urenverantwoording van een klant tonen",
	Example: `  facturatie hours --client "Jansen BV" --month Maart`,
	RunE:    runHours,
}

func init() {
	rootCmd.AddCommand(hoursCmd)

	hoursCmd.Flags().String("client", "", "Klantnaam [REQUIRED]")
	hoursCmd.Flags().String("month", "", "Maand [REQUIRED]")
	hoursCmd.Flags().String("workbook", "", "Pad naar de urenregistratie")

	hoursCmd.MarkFlagRequired("client")
	hoursCmd.MarkFlagRequired("month")
}

func runHours(cmd *cobra.Command, args []string) error {
	client, _ := cmd.Flags().GetString("client")
	month, _ := cmd.Flags().GetString("month")
	workbookPath, _ := cmd.Flags().GetString("workbook")

	if _, ok := fiscal.LookupMonth(month); !ok {
		return fmt.Errorf("unknown month %q", month)
	}

	a, err := loadApp(false)
	if err != nil {
		return err
	}

	summary := hours.NewAggregator(a.repository(workbookPath)).Summarize(client, month)

	fmt.Printf("Klant:   %s\n", summary.Client.Name)
	fmt.Printf("Periode: %s %d\n\n", month, a.cal.YearForMonth(month))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATUM\tWERKZAAMHEDEN\tUREN\tOPMERKINGEN")
	for _, e := range summary.Entries {
		date := ""
		if e.Date != nil {
			date = render.Date(*e.Date)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", date, e.Activity, hours.FormatHours(hours.ParseHours(e.Hours)), e.Remarks)
	}
	w.Flush()

	fmt.Printf("\nTOTAAL UREN: %s\n", hours.FormatHours(summary.TotalHours))
	fmt.Printf("Tarief:      %s\n", render.Money(summary.Client.HourlyRate))
	fmt.Printf("Bedrag:      %s (excl. BTW)\n", render.Money(summary.Amount))
	return nil
}
