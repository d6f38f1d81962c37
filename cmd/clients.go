package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"facturatie/internal/fiscal"
	"facturatie/internal/logger"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Klanten uit het Realisatie-blad tonen",
	Long: `List the clients of the "Realisatie {jaar}" sheet of the hours workbook.

With --month only the clients with an amount above zero in that month are shown.`,
	Example: `  facturatie clients
  facturatie clients --month Maart`,
	RunE: runClients,
}

func init() {
	rootCmd.AddCommand(clientsCmd)

	clientsCmd.Flags().String("month", "", "Alleen klanten met een bedrag in deze maand")
	clientsCmd.Flags().String("workbook", "", "Pad naar de urenregistratie")
}

func runClients(cmd *cobra.Command, args []string) error {
	month, _ := cmd.Flags().GetString("month")
	workbookPath, _ := cmd.Flags().GetString("workbook")

	a, err := loadApp(false)
	if err != nil {
		return err
	}
	repo := a.repository(workbookPath)
	log := logger.WithComponent("clients")
	log.Debug().Str("workbook", repo.Path()).Msg("Reading Realisatie sheet")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if month != "" {
		if _, ok := fiscal.LookupMonth(month); !ok {
			return fmt.Errorf("unknown month %q", month)
		}
		clients, err := repo.ClientsForMonth(month)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "KLANT\tBEDRAG %s\n", month)
		for _, c := range clients {
			fmt.Fprintf(w, "%s\t%.2f\n", c.Name, c.Amount)
		}
		return nil
	}

	clients, err := repo.ListClients()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "KLANT\tMAANDEN")
	for _, c := range clients {
		months := 0
		for _, amount := range c.Amounts {
			if amount > 0 {
				months++
			}
		}
		fmt.Fprintf(w, "%s\t%d\n", c.Name, months)
	}
	return nil
}
