package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Actief boekjaar tonen",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(false)
		if err != nil {
			return err
		}
		cal := a.cal

		fmt.Printf("Boekjaar:     %d\n", cal.FiscalYear())
		fmt.Printf("Urenbestand:  %s\n", a.cfg.WorkbookPath(cal))
		fmt.Printf("Realisatie:   %s\n", cal.RealisatieSheetName())
		if cal.IsTransitionPeriod() {
			fmt.Printf("Overgangsperiode: facturen voor December worden in %d geboekt\n", cal.FiscalYear())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(periodCmd)
}
