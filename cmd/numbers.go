package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"facturatie/internal/fiscal"
	"facturatie/internal/numbering"
)

var numbersCmd = &cobra.Command{
	Use:   "numbers",
	Short: "Factuurnummers opvragen en controleren",
}

var numbersNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Volgend vrij factuurnummer tonen",
	Long: `Show the number the next invoice of a month would get. Nothing is reserved,
so running it twice shows the same number.`,
	RunE: runNumbersNext,
}

var numbersCheckCmd = &cobra.Command{
	Use:     "check <nummer>",
	Short:   "Controleren of een factuurnummer al bestaat",
	Example: `  facturatie numbers check 10`,
	Args:    cobra.ExactArgs(1),
	RunE:    runNumbersCheck,
}

var numbersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Gebruikte factuurnummers van het boekjaar tonen",
	RunE:  runNumbersList,
}

func init() {
	rootCmd.AddCommand(numbersCmd)
	numbersCmd.AddCommand(numbersNextCmd, numbersCheckCmd, numbersListCmd)

	numbersCmd.PersistentFlags().String("output", "", "Opslagmap voor facturen (overschrijft de instelling)")
	numbersNextCmd.Flags().String("month", "", "Maand [REQUIRED]")
	numbersNextCmd.MarkFlagRequired("month")
}

func numbersAllocator(cmd *cobra.Command) (*app, *numbering.Allocator, error) {
	output, _ := cmd.Flags().GetString("output")

	a, err := loadApp(true)
	if err != nil {
		return nil, nil, err
	}
	base, err := a.outputDir(output)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	alloc, err := a.allocator(base)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, alloc, nil
}

func runNumbersNext(cmd *cobra.Command, args []string) error {
	month, _ := cmd.Flags().GetString("month")
	if _, ok := fiscal.LookupMonth(month); !ok {
		return fmt.Errorf("unknown month %q", month)
	}

	a, alloc, err := numbersAllocator(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	number, err := alloc.NextNumber(month)
	if err != nil {
		return err
	}
	fmt.Println(number)
	return nil
}

func runNumbersCheck(cmd *cobra.Command, args []string) error {
	a, alloc, err := numbersAllocator(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	candidate := args[0]
	if seq, err := strconv.Atoi(candidate); err == nil {
		candidate = alloc.ManualNumber(seq)
	}

	exists, err := alloc.NumberExists(candidate)
	if err != nil {
		return err
	}
	if exists {
		fmt.Printf("%s bestaat al\n", candidate)
		return nil
	}
	fmt.Printf("%s is vrij\n", candidate)
	return nil
}

func runNumbersList(cmd *cobra.Command, args []string) error {
	a, alloc, err := numbersAllocator(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	seqs, err := alloc.AllExistingNumbers()
	if err != nil {
		return err
	}
	year := a.cal.FiscalYear()
	if len(seqs) == 0 {
		fmt.Printf("Nog geen facturen in %d\n", year)
		return nil
	}
	for _, seq := range seqs {
		fmt.Println(numbering.Format(year, seq))
	}
	return nil
}
