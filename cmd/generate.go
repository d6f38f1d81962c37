package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"facturatie/internal/batch"
	"facturatie/internal/fiscal"
	"facturatie/internal/hours"
	"facturatie/internal/logger"
	"facturatie/internal/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Facturen maken voor een maand",
	Long: `Generate the invoices of one month.

For every client the hours are read from the client's tab in the hours workbook,
a number is assigned, a payment QR code is requested and a two-page PDF is written
to {output}/{jaar} Uitgaande facturen/{jaar}_{MM}_{Maand}_Uitgaand/.

Clients are processed one after another. A failing client does not stop the batch;
the first five failures are listed at the end.

Optional environment variables:
  MOLLIE_API_KEY   - online payment links; without it a SEPA transfer QR is used
  GOOGLE_SHEET_URL - append the generated invoices to a Google Sheet
  FACTURATIE_LEDGER - invoice ledger path, or "off"`,
	Example: `  # Invoice all clients with an amount in March
  facturatie generate --month Maart --all

  # Two clients, numbering manually from 010
  facturatie generate --month Maart --clients "Jansen BV,De Vries" --start "factuur 2025_010"

  # Without the payment gateway
  facturatie generate --month Maart --all --offline`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("month", "", "Maand, bijvoorbeeld Maart [REQUIRED]")
	generateCmd.Flags().StringSlice("clients", nil, "Klanten, komma gescheiden")
	generateCmd.Flags().Bool("all", false, "Alle klanten met een bedrag in de maand (Realisatie-blad)")
	generateCmd.Flags().String("start", "", `Handmatig startnummer, bijvoorbeeld "factuur 2025_010"`)
	generateCmd.Flags().String("output", "", "Opslagmap voor facturen (overschrijft de instelling)")
	generateCmd.Flags().String("workbook", "", "Pad naar de urenregistratie")
	generateCmd.Flags().Bool("offline", false, "Geen online betaallink, alleen overschrijvings-QR")
	generateCmd.Flags().Bool("force", false, "Bestaande handmatige nummers toch gebruiken")

	generateCmd.MarkFlagRequired("month")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("generate")

	month, _ := cmd.Flags().GetString("month")
	clients, _ := cmd.Flags().GetStringSlice("clients")
	all, _ := cmd.Flags().GetBool("all")
	start, _ := cmd.Flags().GetString("start")
	output, _ := cmd.Flags().GetString("output")
	workbookPath, _ := cmd.Flags().GetString("workbook")
	offline, _ := cmd.Flags().GetBool("offline")
	force, _ := cmd.Flags().GetBool("force")

	if _, ok := fiscal.LookupMonth(month); !ok {
		return fmt.Errorf("unknown month %q (use one of %s)", month, strings.Join(fiscal.MonthNames(), ", "))
	}

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	repo := a.repository(workbookPath)
	if all {
		monthClients, err := repo.ClientsForMonth(month)
		if err != nil {
			return err
		}
		for _, c := range monthClients {
			clients = append(clients, c.Name)
		}
	}
	clients = cleanNames(clients)
	if len(clients) == 0 {
		return fmt.Errorf("%w: use --clients or --all", batch.ErrNoClients)
	}

	base, err := a.outputDir(output)
	if err != nil {
		return err
	}
	alloc, err := a.allocator(base)
	if err != nil {
		return err
	}
	provider, err := a.provider(offline)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exporter, err := a.exporter(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Invoice register disabled")
		exporter = nil
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Facturen"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	opts := batch.Options{
		Hours:    hours.NewAggregator(repo),
		Numbers:  alloc,
		Payments: provider,
		Renderer: render.NewRenderer(),
		Company:  a.cfg.Company.Render(),
		VATRate:  a.cfg.Company.VAT(),
		Calendar: a.cal,
		Exporter: exporter,
		Progress: func(percent float64, text string) {
			bar.Describe(text)
			_ = bar.Set(int(percent))
		},
	}
	if a.ledger != nil {
		opts.Recorder = ledgerRecorder{store: a.ledger}
	}

	gen, err := batch.NewGenerator(opts)
	if err != nil {
		return err
	}

	log.Info().
		Str("month", month).
		Int("clients", len(clients)).
		Str("output", base).
		Bool("online", provider.Online()).
		Msg("Generating invoices")

	report := gen.Run(ctx, batch.Request{
		Month:       month,
		Clients:     clients,
		StartNumber: start,
		Force:       force,
	})
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	fmt.Println(report.Summary())
	if len(report.Invoices) > 0 {
		fmt.Printf("\nFacturen zijn opgeslagen in:\n%s\n", alloc.Folder(month))
	}
	if report.ExportErr != nil {
		fmt.Printf("\nRegister niet bijgewerkt: %v\n", report.ExportErr)
	}

	if len(report.Invoices) == 0 && !report.OK() {
		return fmt.Errorf("no invoices generated")
	}
	return nil
}

func cleanNames(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
