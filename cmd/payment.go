package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"facturatie/internal/logger"
	"facturatie/internal/payment"
	"facturatie/internal/render"
)

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Online betalingen opvragen (Mollie)",
	Long: `Query the Mollie payment gateway.

Required environment variables:
  MOLLIE_API_KEY - Mollie API key (test_... or live_...)`,
}

var paymentStatusCmd = &cobra.Command{
	Use:     "status <payment-id>",
	Short:   "Status van een betaling tonen",
	Example: `  facturatie payment status tr_WDqYK6vllg`,
	Args:    cobra.ExactArgs(1),
	RunE:    runPaymentStatus,
}

var paymentMethodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "Verbinding testen en actieve betaalmethoden tonen",
	RunE:  runPaymentMethods,
}

var paymentSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Betaalstatus van openstaande facturen bijwerken",
	Long: `Refresh the status of every invoice in the ledger that has an online payment
which is not yet paid.`,
	RunE: runPaymentSync,
}

func init() {
	rootCmd.AddCommand(paymentCmd)
	paymentCmd.AddCommand(paymentStatusCmd, paymentMethodsCmd, paymentSyncCmd)
}

func runPaymentStatus(cmd *cobra.Command, args []string) error {
	a, err := loadApp(false)
	if err != nil {
		return err
	}
	client, err := a.mollie()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.PaymentTimeout)
	defer cancel()

	p, err := client.GetPayment(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Payment ID:   %s\n", p.ID)
	fmt.Printf("Omschrijving: %s\n", p.Description)
	fmt.Printf("Bedrag:       %s\n", render.Money(p.Amount))
	fmt.Printf("Status:       %s\n", p.Status)
	if p.PaidAt != nil {
		fmt.Printf("Betaald op:   %s\n", p.PaidAt.Local().Format("02-01-2006 15:04"))
	}
	return nil
}

func runPaymentMethods(cmd *cobra.Command, args []string) error {
	a, err := loadApp(false)
	if err != nil {
		return err
	}
	client, err := a.mollie()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.PaymentTimeout)
	defer cancel()

	methods, err := client.ListMethods(ctx)
	if err != nil {
		if errors.Is(err, payment.ErrUnauthorized) {
			return fmt.Errorf("connection failed, check MOLLIE_API_KEY: %w", err)
		}
		return err
	}

	mode := "live"
	if client.TestMode() {
		mode = "test"
	}
	fmt.Printf("Verbinding OK (%s)\n", mode)
	fmt.Printf("Betaalmethoden: %s\n", strings.Join(methods, ", "))
	return nil
}

func runPaymentSync(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("payment-sync")

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.ledger == nil {
		return fmt.Errorf("the invoice ledger is disabled")
	}

	client, err := a.mollie()
	if err != nil {
		return err
	}

	pending, err := a.ledger.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("Geen openstaande online betalingen")
		return nil
	}

	var paid, failed int
	for _, rec := range pending {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.PaymentTimeout)
		p, err := client.GetPayment(ctx, rec.PaymentID)
		cancel()
		if err != nil {
			failed++
			log.Warn().Err(err).Str("invoice", rec.Number).Msg("Failed to fetch payment")
			continue
		}
		if p.Status == rec.Status {
			continue
		}
		if err := a.ledger.UpdateStatus(rec.Number, p.Status, p.PaidAt); err != nil {
			return err
		}
		if p.IsPaid() {
			paid++
		}
		fmt.Printf("%s\t%s\t%s -> %s\n", rec.Number, rec.Client, orDash(rec.Status), p.Status)
	}

	fmt.Printf("\n%d van %d betalingen voldaan", paid, len(pending))
	if failed > 0 {
		fmt.Printf(", %d niet opgehaald", failed)
	}
	fmt.Printf(" (%s)\n", time.Now().Format("02-01-2006 15:04"))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
