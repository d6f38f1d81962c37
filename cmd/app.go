package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"facturatie/internal/batch"
	"facturatie/internal/config"
	"facturatie/internal/fiscal"
	"facturatie/internal/ledger"
	"facturatie/internal/numbering"
	"facturatie/internal/payment"
	"facturatie/internal/register"
	"facturatie/internal/settings"
	"facturatie/internal/workbook"
)

// app holds what the subcommands share.
type app struct {
	cfg    *config.Config
	cal    fiscal.Calendar
	prefs  *settings.Store
	ledger *ledger.Store
}

// loadApp reads the configuration and preferences. The ledger is opened only when
// withLedger is set, so read-only commands do not take its file lock.
func loadApp(withLedger bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	prefs, err := settings.Load(cfg.PreferencesPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, cal: fiscal.New(), prefs: prefs}
	if withLedger && cfg.LedgerEnabled() {
		if err := os.MkdirAll(filepath.Dir(cfg.LedgerPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger folder: %w", err)
		}
		store, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return nil, err
		}
		a.ledger = store
	}
	return a, nil
}

func (a *app) Close() {
	if a.ledger != nil {
		_ = a.ledger.Close()
	}
}

func (a *app) repository(workbookFlag string) *workbook.Repository {
	path := workbookFlag
	if path == "" {
		path = a.cfg.WorkbookPath(a.cal)
	}
	return workbook.NewRepository(path, workbook.Options{Calendar: a.cal})
}

// outputDir picks the invoice base folder: the flag, then the stored preference,
// then the environment. The folder must exist.
func (a *app) outputDir(flag string) (string, error) {
	dir := flag
	if dir == "" {
		dir = a.prefs.Get(settings.OutputPathKey)
	}
	if dir == "" {
		dir = a.cfg.OutputDir
	}
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("%w: use --output or 'facturatie settings set output <map>'", numbering.ErrNoBasePath)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("output folder %s does not exist", dir)
	}
	return dir, nil
}

func (a *app) allocator(base string) (*numbering.Allocator, error) {
	if a.ledger != nil {
		return numbering.NewAllocator(base, a.cal, a.ledger)
	}
	return numbering.NewAllocator(base, a.cal)
}

func (a *app) mollie() (*payment.MollieClient, error) {
	return payment.NewMollieClient(a.cfg.MollieConfig())
}

// provider returns the payment QR provider, online when a gateway key is set and
// offline is not requested.
func (a *app) provider(offline bool) (*payment.Provider, error) {
	var gateway payment.Gateway
	if !offline && a.cfg.MollieAPIKey != "" {
		client, err := a.mollie()
		if err != nil {
			return nil, err
		}
		gateway = client
	}
	return payment.NewProvider(gateway, a.cfg.Company.Beneficiary())
}

func (a *app) exporter(ctx context.Context) (batch.Exporter, error) {
	if a.cfg.GoogleSheetURL == "" {
		return nil, nil
	}
	svc, err := register.NewService(ctx, a.cfg.GoogleSheetURL, a.cfg.GoogleSheetWorksheet)
	if err != nil {
		return nil, err
	}
	return registerExporter{svc: svc}, nil
}

// ledgerRecorder stores written invoices in the ledger. A forced rewrite replaces
// the earlier record.
type ledgerRecorder struct {
	store *ledger.Store
}

func (r ledgerRecorder) Record(_ context.Context, inv batch.Invoice) error {
	return r.store.Replace(ledgerRecord(inv))
}

// ledgerRecord maps a written invoice to its ledger record. Only online payments
// start out as "open"; their status is refreshed by 'payment sync'.
func ledgerRecord(inv batch.Invoice) *ledger.Record {
	status := ""
	if inv.Payment.Kind == payment.Online {
		status = "open"
	}
	return &ledger.Record{
		Number:      inv.Number,
		Client:      inv.Client,
		Month:       inv.Month,
		Hours:       inv.Hours,
		Rate:        inv.Rate,
		Net:         inv.Net,
		VAT:         inv.VAT,
		Gross:       inv.Gross,
		Path:        inv.Path,
		PaymentKind: inv.Payment.Kind.String(),
		PaymentID:   inv.Payment.PaymentID,
		CheckoutURL: inv.Payment.CheckoutURL,
		Status:      status,
	}
}

// registerExporter appends a batch to the Google Sheets register.
type registerExporter struct {
	svc *register.Service
}

func (e registerExporter) Export(ctx context.Context, invoices []batch.Invoice) error {
	return e.svc.Append(ctx, registerEntries(invoices))
}

func registerEntries(invoices []batch.Invoice) []register.Entry {
	entries := make([]register.Entry, 0, len(invoices))
	for _, inv := range invoices {
		entries = append(entries, register.Entry{
			Number:      inv.Number,
			Date:        inv.Date,
			Client:      inv.Client,
			Month:       inv.Month,
			Hours:       inv.Hours,
			Rate:        inv.Rate,
			Net:         inv.Net,
			VAT:         inv.VAT,
			Gross:       inv.Gross,
			PaymentKind: inv.Payment.Kind.String(),
			PaymentID:   inv.Payment.PaymentID,
			File:        filepath.Base(inv.Path),
		})
	}
	return entries
}
