// Package batch generates the invoices of one month for a list of clients.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"facturatie/internal/fiscal"
	"facturatie/internal/hours"
	"facturatie/internal/logger"
	"facturatie/internal/numbering"
	"facturatie/internal/payment"
	"facturatie/internal/render"
)

// Summarizer yields the billing basis of a client. *hours.Aggregator implements it.
type Summarizer interface {
	Summarize(clientName, monthName string) hours.Summary
}

// Numberer assigns invoice numbers and file paths. *numbering.Allocator implements it.
type Numberer interface {
	Reserve(monthName string) (string, error)
	Release(number string) bool
	ManualNumber(seq int) string
	NumberExists(candidate string) (bool, error)
	InvoicePath(monthName, number, clientName string) (string, error)
}

// QRProvider yields the payment QR of an invoice. *payment.Provider implements it.
type QRProvider interface {
	Obtain(ctx context.Context, req payment.QRRequest) payment.Result
}

// Renderer writes an invoice document. *render.Renderer implements it.
type Renderer interface {
	Render(ctx context.Context, doc render.Document, path string) error
}

// Recorder is told about every invoice written.
type Recorder interface {
	Record(ctx context.Context, inv Invoice) error
}

// Exporter receives the invoices of a batch once it is done.
type Exporter interface {
	Export(ctx context.Context, invoices []Invoice) error
}

// ProgressFunc reports progress as a percentage and a status line.
type ProgressFunc func(percent float64, text string)

// Options wires a Generator. Hours, Numbers, Payments and Renderer are required.
type Options struct {
	Hours    Summarizer
	Numbers  Numberer
	Payments QRProvider
	Renderer Renderer
	Company  render.Company
	VATRate  decimal.Decimal
	Calendar fiscal.Calendar
	Recorder Recorder
	Exporter Exporter
	Progress ProgressFunc
}

// Request selects what a batch generates.
type Request struct {
	Month   string
	Clients []string

	// StartNumber, in the form "factuur 2025_010", switches to manual numbering:
	// the i-th client gets the start sequence plus i.
	StartNumber string

	// Force allows manual numbers that already exist.
	Force bool
}

// Invoice is a written invoice.
type Invoice struct {
	Client  string
	Number  string
	Month   string
	Year    int
	Date    time.Time
	Path    string
	Hours   float64
	Rate    decimal.Decimal
	Net     decimal.Decimal
	VAT     decimal.Decimal
	Gross   decimal.Decimal
	Payment payment.Result
}

// Generator runs invoice batches. It processes one client at a time.
type Generator struct {
	opts Options
	log  zerolog.Logger
}

// NewGenerator checks opts and returns a Generator.
func NewGenerator(opts Options) (*Generator, error) {
	const op = "NewGenerator"

	switch {
	case opts.Hours == nil:
		return nil, fmt.Errorf("%s: hours source is required", op)
	case opts.Numbers == nil:
		return nil, fmt.Errorf("%s: number allocator is required", op)
	case opts.Payments == nil:
		return nil, fmt.Errorf("%s: payment provider is required", op)
	case opts.Renderer == nil:
		return nil, fmt.Errorf("%s: renderer is required", op)
	}
	if opts.Calendar.Now == nil {
		opts.Calendar = fiscal.New()
	}
	if opts.Company.PaymentTermDays <= 0 {
		opts.Company.PaymentTermDays = 14
	}

	return &Generator{opts: opts, log: logger.WithComponent("batch")}, nil
}

// Run generates an invoice for every client of req. A failing client is recorded
// in the report and the batch continues with the next one.
func (g *Generator) Run(ctx context.Context, req Request) *Report {
	report := &Report{Requested: len(req.Clients)}
	log := g.log.With().Str("month", req.Month).Int("clients", len(req.Clients)).Logger()

	if len(req.Clients) == 0 {
		report.fail(newInvoiceError("Run", "", ComputingHours, ErrNoClients))
		return report
	}

	manual, start := parseStart(req.StartNumber)
	if req.StartNumber != "" && !manual {
		log.Warn().Str("start", req.StartNumber).Msg("Start number not recognised, using automatic numbering")
	}

	log.Info().Bool("manual_numbering", manual).Msg("Starting invoice batch")
	g.progress(0, fmt.Sprintf("Voorbereiden van %d facturen...", len(req.Clients)))

	for i, client := range req.Clients {
		if err := ctx.Err(); err != nil {
			for _, rest := range req.Clients[i:] {
				report.fail(newInvoiceError("Run", rest, ComputingHours, err))
			}
			break
		}

		number := ""
		if manual {
			number = g.opts.Numbers.ManualNumber(start + i)
		}

		inv, err := g.generate(ctx, req, client, number)
		if err != nil {
			var ie *InvoiceError
			if !errors.As(err, &ie) {
				ie = newInvoiceError("Generate", client, ComputingHours, err)
			}
			log.Error().Err(ie.Err).Str("client", client).Str("stage", ie.Stage.String()).Msg("Invoice failed")
			report.fail(ie)
		} else {
			report.Invoices = append(report.Invoices, *inv)
			g.record(ctx, inv)
		}

		g.progress(float64(i+1)*100/float64(len(req.Clients)),
			fmt.Sprintf("Factuur %d van %d: %s", i+1, len(req.Clients), client))
	}

	if g.opts.Exporter != nil && len(report.Invoices) > 0 {
		if err := g.opts.Exporter.Export(ctx, report.Invoices); err != nil {
			log.Warn().Err(err).Msg("Export of invoice register failed")
			report.ExportErr = err
		}
	}

	log.Info().
		Int("generated", len(report.Invoices)).
		Int("failed", len(report.Failures)).
		Msg("Invoice batch finished")
	return report
}

// generate runs one client through all stages.
func (g *Generator) generate(ctx context.Context, req Request, client, number string) (inv *Invoice, err error) {
	cal := g.opts.Calendar
	log := logger.WithClient("batch", client)

	// ComputingHours
	if err := validateClient(client); err != nil {
		return nil, newInvoiceError("Validate", client, ComputingHours, err)
	}
	if err := validateMonth(req.Month); err != nil {
		return nil, newInvoiceError("Validate", client, ComputingHours, err)
	}
	summary := g.opts.Hours.Summarize(client, req.Month)
	net, vat, gross := render.Amounts(summary.TotalHours, summary.Client.HourlyRate, g.opts.VATRate)
	if err := validateAmount(net); err != nil {
		return nil, newInvoiceError("Validate", client, ComputingHours, err)
	}
	log.Debug().Float64("hours", summary.TotalHours).Str("net", net.StringFixed(2)).Msg("Hours computed")

	// AllocatingNumber
	if number == "" {
		n, rerr := g.opts.Numbers.Reserve(req.Month)
		if rerr != nil {
			return nil, newInvoiceError("Reserve", client, AllocatingNumber, rerr)
		}
		number = n
		defer func() {
			if err != nil && g.opts.Numbers.Release(n) {
				log.Debug().Str("invoice", n).Msg("Invoice number released")
			}
		}()
	} else if !req.Force {
		exists, err := g.opts.Numbers.NumberExists(number)
		if err != nil {
			return nil, newInvoiceError("NumberExists", client, AllocatingNumber, err)
		}
		if exists {
			return nil, newInvoiceError("NumberExists", client, AllocatingNumber, fmt.Errorf("%w: %s", ErrNumberInUse, number))
		}
	}
	if err := validateNumber(number); err != nil {
		return nil, newInvoiceError("Validate", client, AllocatingNumber, err)
	}
	path, err := g.opts.Numbers.InvoicePath(req.Month, number, client)
	if err != nil {
		return nil, newInvoiceError("InvoicePath", client, AllocatingNumber, err)
	}
	if err := validatePath(path); err != nil {
		return nil, newInvoiceError("Validate", client, AllocatingNumber, err)
	}

	// RequestingPayment
	qr := g.opts.Payments.Obtain(ctx, payment.QRRequest{
		Amount:        gross,
		InvoiceNumber: number,
		ClientName:    client,
	})
	if qr.Kind == payment.Unavailable {
		log.Warn().Err(qr.Err).Str("invoice", number).Msg("No payment QR, rendering without it")
	}

	// Rendering
	doc := render.Document{
		Company:    g.opts.Company,
		Client:     summary.Client,
		Number:     number,
		Month:      canonicalMonth(req.Month),
		Year:       cal.YearForMonth(req.Month),
		Date:       cal.FirstOfMonth(req.Month),
		Entries:    summary.Entries,
		TotalHours: summary.TotalHours,
		Rate:       summary.Client.HourlyRate,
		VATRate:    g.opts.VATRate,
		Net:        net,
		VAT:        vat,
		Gross:      gross,
		Payment:    qr,
	}
	if err := g.opts.Renderer.Render(ctx, doc, path); err != nil {
		return nil, newInvoiceError("Render", client, Rendering, err)
	}

	// Written
	log.Info().Str("invoice", number).Str("path", path).Str("payment", qr.Kind.String()).Msg("Invoice generated")
	return &Invoice{
		Client:  client,
		Number:  number,
		Month:   doc.Month,
		Year:    doc.Year,
		Date:    doc.Date,
		Path:    path,
		Hours:   summary.TotalHours,
		Rate:    doc.Rate,
		Net:     net,
		VAT:     vat,
		Gross:   gross,
		Payment: qr,
	}, nil
}

func (g *Generator) record(ctx context.Context, inv *Invoice) {
	if g.opts.Recorder == nil {
		return
	}
	if err := g.opts.Recorder.Record(ctx, *inv); err != nil {
		g.log.Warn().Err(err).Str("invoice", inv.Number).Msg("Failed to record invoice in ledger")
	}
}

func (g *Generator) progress(percent float64, text string) {
	if g.opts.Progress != nil {
		g.opts.Progress(percent, text)
	}
}

// parseStart reads the sequence of a manual start number.
func parseStart(start string) (bool, int) {
	if strings.TrimSpace(start) == "" {
		return false, 0
	}
	_, seq, err := numbering.ParseNumber(start)
	if err != nil {
		return false, 0
	}
	return true, seq
}

func canonicalMonth(month string) string {
	if n, ok := fiscal.LookupMonth(month); ok {
		return fiscal.MonthNumberToName(n)
	}
	return month
}
