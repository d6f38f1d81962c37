package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"facturatie/internal/hours"
	"facturatie/internal/logger"
	"facturatie/internal/payment"
	"facturatie/internal/workbook"
)

const (
	fontFamily = "Helvetica"
	pageWidth  = 210.0
	margin     = 18.0
	contentW   = pageWidth - 2*margin
	qrSize     = 35.0
)

// standard remark that is left out of the hours table
const defaultRemark = "Conform opdracht"

type rgb struct{ r, g, b int }

var (
	accent    = rgb{0, 84, 159}
	darkGray  = rgb{64, 64, 64}
	lightGray = rgb{200, 200, 200}
	headerBG  = rgb{235, 241, 248}
)

// Renderer writes invoices as two-page A4 PDF files.
type Renderer struct {
	log zerolog.Logger
}

// NewRenderer returns a renderer.
func NewRenderer() *Renderer {
	return &Renderer{log: logger.WithComponent("render")}
}

// Render writes doc to path. The folder containing path must exist.
func (r *Renderer) Render(ctx context.Context, doc Document, path string) error {
	const op = "Render"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(doc.Number) == "" || strings.TrimSpace(doc.Client.Name) == "" {
		return fmt.Errorf("%s: %w", op, ErrIncompleteDocument)
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w: %s", op, ErrOutputDir, dir)
	}

	w := newWriter()
	w.invoicePage(doc)
	w.hoursPage(doc)
	if w.qrFailed {
		r.log.Warn().Str("invoice", doc.Number).Msg("QR image could not be embedded")
	}

	if err := w.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("%s: failed to write PDF: %w", op, err)
	}

	r.log.Info().
		Str("invoice", doc.Number).
		Str("client", doc.Client.Name).
		Str("path", path).
		Msg("Invoice written")
	return nil
}

type writer struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	qrFailed bool
}

func newWriter() *writer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	return &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (w *writer) font(style string, size float64, c rgb) {
	w.pdf.SetFont(fontFamily, style, size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *writer) line(width, height float64, text, align string) {
	w.pdf.CellFormat(width, height, w.tr(text), "", 1, align, false, 0, "")
}

func (w *writer) rule(thickness float64) {
	y := w.pdf.GetY()
	w.pdf.SetDrawColor(lightGray.r, lightGray.g, lightGray.b)
	w.pdf.SetLineWidth(thickness)
	w.pdf.Line(margin, y, pageWidth-margin, y)
	w.pdf.Ln(3)
}

func (w *writer) invoicePage(doc Document) {
	pdf := w.pdf
	pdf.AddPage()
	c := doc.Company

	// company block, right aligned
	w.font("B", 14, accent)
	w.line(contentW, 7, c.DisplayName, "R")
	w.font("", 9, darkGray)
	for _, s := range []string{c.Street, c.PostalCity, c.Website, c.Email, "KvK: " + c.KvK, "BTW: " + c.BTW} {
		w.line(contentW, 4.5, s, "R")
	}
	pdf.Ln(6)

	cl := doc.Client
	w.font("B", 9, darkGray)
	w.line(contentW, 5, "FACTUURADRES", "L")
	w.font("B", 10, rgb{})
	w.line(contentW, 5, cl.Name, "L")
	w.font("", 10, rgb{})
	for _, s := range []string{cl.Attention, cl.Street, strings.TrimSpace(cl.PostalCode + " " + cl.City)} {
		if s != "" {
			w.line(contentW, 5, s, "L")
		}
	}
	pdf.Ln(8)

	w.font("B", 22, accent)
	w.line(contentW, 10, "FACTUUR", "L")
	w.rule(0.6)

	labels := []string{"FACTUURDATUM", "FACTUURNUMMER", "VERVALDATUM"}
	values := []string{Date(doc.Date), doc.Number, Date(doc.DueDate())}
	col := contentW / 3
	w.font("B", 8, darkGray)
	for _, l := range labels {
		pdf.CellFormat(col, 5, w.tr(l), "", 0, "L", false, 0, "")
	}
	pdf.Ln(5)
	w.font("", 10, rgb{})
	for _, v := range values {
		pdf.CellFormat(col, 6, w.tr(v), "", 0, "L", false, 0, "")
	}
	pdf.Ln(12)

	widths := []float64{contentW * 0.5, contentW * 0.15, contentW * 0.175, contentW * 0.175}
	w.tableHeader(widths, []string{"OMSCHRIJVING", "AANTAL", "TARIEF", "BEDRAG"}, []string{"L", "C", "R", "R"})
	w.font("", 10, rgb{})
	row := []string{
		fmt.Sprintf("Advieswerkzaamheden %s %d", doc.Month, doc.Year),
		hours.FormatHours(doc.TotalHours),
		Money(doc.Rate),
		Money(doc.Net),
	}
	for i, cell := range row {
		pdf.CellFormat(widths[i], 8, w.tr(cell), "B", 0, []string{"L", "C", "R", "R"}[i], false, 0, "")
	}
	pdf.Ln(12)

	totalsX := margin + contentW*0.55
	totalsW := contentW * 0.45
	w.font("", 10, rgb{})
	for _, t := range [][2]string{
		{"Subtotaal", Money(doc.Net)},
		{"BTW " + Percent(doc.VATRate), Money(doc.VAT)},
	} {
		pdf.SetX(totalsX)
		pdf.CellFormat(totalsW/2, 6, w.tr(t[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(totalsW/2, 6, w.tr(t[1]), "", 1, "R", false, 0, "")
	}
	pdf.SetX(totalsX)
	pdf.SetFillColor(accent.r, accent.g, accent.b)
	w.font("B", 12, rgb{255, 255, 255})
	pdf.CellFormat(totalsW/2, 9, w.tr("TOTAAL"), "", 0, "L", true, 0, "")
	pdf.CellFormat(totalsW/2, 9, w.tr(Money(doc.Gross)), "", 1, "R", true, 0, "")
	pdf.Ln(10)

	w.paymentTerms(doc)
}

func (w *writer) paymentTerms(doc Document) {
	pdf := w.pdf
	c := doc.Company

	w.font("B", 12, darkGray)
	w.line(contentW, 7, "BETALINGSVOORWAARDEN", "L")
	w.rule(0.3)

	top := pdf.GetY()
	infoW := contentW * 0.65
	w.font("", 10, rgb{})
	w.line(infoW, 5, fmt.Sprintf("Gelieve het totaalbedrag binnen %d dagen over te maken:", c.PaymentTermDays), "L")
	w.font("B", 10, rgb{})
	w.line(infoW, 5, "IBAN: "+payment.FormatIBAN(c.IBAN), "L")
	w.font("", 10, rgb{})
	w.line(infoW, 5, "T.n.v. "+c.Name, "L")
	w.line(infoW, 5, "O.v.v. Factuurnummer "+doc.Number, "L")
	w.font("", 9, darkGray)
	w.line(infoW, 5, "Of scan de QR-code om direct te betalen", "L")
	if doc.Payment.PaymentID != "" {
		w.line(infoW, 5, "Payment ID: "+doc.Payment.PaymentID, "L")
	}

	qrX := margin + infoW + (contentW-infoW-qrSize)/2
	pdf.SetXY(margin+infoW, top)
	if w.embedQR(doc.Payment.QR, qrX, top) {
		pdf.SetXY(margin+infoW, top+qrSize+1)
		w.font("", 8, darkGray)
		pdf.CellFormat(contentW-infoW, 4, w.tr("Scan om te betalen"), "", 1, "C", false, 0, "")
		return
	}
	w.font("", 9, darkGray)
	pdf.CellFormat(contentW-infoW, qrSize/2, w.tr("QR-code niet beschikbaar"), "", 1, "C", false, 0, "")
}

// embedQR places a PNG at (x, y). It reports false when there is no image or it
// could not be decoded.
func (w *writer) embedQR(png []byte, x, y float64) bool {
	if len(png) == 0 {
		return false
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	w.pdf.RegisterImageOptionsReader("payment-qr", opts, bytes.NewReader(png))
	if !w.pdf.Ok() {
		w.pdf.ClearError()
		w.qrFailed = true
		return false
	}
	w.pdf.ImageOptions("payment-qr", x, y, qrSize, qrSize, false, opts, 0, "")
	return true
}

func (w *writer) hoursPage(doc Document) {
	pdf := w.pdf
	pdf.AddPage()

	w.rule(0.8)
	w.font("B", 18, accent)
	w.line(contentW, 9, "URENVERANTWOORDING", "L")
	w.font("", 10, rgb{})
	w.line(contentW, 5, fmt.Sprintf("Periode: %s %d", doc.Month, doc.Year), "L")
	w.line(contentW, 5, "Klant: "+doc.Client.Name, "L")
	pdf.Ln(6)

	widths := []float64{contentW * 0.16, contentW * 0.46, contentW * 0.1, contentW * 0.28}
	aligns := []string{"L", "L", "C", "L"}
	w.tableHeader(widths, []string{"DATUM", "WERKZAAMHEDEN", "UREN", "OPMERKINGEN"}, aligns)

	w.font("", 9, rgb{})
	for _, e := range doc.Entries {
		w.entryRow(widths, aligns, e)
	}

	total := "1,0"
	if doc.TotalHours > 0 {
		total = hours.FormatHours(doc.TotalHours)
	}
	pdf.Ln(2)
	w.font("B", 10, rgb{})
	pdf.CellFormat(widths[0]+widths[1], 7, w.tr("TOTAAL UREN"), "T", 0, "L", false, 0, "")
	pdf.CellFormat(widths[2], 7, w.tr(total), "T", 0, "C", false, 0, "")
	pdf.CellFormat(widths[3], 7, "", "T", 1, "L", false, 0, "")
	pdf.Ln(10)

	w.font("B", 11, darkGray)
	w.line(contentW, 6, "AANVULLENDE OPMERKINGEN", "L")
	w.rule(0.3)
	w.font("", 9, rgb{})
	pdf.MultiCell(contentW, 5, w.tr("Alle werkzaamheden zijn uitgevoerd conform de opdrachtbevestiging en geldende voorwaarden."), "", "L", false)
}

func (w *writer) tableHeader(widths []float64, labels, aligns []string) {
	w.pdf.SetFillColor(headerBG.r, headerBG.g, headerBG.b)
	w.font("B", 9, accent)
	for i, l := range labels {
		w.pdf.CellFormat(widths[i], 8, w.tr(l), "", 0, aligns[i], true, 0, "")
	}
	w.pdf.Ln(8)
}

func (w *writer) entryRow(widths []float64, aligns []string, e workbook.TimeEntry) {
	pdf := w.pdf
	date := ""
	if e.Date != nil {
		date = Date(*e.Date)
	}
	remark := e.Remarks
	if remark == defaultRemark {
		remark = ""
	}
	cells := []string{date, e.Activity, hours.FormatHours(hours.ParseHours(e.Hours)), remark}

	const lineH = 5.0
	wrapped := make([][]string, len(cells))
	rows := 1
	for i, c := range cells {
		for _, l := range pdf.SplitLines([]byte(w.tr(c)), widths[i]-2) {
			wrapped[i] = append(wrapped[i], string(l))
		}
		if len(wrapped[i]) > rows {
			rows = len(wrapped[i])
		}
	}
	height := float64(rows) * lineH

	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+height > pageH-margin {
		pdf.AddPage()
	}

	x, y := pdf.GetX(), pdf.GetY()
	for i := range cells {
		pdf.SetXY(x, y)
		for j := 0; j < rows; j++ {
			text := ""
			if j < len(wrapped[i]) {
				text = wrapped[i][j]
			}
			pdf.CellFormat(widths[i], lineH, text, "", 2, aligns[i], false, 0, "")
		}
		x += widths[i]
	}
	pdf.SetXY(margin, y+height)
	pdf.SetDrawColor(lightGray.r, lightGray.g, lightGray.b)
	pdf.SetLineWidth(0.1)
	pdf.Line(margin, y+height, pageWidth-margin, y+height)
}
