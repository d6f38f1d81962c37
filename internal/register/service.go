// Package register appends generated invoices to a Google Sheet.
package register

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"facturatie/internal/logger"
)

// DefaultWorksheet is the tab invoices are appended to.
const DefaultWorksheet = "Facturen"

// ErrNoCredentials is returned when no service account credentials are configured.
var ErrNoCredentials = errors.New("neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set")

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

var headers = []interface{}{
	"Factuurnummer", "Datum", "Klant", "Maand", "Uren", "Tarief",
	"Netto", "BTW", "Bruto", "Betaling", "Payment ID", "Bestand",
}

// Entry is one invoice row in the register.
type Entry struct {
	Number      string
	Date        time.Time
	Client      string
	Month       string
	Hours       float64
	Rate        decimal.Decimal
	Net         decimal.Decimal
	VAT         decimal.Decimal
	Gross       decimal.Decimal
	PaymentKind string
	PaymentID   string
	File        string
}

// Service writes to one spreadsheet.
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	worksheet     string
	log           zerolog.Logger
}

// NewService connects to the spreadsheet at sheetURL with service account
// credentials from the environment.
func NewService(ctx context.Context, sheetURL, worksheet string) (*Service, error) {
	const op = "NewService"

	var creds []byte
	var err error
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: %w", op, ErrNoCredentials)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	return NewServiceWithOptions(ctx, sheetURL, worksheet, option.WithHTTPClient(config.Client(ctx)))
}

// NewServiceWithOptions is NewService with explicit client options.
func NewServiceWithOptions(ctx context.Context, sheetURL, worksheet string, opts ...option.ClientOption) (*Service, error) {
	const op = "NewServiceWithOptions"

	log := logger.WithComponent("register")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}
	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	if worksheet == "" {
		worksheet = DefaultWorksheet
	}
	return &Service{
		sheetsService: svc,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		log:           log,
	}, nil
}

func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// Append adds entries below the existing rows, creating the worksheet and its
// header row first when needed.
func (s *Service) Append(ctx context.Context, entries []Entry) error {
	const op = "Append"

	if len(entries) == 0 {
		return nil
	}

	if err := s.ensureSheetWithHeaders(ctx); err != nil {
		return fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	values := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		values = append(values, rowValues(e))
	}

	_, err := s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.worksheet+"!A:L",
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	s.log.Info().
		Str("sheet", s.worksheet).
		Int("rows_written", len(values)).
		Msg("Invoices appended to register")
	return nil
}

func rowValues(e Entry) []interface{} {
	date := ""
	if !e.Date.IsZero() {
		date = e.Date.Format("02-01-2006")
	}
	return []interface{}{
		e.Number,
		date,
		e.Client,
		e.Month,
		e.Hours,
		e.Rate.InexactFloat64(),
		e.Net.InexactFloat64(),
		e.VAT.InexactFloat64(),
		e.Gross.InexactFloat64(),
		e.PaymentKind,
		e.PaymentID,
		e.File,
	}
}

func (s *Service) ensureSheetWithHeaders(ctx context.Context) error {
	const op = "ensureSheetWithHeaders"

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == s.worksheet {
			sheetExists = true
			break
		}
	}

	if !sheetExists {
		s.log.Info().Str("sheet", s.worksheet).Msg("Creating new sheet")
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: s.worksheet}}},
			},
		}
		if _, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("%s: failed to create sheet: %w", op, err)
		}
	}

	headerRange := s.worksheet + "!A1:L1"
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	s.log.Info().Str("sheet", s.worksheet).Msg("Adding headers to sheet")
	_, err = s.sheetsService.Spreadsheets.Values.Update(
		s.spreadsheetID,
		headerRange,
		&sheets.ValueRange{Values: [][]interface{}{headers}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to add headers: %w", op, err)
	}
	return nil
}
