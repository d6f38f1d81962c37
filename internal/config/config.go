package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"facturatie/internal/fiscal"
	"facturatie/internal/logger"
	"facturatie/internal/payment"
	"facturatie/internal/register"
	"facturatie/internal/render"
)

// LedgerOff disables the invoice ledger when used as FACTURATIE_LEDGER.
const LedgerOff = "off"

type Config struct {
	// Workbook Configuration
	WorkbookDir string
	Workbook    string

	// Output Configuration
	OutputDir       string
	PreferencesPath string
	LedgerPath      string

	// Company Profile
	CompanyFile string
	Company     Company

	// Mollie Configuration
	MollieAPIKey      string
	MollieBaseURL     string
	MollieRedirectURL string
	PaymentTimeout    time.Duration

	// Google Sheets Configuration
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Company is the issuing business. It can be overridden from a TOML file.
type Company struct {
	Name            string  `toml:"name"`
	DisplayName     string  `toml:"display_name"`
	Street          string  `toml:"street"`
	PostalCity      string  `toml:"postal_city"`
	Website         string  `toml:"website"`
	Email           string  `toml:"email"`
	KvK             string  `toml:"kvk"`
	BTW             string  `toml:"btw"`
	IBAN            string  `toml:"iban"`
	PaymentTermDays int     `toml:"payment_term_days"`
	VATRate         float64 `toml:"vat_rate"`
}

// DefaultCompany returns the built-in profile.
func DefaultCompany() Company {
	return Company{
		Name:            "Quattro Bouw & Vastgoed Advies BV",
		DisplayName:     "BOUW & VASTGOED ADVIES BV",
		Street:          "Willinkhof 3",
		PostalCity:      "6006 RG Weert",
		Website:         "www.quattrobouwenenvastgoedadvies.nl",
		Email:           "info@quattrobouwenenvastgoedadvies.nl",
		KvK:             "75108542",
		BTW:             "NL860145438B01",
		IBAN:            "NL30RABO0347670407",
		PaymentTermDays: 14,
		VATRate:         0.21,
	}
}

// Render converts the profile for the invoice renderer.
func (c Company) Render() render.Company {
	return render.Company{
		Name:            c.Name,
		DisplayName:     c.DisplayName,
		Street:          c.Street,
		PostalCity:      c.PostalCity,
		Website:         c.Website,
		Email:           c.Email,
		KvK:             c.KvK,
		BTW:             c.BTW,
		IBAN:            c.IBAN,
		PaymentTermDays: c.PaymentTermDays,
	}
}

// VAT returns the VAT rate as a fraction.
func (c Company) VAT() decimal.Decimal {
	return decimal.NewFromFloat(c.VATRate)
}

// Beneficiary is the account offline payment QR codes pay into.
func (c Company) Beneficiary() payment.Beneficiary {
	return payment.Beneficiary{Name: c.Name, IBAN: c.IBAN}
}

func Load() (*Config, error) {
	configDir := defaultConfigDir()

	config := &Config{
		WorkbookDir:          getEnv("FACTURATIE_WORKBOOK_DIR", "."),
		Workbook:             getEnv("FACTURATIE_WORKBOOK", ""),
		OutputDir:            getEnv("FACTURATIE_OUTPUT_DIR", ""),
		PreferencesPath:      getEnv("FACTURATIE_PREFERENCES", filepath.Join(configDir, "preferences.yaml")),
		LedgerPath:           getEnv("FACTURATIE_LEDGER", filepath.Join(configDir, "ledger.db")),
		CompanyFile:          getEnv("FACTURATIE_COMPANY_FILE", ""),
		Company:              DefaultCompany(),
		MollieAPIKey:         getEnv("MOLLIE_API_KEY", ""),
		MollieBaseURL:        getEnv("MOLLIE_BASE_URL", "https://api.mollie.com/v2"),
		MollieRedirectURL:    getEnv("MOLLIE_REDIRECT_URL", "https://quattrobouwenenvastgoedadvies.nl/betaling-voltooid"),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", register.DefaultWorksheet),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	timeout, err := time.ParseDuration(getEnv("PAYMENT_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: PAYMENT_TIMEOUT: %w", err)
	}
	config.PaymentTimeout = timeout

	if config.CompanyFile != "" {
		if err := config.loadCompany(config.CompanyFile); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// loadCompany overlays the company profile with the fields set in a TOML file.
func (c *Config) loadCompany(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read company file: %w", err)
	}
	company := c.Company
	if err := toml.Unmarshal(data, &company); err != nil {
		return fmt.Errorf("failed to parse company file %s: %w", path, err)
	}
	c.Company = company
	return nil
}

// Validate checks the values that are set. Nothing is mandatory.
func (c *Config) Validate() error {
	var errs []error
	if c.Company.IBAN != "" {
		if err := payment.ValidateIBAN(c.Company.IBAN); err != nil {
			errs = append(errs, fmt.Errorf("company IBAN: %w", err))
		}
	}
	if c.Company.PaymentTermDays <= 0 {
		errs = append(errs, fmt.Errorf("payment term must be positive, got %d", c.Company.PaymentTermDays))
	}
	if c.Company.VATRate < 0 || c.Company.VATRate >= 1 {
		errs = append(errs, fmt.Errorf("VAT rate must be a fraction between 0 and 1, got %v", c.Company.VATRate))
	}
	if c.PaymentTimeout <= 0 {
		errs = append(errs, fmt.Errorf("PAYMENT_TIMEOUT must be positive, got %s", c.PaymentTimeout))
	}
	return errors.Join(errs...)
}

// WorkbookPath is the hours workbook for the fiscal year of cal.
func (c *Config) WorkbookPath(cal fiscal.Calendar) string {
	if c.Workbook != "" {
		return c.Workbook
	}
	return filepath.Join(c.WorkbookDir, cal.WorkbookFileName())
}

// LedgerEnabled reports whether the invoice ledger is used.
func (c *Config) LedgerEnabled() bool {
	return c.LedgerPath != "" && !strings.EqualFold(c.LedgerPath, LedgerOff)
}

// MollieConfig returns the payment gateway settings.
func (c *Config) MollieConfig() payment.MollieConfig {
	cfg := payment.DefaultMollieConfig()
	cfg.APIKey = c.MollieAPIKey
	cfg.BaseURL = c.MollieBaseURL
	cfg.RedirectURL = c.MollieRedirectURL
	cfg.Timeout = c.PaymentTimeout
	return cfg
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "facturatie")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
