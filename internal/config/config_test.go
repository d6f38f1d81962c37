package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"facturatie/internal/fiscal"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FACTURATIE_WORKBOOK_DIR", "FACTURATIE_WORKBOOK", "FACTURATIE_OUTPUT_DIR",
		"FACTURATIE_PREFERENCES", "FACTURATIE_LEDGER", "FACTURATIE_COMPANY_FILE",
		"MOLLIE_API_KEY", "MOLLIE_BASE_URL", "MOLLIE_REDIRECT_URL", "PAYMENT_TIMEOUT",
		"GOOGLE_SHEET_URL", "GOOGLE_SHEET_WORKSHEET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PaymentTimeout != 30*time.Second {
		t.Errorf("PaymentTimeout = %v, want 30s", cfg.PaymentTimeout)
	}
	if cfg.Company.IBAN != "NL30RABO0347670407" || cfg.Company.PaymentTermDays != 14 {
		t.Errorf("Company = %+v", cfg.Company)
	}
	if cfg.GoogleSheetWorksheet != "Facturen" {
		t.Errorf("GoogleSheetWorksheet = %q", cfg.GoogleSheetWorksheet)
	}
	if !cfg.LedgerEnabled() {
		t.Errorf("LedgerEnabled() = false by default")
	}
	if cfg.LogOutput != "stderr" {
		t.Errorf("LogOutput = %q, want stderr", cfg.LogOutput)
	}
	if got := cfg.Company.VAT().String(); got != "0.21" {
		t.Errorf("VAT() = %s, want 0.21", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FACTURATIE_LEDGER", "off")
	t.Setenv("PAYMENT_TIMEOUT", "5s")
	t.Setenv("MOLLIE_API_KEY", "test_x")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LedgerEnabled() {
		t.Errorf("LedgerEnabled() = true with FACTURATIE_LEDGER=off")
	}
	mc := cfg.MollieConfig()
	if mc.APIKey != "test_x" || mc.Timeout != 5*time.Second || len(mc.Methods) != 4 {
		t.Errorf("MollieConfig() = %+v", mc)
	}
}

func TestLoadBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAYMENT_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want timeout parse error")
	}
}

func TestLoadCompanyFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "company.toml")
	content := "name = \"Test BV\"\niban = \"NL91ABNA0417164300\"\npayment_term_days = 30\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FACTURATIE_COMPANY_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c := cfg.Company
	if c.Name != "Test BV" || c.IBAN != "NL91ABNA0417164300" || c.PaymentTermDays != 30 {
		t.Errorf("Company = %+v", c)
	}
	if c.KvK != "75108542" {
		t.Errorf("KvK = %q, want default kept", c.KvK)
	}
	if r := c.Render(); r.PaymentTermDays != 30 || r.Name != "Test BV" {
		t.Errorf("Render() = %+v", r)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Company: DefaultCompany(), PaymentTimeout: time.Second}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cfg.Company.IBAN = "NL30"
	cfg.Company.PaymentTermDays = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	for _, want := range []string{"IBAN", "payment term"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q does not mention %s", err, want)
		}
	}
}

func TestWorkbookPath(t *testing.T) {
	cal := fiscal.Fixed(time.Date(2026, 1, 10, 0, 0, 0, 0, time.Local))

	cfg := &Config{WorkbookDir: "/data"}
	if got := cfg.WorkbookPath(cal); got != filepath.Join("/data", "Uren 2025.xlsx") {
		t.Errorf("WorkbookPath() = %q", got)
	}
	cfg.Workbook = "/tmp/x.xlsx"
	if got := cfg.WorkbookPath(cal); got != "/tmp/x.xlsx" {
		t.Errorf("WorkbookPath() = %q, want explicit path", got)
	}
}
