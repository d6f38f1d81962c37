package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"facturatie/internal/logger"
)

// MollieConfig configures the Mollie payments API client.
type MollieConfig struct {
	APIKey      string
	BaseURL     string        // Default: https://api.mollie.com/v2
	RedirectURL string        // where the customer lands after checkout
	Methods     []string      // offered payment methods
	Locale      string        // Default: nl_NL
	Timeout     time.Duration // Default: 30 seconds
	UserAgent   string
}

// DefaultMollieConfig returns the settings used when nothing is configured.
func DefaultMollieConfig() MollieConfig {
	return MollieConfig{
		BaseURL:     "https://api.mollie.com/v2",
		RedirectURL: "https://quattrobouwenenvastgoedadvies.nl/betaling-voltooid",
		Methods:     []string{"ideal", "bancontact", "sofort", "creditcard"},
		Locale:      "nl_NL",
		Timeout:     30 * time.Second,
		UserAgent:   "facturatie/1.0",
	}
}

// PaymentRequest describes a payment link to create for an invoice.
type PaymentRequest struct {
	Amount        decimal.Decimal // including VAT
	InvoiceNumber string
	ClientName    string
	ClientEmail   string
}

// Payment is the gateway's view of a payment.
type Payment struct {
	ID          string
	Status      string
	Description string
	Amount      decimal.Decimal
	CheckoutURL string
	PaidAt      *time.Time
}

// IsPaid reports whether the payment has been completed.
func (p *Payment) IsPaid() bool { return IsPaid(p.Status) }

// IsPaid reports whether a gateway status means the customer has paid. Only "paid"
// does; "authorized" and the like are still open.
func IsPaid(status string) bool { return status == "paid" }

// MollieClient talks to the Mollie v2 REST API.
type MollieClient struct {
	httpClient *http.Client
	cfg        MollieConfig
	log        zerolog.Logger
}

// NewMollieClient returns a client for cfg. Blank fields take the defaults.
func NewMollieClient(cfg MollieConfig) (*MollieClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("NewMollieClient: %w: API key is empty", ErrGatewayUnavailable)
	}

	def := DefaultMollieConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = def.RedirectURL
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = def.Methods
	}
	if cfg.Locale == "" {
		cfg.Locale = def.Locale
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	return &MollieClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		log:        logger.WithComponent("mollie"),
	}, nil
}

// TestMode reports whether the client uses a test API key.
func (c *MollieClient) TestMode() bool {
	return strings.HasPrefix(c.cfg.APIKey, "test_")
}

type mollieAmount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type mollieCreateRequest struct {
	Amount      mollieAmount      `json:"amount"`
	Description string            `json:"description"`
	RedirectURL string            `json:"redirectUrl"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Locale      string            `json:"locale,omitempty"`
	Method      []string          `json:"method,omitempty"`
}

type mollieLink struct {
	Href string `json:"href"`
}

type molliePayment struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Description string       `json:"description"`
	Amount      mollieAmount `json:"amount"`
	PaidAt      *time.Time   `json:"paidAt"`
	Links       struct {
		Checkout *mollieLink `json:"checkout"`
	} `json:"_links"`
}

type mollieMethods struct {
	Embedded struct {
		Methods []struct {
			ID string `json:"id"`
		} `json:"methods"`
	} `json:"_embedded"`
}

type mollieError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// CreatePayment creates a payment link for req and returns its id and checkout URL.
func (c *MollieClient) CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error) {
	const op = "CreatePayment"

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidAmount)
	}
	if strings.TrimSpace(req.InvoiceNumber) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingReference)
	}

	body := mollieCreateRequest{
		Amount:      mollieAmount{Currency: "EUR", Value: req.Amount.StringFixed(2)},
		Description: "Factuur " + req.InvoiceNumber,
		RedirectURL: c.cfg.RedirectURL,
		Metadata: map[string]string{
			"factuurnummer": req.InvoiceNumber,
			"klant_naam":    req.ClientName,
			"klant_email":   req.ClientEmail,
		},
		Locale: c.cfg.Locale,
		Method: c.cfg.Methods,
	}

	c.log.Debug().
		Str("invoice", req.InvoiceNumber).
		Str("amount", body.Amount.Value).
		Bool("test_mode", c.TestMode()).
		Msg("Creating payment")

	var p molliePayment
	if err := c.do(ctx, http.MethodPost, "/payments", body, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if p.ID == "" || p.Links.Checkout == nil || p.Links.Checkout.Href == "" {
		return nil, fmt.Errorf("%s: response without payment id or checkout link", op)
	}

	payment := p.toPayment()
	c.log.Info().
		Str("invoice", req.InvoiceNumber).
		Str("payment_id", payment.ID).
		Msg("Payment created")
	return payment, nil
}

// GetPayment fetches the current state of a payment.
func (c *MollieClient) GetPayment(ctx context.Context, id string) (*Payment, error) {
	const op = "GetPayment"

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%s: %w: empty id", op, ErrPaymentNotFound)
	}

	var p molliePayment
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p.toPayment(), nil
}

// ListMethods returns the ids of the payment methods enabled on the account. It
// doubles as a connection test.
func (c *MollieClient) ListMethods(ctx context.Context) ([]string, error) {
	const op = "ListMethods"

	var m mollieMethods
	if err := c.do(ctx, http.MethodGet, "/methods", nil, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids := make([]string, 0, len(m.Embedded.Methods))
	for _, method := range m.Embedded.Methods {
		if method.ID != "" {
			ids = append(ids, method.ID)
		}
	}
	return ids, nil
}

func (p molliePayment) toPayment() *Payment {
	out := &Payment{
		ID:          p.ID,
		Status:      p.Status,
		Description: p.Description,
		PaidAt:      p.PaidAt,
	}
	if p.Links.Checkout != nil {
		out.CheckoutURL = p.Links.Checkout.Href
	}
	if v, err := decimal.NewFromString(p.Amount.Value); err == nil {
		out.Amount = v
	}
	return out
}

func (c *MollieClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
	var me mollieError
	if err := json.Unmarshal(data, &me); err == nil && (me.Title != "" || me.Detail != "") {
		if me.Title != "" {
			apiErr.Title = me.Title
		}
		apiErr.Detail = me.Detail
	} else if len(data) > 0 {
		apiErr.Detail = strings.TrimSpace(string(data))
	}
	return apiErr
}
