package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"facturatie/internal/logger"
)

// Gateway creates online payment links. *MollieClient implements it.
type Gateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error)
}

// Kind tags how a payment QR code was obtained.
type Kind int

const (
	Unavailable Kind = iota
	Online
	Offline
)

func (k Kind) String() string {
	switch k {
	case Online:
		return "online"
	case Offline:
		return "offline"
	default:
		return "unavailable"
	}
}

// Result is the outcome of Provider.Obtain. QR holds PNG bytes for Online and
// Offline results. CheckoutURL and PaymentID are only set for Online, Payload only
// for Offline, Err only for Unavailable.
type Result struct {
	Kind        Kind
	QR          []byte
	CheckoutURL string
	PaymentID   string
	Payload     string
	Err         error
}

// Available reports whether the result carries a QR image.
func (r Result) Available() bool { return r.Kind != Unavailable && len(r.QR) > 0 }

// Beneficiary is the account the offline transfer QR pays into.
type Beneficiary struct {
	Name string
	IBAN string
}

// QRRequest describes the invoice a payment QR is requested for.
type QRRequest struct {
	Amount        decimal.Decimal // gross, VAT included
	InvoiceNumber string
	ClientName    string
	ClientEmail   string
}

// Provider yields a payment QR code, preferring an online checkout link and falling
// back to an EPC credit transfer code.
type Provider struct {
	gateway     Gateway
	beneficiary Beneficiary
	log         zerolog.Logger
}

// NewProvider validates the beneficiary and returns a provider. A nil gateway means
// offline only.
func NewProvider(gateway Gateway, beneficiary Beneficiary) (*Provider, error) {
	const op = "NewProvider"

	if strings.TrimSpace(beneficiary.Name) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingBeneficiary)
	}
	if err := ValidateIBAN(beneficiary.IBAN); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	beneficiary.IBAN = NormalizeIBAN(beneficiary.IBAN)

	return &Provider{
		gateway:     gateway,
		beneficiary: beneficiary,
		log:         logger.WithComponent("payment"),
	}, nil
}

// Beneficiary returns the account offline payments go to.
func (p *Provider) Beneficiary() Beneficiary { return p.beneficiary }

// Online reports whether a gateway is configured.
func (p *Provider) Online() bool { return p.gateway != nil }

// Obtain never returns an error; failures of both tiers end up in Result.Err.
func (p *Provider) Obtain(ctx context.Context, req QRRequest) Result {
	log := p.log.With().Str("invoice", req.InvoiceNumber).Logger()

	if p.gateway != nil {
		res, err := p.online(ctx, req)
		if err == nil {
			log.Info().Str("payment_id", res.PaymentID).Msg("Online payment QR created")
			return res
		}
		if ctx.Err() != nil {
			return Result{Kind: Unavailable, Err: ctx.Err()}
		}
		log.Warn().Err(err).Msg("Online payment failed, falling back to bank transfer QR")
	}

	res, err := p.offline(req)
	if err != nil {
		log.Error().Err(err).Msg("Bank transfer QR failed")
		return Result{Kind: Unavailable, Err: err}
	}
	log.Debug().Msg("Bank transfer QR created")
	return res
}

func (p *Provider) online(ctx context.Context, req QRRequest) (Result, error) {
	payment, err := p.gateway.CreatePayment(ctx, PaymentRequest{
		Amount:        req.Amount,
		InvoiceNumber: req.InvoiceNumber,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
	})
	if err != nil {
		return Result{}, err
	}
	if payment == nil || payment.CheckoutURL == "" {
		return Result{}, errors.New("gateway returned no checkout link")
	}

	png, err := EncodeQR(payment.CheckoutURL)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Kind:        Online,
		QR:          png,
		CheckoutURL: payment.CheckoutURL,
		PaymentID:   payment.ID,
	}, nil
}

func (p *Provider) offline(req QRRequest) (Result, error) {
	payload, err := BuildEPCPayload(EPCRequest{
		Name:       p.beneficiary.Name,
		IBAN:       p.beneficiary.IBAN,
		Amount:     req.Amount,
		Remittance: "Factuur " + req.InvoiceNumber,
	})
	if err != nil {
		return Result{}, err
	}

	png, err := EncodeQR(payload)
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: Offline, QR: png, Payload: payload}, nil
}
