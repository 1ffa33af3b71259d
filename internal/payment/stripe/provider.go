// Package stripe implements the payment provider port against the Stripe
// hosted checkout API. The webhook secret guards every inbound callback;
// nothing from a callback payload is trusted before signature verification.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"invopay/internal/config"
	"invopay/internal/domain"
	"invopay/internal/port"
)

const metadataInvoiceID = "invoice_id"

type provider struct {
	client        *stripe.Client
	webhookSecret string
	currency      string
	frontendURL   string
}

// NewProvider creates a Stripe-backed PaymentProvider.
func NewProvider(cfg *config.PaymentConfig) (port.PaymentProvider, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key not configured")
	}
	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook secret not configured")
	}
	return &provider{
		client:        stripe.NewClient(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
		currency:      cfg.Currency,
		frontendURL:   cfg.FrontendURL,
	}, nil
}

// CreateCheckout opens a single-payment checkout session charging the full
// invoice total as one line, with the invoice id attached as correlation
// metadata for the completion callback.
func (p *provider) CreateCheckout(ctx context.Context, params port.CheckoutParams) (*port.CheckoutSession, error) {
	// Stripe amounts are integral minor units (cents).
	amountCents := params.Amount.Shift(2).Round(0).IntPart()

	session, err := p.client.V1CheckoutSessions.Create(ctx, &stripe.CheckoutSessionCreateParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency: stripe.String(p.currency),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Invoice %s", params.InvoiceNumber)),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(params.CustomerEmail),
		SuccessURL:    stripe.String(fmt.Sprintf("%s/invoice/%s?payment=success", p.frontendURL, params.InvoiceID)),
		CancelURL:     stripe.String(fmt.Sprintf("%s/invoice/%s?payment=cancelled", p.frontendURL, params.InvoiceID)),
		Metadata: map[string]string{
			metadataInvoiceID: params.InvoiceID.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session create: %w", err)
	}

	return &port.CheckoutSession{
		SessionRef:  session.ID,
		RedirectURL: session.URL,
	}, nil
}

// VerifyCallback checks the webhook signature and maps a completed checkout
// to a PaymentEvent. Any signature failure is domain.ErrUnauthorizedCallback.
func (p *provider) VerifyCallback(payload []byte, signature string) (*port.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorizedCallback, err)
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return &port.PaymentEvent{Type: port.PaymentEventIgnored}, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshaling checkout session from event %s: %w", event.ID, err)
	}

	invoiceID, err := uuid.Parse(session.Metadata[metadataInvoiceID])
	if err != nil {
		// A verified event without our correlation metadata belongs to some
		// other integration; surface it as ignorable rather than failing.
		return &port.PaymentEvent{Type: port.PaymentEventIgnored, SessionRef: session.ID}, nil
	}

	return &port.PaymentEvent{
		Type:       port.PaymentEventCompleted,
		InvoiceID:  invoiceID,
		SessionRef: session.ID,
	}, nil
}
