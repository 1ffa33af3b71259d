package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutParams carries everything the payment provider needs to open a
// hosted checkout session. Amount is the invoice total recomputed by the
// caller at call time, never a client-supplied figure.
type CheckoutParams struct {
	Amount        decimal.Decimal
	InvoiceID     uuid.UUID
	InvoiceNumber string
	CustomerEmail string
}

// CheckoutSession is the provider-issued handle for an initiated payment.
type CheckoutSession struct {
	SessionRef  string
	RedirectURL string
}

// PaymentEventType classifies verified callback events.
type PaymentEventType string

const (
	// PaymentEventCompleted signals a successfully completed checkout.
	PaymentEventCompleted PaymentEventType = "completed"
	// PaymentEventIgnored covers event types the system does not act on.
	PaymentEventIgnored PaymentEventType = "ignored"
)

// PaymentEvent is a callback event whose signature has already been verified.
type PaymentEvent struct {
	Type       PaymentEventType
	InvoiceID  uuid.UUID
	SessionRef string
}

// PaymentProvider defines the contract for the external payment gateway.
// VerifyCallback must reject unverifiable payloads with
// domain.ErrUnauthorizedCallback; no event may be trusted before that check.
type PaymentProvider interface {
	CreateCheckout(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	VerifyCallback(payload []byte, signature string) (*PaymentEvent, error)
}
