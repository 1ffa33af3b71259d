package disabled

import (
	"context"
	"errors"

	"invopay/internal/domain"
	"invopay/internal/port"
)

// ErrNotConfigured is returned for checkout attempts when no payment
// provider credentials are present. The app still starts without them.
var ErrNotConfigured = errors.New("payment provider is not configured")

type disabledProvider struct{}

// NewProvider creates a PaymentProvider used when Stripe credentials are
// absent: checkouts fail fast and callbacks are never trusted.
func NewProvider() port.PaymentProvider {
	return &disabledProvider{}
}

func (p *disabledProvider) CreateCheckout(_ context.Context, _ port.CheckoutParams) (*port.CheckoutSession, error) {
	return nil, ErrNotConfigured
}

func (p *disabledProvider) VerifyCallback(_ []byte, _ string) (*port.PaymentEvent, error) {
	return nil, domain.ErrUnauthorizedCallback
}
