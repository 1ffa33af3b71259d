package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"invopay/internal/domain"
	"invopay/internal/money"
	"invopay/internal/port"
)

// PaymentService orchestrates hosted checkout sessions and reconciles
// asynchronous payment-provider callbacks back into invoice transitions.
type PaymentService interface {
	CreateCheckout(ctx context.Context, invoiceID uuid.UUID) (*port.CheckoutSession, error)
	HandleCallback(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	repo     port.InvoiceRepository
	provider port.PaymentProvider
	invoices InvoiceService
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(repo port.InvoiceRepository, provider port.PaymentProvider, invoices InvoiceService) PaymentService {
	return &paymentService{repo: repo, provider: provider, invoices: invoices}
}

// CreateCheckout opens a hosted payment session for the invoice. The charge
// amount is recomputed from the stored line items at call time; nothing from
// the client request is trusted. The session ref is persisted before the
// redirect URL is returned, and a persistence failure fails the whole call.
func (s *paymentService) CreateCheckout(ctx context.Context, invoiceID uuid.UUID) (*port.CheckoutSession, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.StatusPaid {
		return nil, fmt.Errorf("%w: invoice %s", domain.ErrAlreadyPaid, inv.Number())
	}

	totals, err := money.InvoiceTotals(inv.Items, inv.TaxRate, inv.TaxEnabled)
	if err != nil {
		return nil, err
	}
	if !totals.Total.IsPositive() {
		return nil, fmt.Errorf("%w: checkout amount must be positive, got %s", domain.ErrInvalidAmount, totals.Total)
	}

	session, err := s.provider.CreateCheckout(ctx, port.CheckoutParams{
		Amount:        totals.Total,
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.Number(),
		CustomerEmail: inv.ClientEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	if err := s.repo.SetPaymentSession(ctx, inv.ID, session.SessionRef); err != nil {
		return nil, fmt.Errorf("recording checkout session %s: %w", session.SessionRef, err)
	}
	return session, nil
}

// HandleCallback verifies and applies a provider callback. Unverifiable
// payloads are rejected before any state is touched. Event types other than
// a completed checkout are acknowledged and ignored, and completed events are
// safe to deliver more than once.
func (s *paymentService) HandleCallback(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.VerifyCallback(payload, signature)
	if err != nil {
		return err
	}
	if event.Type != port.PaymentEventCompleted {
		return nil
	}
	if event.InvoiceID == uuid.Nil {
		log.Printf("payment callback for session %s carries no invoice correlation id, ignoring", event.SessionRef)
		return nil
	}

	if _, err := s.invoices.MarkPaid(ctx, event.InvoiceID, event.SessionRef); err != nil {
		return fmt.Errorf("reconciling payment for invoice %s: %w", event.InvoiceID, err)
	}
	return nil
}
