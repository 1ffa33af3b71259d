package noop

import (
	"context"
	"log"

	"invopay/internal/domain"
	"invopay/internal/port"
)

type noopSender struct{}

// NewNoopSender creates an EmailSender that only logs. Used in development
// and as the fallback when no email provider is configured.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendInvoiceIssued(_ context.Context, inv *domain.Invoice) error {
	log.Printf("[noop email] invoice-issued to %s for invoice #%s ($%s)",
		inv.ClientEmail, inv.Number(), inv.Total.StringFixed(2))
	return nil
}

func (s *noopSender) SendPaymentConfirmation(_ context.Context, inv *domain.Invoice) error {
	log.Printf("[noop email] payment-confirmation to %s for invoice #%s ($%s)",
		inv.ClientEmail, inv.Number(), inv.Total.StringFixed(2))
	return nil
}
