package port

import (
	"context"

	"invopay/internal/domain"
)

// EmailSender defines the contract for transactional invoice emails.
// Implementations wrap failures in domain.ErrDeliveryFailed; callers decide
// whether a failure aborts the surrounding operation.
type EmailSender interface {
	SendInvoiceIssued(ctx context.Context, inv *domain.Invoice) error
	SendPaymentConfirmation(ctx context.Context, inv *domain.Invoice) error
}
