package port

import (
	"context"

	"github.com/google/uuid"

	"invopay/internal/domain"
)

// InvoiceRepository defines the contract for invoice persistence.
//
// Update performs an optimistic read-modify-write keyed on the invoice's
// Version; a stale version is reported as domain.ErrConflict. UpdateStatus
// and SetPaymentSession are single-statement conditional updates so that
// concurrent mutations against the same invoice cannot produce an illegal
// backward transition or a session ref on a paid invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from []domain.InvoiceStatus, to domain.InvoiceStatus) (*domain.Invoice, error)
	SetPaymentSession(ctx context.Context, id uuid.UUID, sessionRef string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsRepository defines the contract for the singleton business profile.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Upsert(ctx context.Context, s *domain.Settings) error
}
