package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invopay/internal/domain"
	"invopay/internal/money"
	"invopay/internal/port"
)

// LineItemInput is the DTO for a single line item. The derived total is not
// accepted from callers.
type LineItemInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// CreateInvoiceInput is the DTO for creating an invoice. Business fields left
// empty are filled from the saved settings; a nil TaxRate falls back to the
// settings default when tax is enabled.
type CreateInvoiceInput struct {
	BusinessName    string           `json:"business_name"`
	BusinessEmail   string           `json:"business_email"`
	BusinessAddress string           `json:"business_address"`
	BusinessPhone   string           `json:"business_phone"`
	BusinessWebsite string           `json:"business_website"`
	BusinessLogo    string           `json:"business_logo"`
	ClientName      string           `json:"client_name" binding:"required"`
	ClientEmail     string           `json:"client_email" binding:"required"`
	Items           []LineItemInput  `json:"items" binding:"required"`
	TaxEnabled      bool             `json:"tax_enabled"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
}

// UpdateInvoiceInput is the merge-patch DTO for updating a draft invoice.
type UpdateInvoiceInput struct {
	BusinessName    *string          `json:"business_name"`
	BusinessEmail   *string          `json:"business_email"`
	BusinessAddress *string          `json:"business_address"`
	BusinessPhone   *string          `json:"business_phone"`
	BusinessWebsite *string          `json:"business_website"`
	BusinessLogo    *string          `json:"business_logo"`
	ClientName      *string          `json:"client_name"`
	ClientEmail     *string          `json:"client_email"`
	Items           []LineItemInput  `json:"items"`
	TaxEnabled      *bool            `json:"tax_enabled"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
}

// InvoiceService defines the invoice lifecycle contract.
type InvoiceService interface {
	Create(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Send transitions a draft invoice to SENT and dispatches the
	// invoice-issued email. A delivery failure does not roll back the
	// transition; it is returned as a non-empty warning instead.
	Send(ctx context.Context, id uuid.UUID) (*domain.Invoice, string, error)
	// MarkPaid applies a completed-payment event. It is idempotent: an
	// already-paid invoice is returned unchanged with no error and no
	// duplicate confirmation email.
	MarkPaid(ctx context.Context, id uuid.UUID, sessionRef string) (*domain.Invoice, error)
}

type invoiceService struct {
	repo     port.InvoiceRepository
	settings port.SettingsRepository
	email    port.EmailSender
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(repo port.InvoiceRepository, settings port.SettingsRepository, email port.EmailSender) InvoiceService {
	return &invoiceService{repo: repo, settings: settings, email: email}
}

func (s *invoiceService) Create(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error) {
	inv := &domain.Invoice{
		BusinessName:    input.BusinessName,
		BusinessEmail:   input.BusinessEmail,
		BusinessAddress: input.BusinessAddress,
		BusinessPhone:   input.BusinessPhone,
		BusinessWebsite: input.BusinessWebsite,
		BusinessLogo:    input.BusinessLogo,
		ClientName:      input.ClientName,
		ClientEmail:     input.ClientEmail,
		Items:           itemsFromInput(input.Items),
		TaxEnabled:      input.TaxEnabled,
		Status:          domain.StatusDraft,
	}
	if input.TaxRate != nil {
		inv.TaxRate = *input.TaxRate
	}

	s.applyDefaults(ctx, inv, input.TaxRate == nil)

	if err := validateInvoice(inv); err != nil {
		return nil, err
	}
	if len(inv.Items) == 0 {
		return nil, fmt.Errorf("%w: invoice requires at least one line item", domain.ErrValidation)
	}
	if err := money.Recompute(inv); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *invoiceService) List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, input UpdateInvoiceInput) (*domain.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: status is %s", domain.ErrNotEditable, inv.Status)
	}

	if input.BusinessName != nil {
		inv.BusinessName = *input.BusinessName
	}
	if input.BusinessEmail != nil {
		inv.BusinessEmail = *input.BusinessEmail
	}
	if input.BusinessAddress != nil {
		inv.BusinessAddress = *input.BusinessAddress
	}
	if input.BusinessPhone != nil {
		inv.BusinessPhone = *input.BusinessPhone
	}
	if input.BusinessWebsite != nil {
		inv.BusinessWebsite = *input.BusinessWebsite
	}
	if input.BusinessLogo != nil {
		inv.BusinessLogo = *input.BusinessLogo
	}
	if input.ClientName != nil {
		inv.ClientName = *input.ClientName
	}
	if input.ClientEmail != nil {
		inv.ClientEmail = *input.ClientEmail
	}
	if input.Items != nil {
		inv.Items = itemsFromInput(input.Items)
	}
	if input.TaxEnabled != nil {
		inv.TaxEnabled = *input.TaxEnabled
	}
	if input.TaxRate != nil {
		inv.TaxRate = *input.TaxRate
	}

	if err := validateInvoice(inv); err != nil {
		return nil, err
	}
	if err := money.Recompute(inv); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *invoiceService) Send(ctx context.Context, id uuid.UUID) (*domain.Invoice, string, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !inv.Status.CanTransitionTo(domain.StatusSent) {
		return nil, "", fmt.Errorf("%w: cannot send invoice in status %s", domain.ErrInvalidTransition, inv.Status)
	}
	if len(inv.Items) == 0 {
		return nil, "", fmt.Errorf("%w: cannot send invoice with no line items", domain.ErrInvalidTransition)
	}
	if err := validateInvoice(inv); err != nil {
		return nil, "", err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, []domain.InvoiceStatus{domain.StatusDraft}, domain.StatusSent)
	if err != nil {
		return nil, "", err
	}

	warning := ""
	if err := s.email.SendInvoiceIssued(ctx, updated); err != nil {
		log.Printf("invoice %s: issued email delivery failed: %v", updated.Number(), err)
		warning = "invoice marked as sent, but the email could not be delivered"
	}
	return updated, warning, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, id uuid.UUID, sessionRef string) (*domain.Invoice, error) {
	updated, err := s.repo.UpdateStatus(ctx, id,
		[]domain.InvoiceStatus{domain.StatusDraft, domain.StatusSent}, domain.StatusPaid)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			// Payment callbacks are delivered at least once; a repeat for an
			// already-paid invoice is a no-op, not an error.
			inv, getErr := s.repo.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if inv.Status == domain.StatusPaid {
				return inv, nil
			}
		}
		return nil, err
	}

	// The session ref is advisory correlation data only; a mismatch is worth
	// a log line but never blocks the transition.
	if sessionRef != "" && updated.PaymentSessionRef != "" && sessionRef != updated.PaymentSessionRef {
		log.Printf("invoice %s: payment session ref mismatch (recorded %s, callback %s)",
			updated.Number(), updated.PaymentSessionRef, sessionRef)
	}

	if err := s.email.SendPaymentConfirmation(ctx, updated); err != nil {
		log.Printf("invoice %s: payment confirmation email delivery failed: %v", updated.Number(), err)
	}
	return updated, nil
}

// applyDefaults fills empty business fields and, when requested, the tax rate
// from the saved settings. Missing settings are not an error; the invoice is
// validated afterwards either way.
func (s *invoiceService) applyDefaults(ctx context.Context, inv *domain.Invoice, useDefaultTaxRate bool) {
	defaults, err := s.settings.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("loading settings defaults: %v", err)
		}
		return
	}
	if inv.BusinessName == "" {
		inv.BusinessName = defaults.BusinessName
	}
	if inv.BusinessEmail == "" {
		inv.BusinessEmail = defaults.BusinessEmail
	}
	if inv.BusinessAddress == "" {
		inv.BusinessAddress = defaults.BusinessAddress
	}
	if inv.BusinessPhone == "" {
		inv.BusinessPhone = defaults.BusinessPhone
	}
	if inv.BusinessWebsite == "" {
		inv.BusinessWebsite = defaults.BusinessWebsite
	}
	if inv.BusinessLogo == "" {
		inv.BusinessLogo = defaults.BusinessLogo
	}
	if useDefaultTaxRate && inv.TaxEnabled {
		inv.TaxRate = defaults.DefaultTaxRate
	}
}

func itemsFromInput(items []LineItemInput) domain.LineItems {
	out := make(domain.LineItems, 0, len(items))
	for _, it := range items {
		out = append(out, domain.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		})
	}
	return out
}

// validateInvoice checks the required business and client fields and the
// line item descriptions, reporting every missing field at once.
func validateInvoice(inv *domain.Invoice) error {
	var missing []string
	if strings.TrimSpace(inv.BusinessName) == "" {
		missing = append(missing, "business_name")
	}
	if strings.TrimSpace(inv.BusinessEmail) == "" {
		missing = append(missing, "business_email")
	}
	if strings.TrimSpace(inv.ClientName) == "" {
		missing = append(missing, "client_name")
	}
	if strings.TrimSpace(inv.ClientEmail) == "" {
		missing = append(missing, "client_email")
	}
	for i := range inv.Items {
		if strings.TrimSpace(inv.Items[i].Description) == "" {
			missing = append(missing, fmt.Sprintf("items[%d].description", i))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
