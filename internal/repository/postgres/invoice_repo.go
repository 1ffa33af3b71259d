package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invopay/internal/domain"
	"invopay/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	inv.ID = uuid.New()
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	inv.Version = 1

	query := `INSERT INTO invoices
		(id, business_name, business_email, business_address, business_phone,
		 business_website, business_logo, client_name, client_email, items,
		 subtotal, tax_enabled, tax_rate, tax_amount, total, status,
		 payment_session_ref, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.BusinessName, inv.BusinessEmail, inv.BusinessAddress, inv.BusinessPhone,
		inv.BusinessWebsite, inv.BusinessLogo, inv.ClientName, inv.ClientEmail, inv.Items,
		inv.Subtotal, inv.TaxEnabled, inv.TaxRate, inv.TaxAmount, inv.Total, inv.Status,
		inv.PaymentSessionRef, inv.Version, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, offset, limit int) ([]domain.Invoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices")
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	var invoices []domain.Invoice
	err = r.db.SelectContext(ctx, &invoices,
		"SELECT * FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

// Update rewrites all mutable fields conditionally on the version the caller
// read, so a concurrent writer cannot be silently overwritten. Computed
// fields (subtotal, tax_amount, total) are written from the invoice as
// re-derived by the service layer; there is no path that sets them directly.
func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()

	query := `UPDATE invoices SET
		business_name = $1, business_email = $2, business_address = $3,
		business_phone = $4, business_website = $5, business_logo = $6,
		client_name = $7, client_email = $8, items = $9,
		subtotal = $10, tax_enabled = $11, tax_rate = $12, tax_amount = $13,
		total = $14, version = version + 1, updated_at = $15
		WHERE id = $16 AND version = $17`

	result, err := r.db.ExecContext(ctx, query,
		inv.BusinessName, inv.BusinessEmail, inv.BusinessAddress,
		inv.BusinessPhone, inv.BusinessWebsite, inv.BusinessLogo,
		inv.ClientName, inv.ClientEmail, inv.Items,
		inv.Subtotal, inv.TaxEnabled, inv.TaxRate, inv.TaxAmount,
		inv.Total, inv.UpdatedAt, inv.ID, inv.Version)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := r.GetByID(ctx, inv.ID); errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	inv.Version++
	return nil
}

// UpdateStatus moves the invoice to the target status in a single conditional
// statement. The allowed source statuses are part of the WHERE clause, which
// makes the transition atomic relative to concurrent mutations and a repeated
// call observable as zero affected rows rather than a double transition.
func (r *invoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from []domain.InvoiceStatus, to domain.InvoiceStatus) (*domain.Invoice, error) {
	query, args, err := sqlx.In(
		`UPDATE invoices SET status = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND status IN (?)`,
		to, time.Now().UTC(), id, from)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	query = r.db.Rebind(query) + " RETURNING *"

	var inv domain.Invoice
	err = r.db.GetContext(ctx, &inv, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish a missing invoice from one already past the
			// allowed source statuses.
			if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrInvalidTransition
		}
		return nil, fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	return &inv, nil
}

// SetPaymentSession records the provider session ref, refusing to attach one
// to an invoice that has already been paid.
func (r *invoiceRepo) SetPaymentSession(ctx context.Context, id uuid.UUID, sessionRef string) error {
	query := `UPDATE invoices SET payment_session_ref = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND status <> $4`
	result, err := r.db.ExecContext(ctx, query, sessionRef, time.Now().UTC(), id, domain.StatusPaid)
	if err != nil {
		return fmt.Errorf("invoiceRepo.SetPaymentSession: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := r.GetByID(ctx, id); errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return domain.ErrAlreadyPaid
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
