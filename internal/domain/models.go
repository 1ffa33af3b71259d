package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem represents a single billable row on an invoice. Total is derived
// from Quantity and Rate and is recomputed on every write path, never taken
// from client input.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total"`
}

// LineItems is an ordered list of line items, stored as a single jsonb column.
type LineItems []LineItem

// Value implements driver.Valuer for jsonb storage.
func (li LineItems) Value() (driver.Value, error) {
	if li == nil {
		li = LineItems{}
	}
	b, err := json.Marshal(li)
	if err != nil {
		return nil, fmt.Errorf("marshaling line items: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for jsonb storage.
func (li *LineItems) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*li = LineItems{}
		return nil
	default:
		return fmt.Errorf("unsupported line items source type %T", src)
	}
	return json.Unmarshal(b, li)
}

// Invoice is the aggregate at the center of the system. Subtotal, TaxAmount
// and Total are pure functions of Items, TaxRate and TaxEnabled; they are
// persisted as cached derived values and recomputed before every write.
// Version is the optimistic-concurrency token bumped on each update.
type Invoice struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	BusinessName      string          `db:"business_name" json:"business_name"`
	BusinessEmail     string          `db:"business_email" json:"business_email"`
	BusinessAddress   string          `db:"business_address" json:"business_address"`
	BusinessPhone     string          `db:"business_phone" json:"business_phone"`
	BusinessWebsite   string          `db:"business_website" json:"business_website"`
	BusinessLogo      string          `db:"business_logo" json:"business_logo"`
	ClientName        string          `db:"client_name" json:"client_name"`
	ClientEmail       string          `db:"client_email" json:"client_email"`
	Items             LineItems       `db:"items" json:"items"`
	Subtotal          decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxEnabled        bool            `db:"tax_enabled" json:"tax_enabled"`
	TaxRate           decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	TaxAmount         decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	Total             decimal.Decimal `db:"total" json:"total"`
	Status            InvoiceStatus   `db:"status" json:"status"`
	PaymentSessionRef string          `db:"payment_session_ref" json:"payment_session_ref,omitempty"`
	Version           int             `db:"version" json:"version"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// Number returns the short human-facing invoice number derived from the ID.
func (i *Invoice) Number() string {
	return i.ID.String()[:8]
}

// Settings is the singleton business profile consumed as defaults at invoice
// creation time. It carries no lifecycle logic.
type Settings struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	BusinessName    string          `db:"business_name" json:"business_name"`
	BusinessEmail   string          `db:"business_email" json:"business_email"`
	BusinessAddress string          `db:"business_address" json:"business_address"`
	BusinessPhone   string          `db:"business_phone" json:"business_phone"`
	BusinessWebsite string          `db:"business_website" json:"business_website"`
	BusinessLogo    string          `db:"business_logo" json:"business_logo"`
	DefaultTaxRate  decimal.Decimal `db:"default_tax_rate" json:"default_tax_rate"`
	AccentColor     string          `db:"accent_color" json:"accent_color"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}
