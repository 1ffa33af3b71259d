// Package money implements the invoice monetary calculations. All functions
// are pure: identical inputs always yield identical outputs, and amounts are
// computed on fixed-point decimals rounded half-up to two fractional digits.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"invopay/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Totals holds the derived monetary fields of an invoice.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// LineTotal computes quantity * rate rounded half-up to two decimal places.
// Negative quantity or rate is rejected with ErrInvalidAmount.
func LineTotal(quantity, rate decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: quantity %s is negative", domain.ErrInvalidAmount, quantity)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: rate %s is negative", domain.ErrInvalidAmount, rate)
	}
	return quantity.Mul(rate).Round(2), nil
}

// InvoiceTotals derives subtotal, tax amount and total from the line items
// and tax settings. The tax rate is a percentage and must lie within
// [0, 100]; out-of-range values are an error, never clamped. An empty item
// list yields zero totals.
func InvoiceTotals(items []domain.LineItem, taxRate decimal.Decimal, taxEnabled bool) (Totals, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return Totals{}, fmt.Errorf("%w: tax rate %s outside [0, 100]", domain.ErrInvalidAmount, taxRate)
	}

	subtotal := decimal.Zero
	for i := range items {
		lineTotal, err := LineTotal(items[i].Quantity, items[i].Rate)
		if err != nil {
			return Totals{}, fmt.Errorf("item %d: %w", i, err)
		}
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = subtotal.Round(2)

	taxAmount := decimal.Zero
	if taxEnabled {
		taxAmount = subtotal.Mul(taxRate).Div(hundred).Round(2)
	}

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}, nil
}

// Recompute applies InvoiceTotals to the invoice in place, rewriting each
// line item's derived total and the invoice-level cached totals. It is the
// single recomputation step inserted into every mutation path.
func Recompute(inv *domain.Invoice) error {
	for i := range inv.Items {
		lineTotal, err := LineTotal(inv.Items[i].Quantity, inv.Items[i].Rate)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		inv.Items[i].Total = lineTotal
	}
	totals, err := InvoiceTotals(inv.Items, inv.TaxRate, inv.TaxEnabled)
	if err != nil {
		return err
	}
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
	return nil
}
