package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"invopay/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (13 columns).
var columns = []string{
	"Invoice Number",
	"Status",
	"Business Name",
	"Business Email",
	"Client Name",
	"Client Email",
	"Line Item Count",
	"Subtotal",
	"Tax Rate",
	"Tax Amount",
	"Total",
	"Created At",
	"Updated At",
}

// Writer wraps csv.Writer for exporting invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func invoiceToRow(inv *domain.Invoice) []string {
	row := make([]string, len(columns))
	row[0] = inv.Number()
	row[1] = string(inv.Status)
	row[2] = inv.BusinessName
	row[3] = inv.BusinessEmail
	row[4] = inv.ClientName
	row[5] = inv.ClientEmail
	row[6] = strconv.Itoa(len(inv.Items))
	row[7] = inv.Subtotal.StringFixed(2)
	row[8] = inv.TaxRate.StringFixed(2)
	row[9] = inv.TaxAmount.StringFixed(2)
	row[10] = inv.Total.StringFixed(2)
	row[11] = inv.CreatedAt.Format(time.RFC3339)
	row[12] = inv.UpdatedAt.Format(time.RFC3339)
	return row
}
