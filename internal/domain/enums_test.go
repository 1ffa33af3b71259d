package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invopay/internal/domain"
)

func TestInvoiceStatus_Valid(t *testing.T) {
	assert.True(t, domain.StatusDraft.Valid())
	assert.True(t, domain.StatusSent.Valid())
	assert.True(t, domain.StatusPaid.Valid())
	assert.False(t, domain.InvoiceStatus("VOID").Valid())
	assert.False(t, domain.InvoiceStatus("draft").Valid())
	assert.False(t, domain.InvoiceStatus("").Valid())
}

func TestInvoiceStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    domain.InvoiceStatus
		to      domain.InvoiceStatus
		allowed bool
	}{
		{"draft to sent", domain.StatusDraft, domain.StatusSent, true},
		{"draft to paid", domain.StatusDraft, domain.StatusPaid, true},
		{"sent to paid", domain.StatusSent, domain.StatusPaid, true},
		{"sent to draft", domain.StatusSent, domain.StatusDraft, false},
		{"paid to draft", domain.StatusPaid, domain.StatusDraft, false},
		{"paid to sent", domain.StatusPaid, domain.StatusSent, false},
		{"draft to draft", domain.StatusDraft, domain.StatusDraft, false},
		{"paid to paid", domain.StatusPaid, domain.StatusPaid, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestInvoiceStatus_Terminal(t *testing.T) {
	assert.False(t, domain.StatusDraft.Terminal())
	assert.False(t, domain.StatusSent.Terminal())
	assert.True(t, domain.StatusPaid.Terminal())
}
