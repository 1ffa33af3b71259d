package domain

// InvoiceStatus represents the lifecycle state of an invoice.
type InvoiceStatus string

const (
	StatusDraft InvoiceStatus = "DRAFT"
	StatusSent  InvoiceStatus = "SENT"
	StatusPaid  InvoiceStatus = "PAID"
)

// statusTransitions encodes the forward-only lifecycle graph.
// PAID is terminal; a direct DRAFT -> PAID jump is allowed when payment
// completes without an explicit send step.
var statusTransitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft: {StatusSent, StatusPaid},
	StatusSent:  {StatusPaid},
	StatusPaid:  {},
}

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to target is a legal
// forward transition.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s InvoiceStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0
}
