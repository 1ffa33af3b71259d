package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invopay/internal/port"
)

// MockPaymentProvider is a mock implementation of port.PaymentProvider.
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateCheckout(ctx context.Context, params port.CheckoutParams) (*port.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CheckoutSession), args.Error(1)
}

func (m *MockPaymentProvider) VerifyCallback(payload []byte, signature string) (*port.PaymentEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PaymentEvent), args.Error(1)
}
