package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invopay/internal/domain"
	"invopay/internal/port"
	"invopay/internal/service"
	"invopay/mocks"
)

func TestPaymentService_CreateCheckout(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	provider := new(mocks.MockPaymentProvider)
	invoices := new(mocks.MockInvoiceService)
	svc := service.NewPaymentService(repo, provider, invoices)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(draftInvoice(id), nil)
	provider.On("CreateCheckout", mock.Anything, mock.MatchedBy(func(p port.CheckoutParams) bool {
		return p.Amount.Equal(decimal.RequireFromString("110.00")) &&
			p.InvoiceID == id &&
			p.CustomerEmail == "jane@client.test"
	})).Return(&port.CheckoutSession{SessionRef: "cs_test_abc", RedirectURL: "https://checkout.test/cs_test_abc"}, nil)
	repo.On("SetPaymentSession", mock.Anything, id, "cs_test_abc").Return(nil)

	session, err := svc.CreateCheckout(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_abc", session.SessionRef)
	assert.Equal(t, "https://checkout.test/cs_test_abc", session.RedirectURL)
	repo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestPaymentService_CreateCheckout_RecomputesAmount(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	provider := new(mocks.MockPaymentProvider)
	invoices := new(mocks.MockInvoiceService)
	svc := service.NewPaymentService(repo, provider, invoices)

	id := uuid.New()
	inv := draftInvoice(id)
	// Stale cached totals must never reach the provider.
	inv.Subtotal = d("1.00")
	inv.TaxAmount = d("0.00")
	inv.Total = d("1.00")

	repo.On("GetByID", mock.Anything, id).Return(inv, nil)
	provider.On("CreateCheckout", mock.Anything, mock.MatchedBy(func(p port.CheckoutParams) bool {
		return p.Amount.Equal(decimal.RequireFromString("110.00"))
	})).Return(&port.CheckoutSession{SessionRef: "cs_test_abc", RedirectURL: "https://checkout.test/x"}, nil)
	repo.On("SetPaymentSession", mock.Anything, id, "cs_test_abc").Return(nil)

	_, err := svc.CreateCheckout(context.Background(), id)
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestPaymentService_CreateCheckout_AlreadyPaid(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	provider := new(mocks.MockPaymentProvider)
	invoices := new(mocks.MockInvoiceService)
	svc := service.NewPaymentService(repo, provider, invoices)

	id := uuid.New()
	paid := draftInvoice(id)
	paid.Status = domain.StatusPaid
	repo.On("GetByID", mock.Anything, id).Return(paid, nil)

	_, err := svc.CreateCheckout(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
	provider.AssertNotCalled(t, "CreateCheckout", mock.Anything, mock.Anything)
}

func TestPaymentService_CreateCheckout_ZeroAmount(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	provider := new(mocks.MockPaymentProvider)
	invoices := new(mocks.MockInvoiceService)
	svc := service.NewPaymentService(repo, provider, invoices)

	id := uuid.New()
	inv := draftInvoice(id)
	inv.Items = domain.LineItems{
		{Description: "Gratis", Quantity: d("1"), Rate: d("0")},
	}
	repo.On("GetByID", mock.Anything, id).Return(inv, nil)

	_, err := svc.CreateCheckout(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	provider.AssertNotCalled(t, "CreateCheckout", mock.Anything, mock.Anything)
}

func TestPaymentService_CreateCheckout_SessionPersistFailure(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	provider := new(mocks.MockPaymentProvider)
	invoices := new(mocks.MockInvoiceService)
	svc := service.NewPaymentService(repo, provider, invoices)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(draftInvoice(id), nil)
	provider.On("CreateCheckout", mock.Anything, mock.Anything).
		Return(&port.CheckoutSession{SessionRef: "cs_test_abc", RedirectURL: "https://checkout.test/x"}, nil)
	repo.On("SetPaymentSession", mock.Anything, id, "cs_test_abc").Return(errors.New("connection reset"))

	_, err := svc.CreateCheckout(context.Background(), id)
	assert.Error(t, err)
}

func TestPaymentService_HandleCallback(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	provider := new(mocks.MockPaymentProvider)
	invoices := new(mocks.MockInvoiceService)
	svc := service.NewPaymentService(repo, provider, invoices)

	id := uuid.New()
	payload := []byte(`{"type":"checkout.session.completed"}`)
	provider.On("VerifyCallback", payload, "sig").Return(&port.PaymentEvent{
		Type:       port.PaymentEventCompleted,
		InvoiceID:  id,
		SessionRef: "cs_test_abc",
	}, nil)
	paid := draftInvoice(id)
	paid.Status = domain.StatusPaid
	invoices.On("MarkPaid", mock.Anything, id, "cs_test_abc").Return(paid, nil)

	err := svc.HandleCallback(context.Background(), payload, "sig")
	require.NoError(t, err)
	invoices.AssertExpectations(t)
}

func TestPaymentService_HandleCallback_BadSignature(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	provider := new(mocks.MockPaymentProvider)
	invoices := new(mocks.MockInvoiceService)
	svc := service.NewPaymentService(repo, provider, invoices)

	payload := []byte(`{}`)
	provider.On("VerifyCallback", payload, "bad").Return(nil, domain.ErrUnauthorizedCallback)

	err := svc.HandleCallback(context.Background(), payload, "bad")
	assert.ErrorIs(t, err, domain.ErrUnauthorizedCallback)
	invoices.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_HandleCallback_IgnoredEvent(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	provider := new(mocks.MockPaymentProvider)
	invoices := new(mocks.MockInvoiceService)
	svc := service.NewPaymentService(repo, provider, invoices)

	payload := []byte(`{"type":"payment_intent.created"}`)
	provider.On("VerifyCallback", payload, "sig").Return(&port.PaymentEvent{
		Type: port.PaymentEventIgnored,
	}, nil)

	err := svc.HandleCallback(context.Background(), payload, "sig")
	require.NoError(t, err)
	invoices.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_HandleCallback_MissingInvoiceID(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	provider := new(mocks.MockPaymentProvider)
	invoices := new(mocks.MockInvoiceService)
	svc := service.NewPaymentService(repo, provider, invoices)

	payload := []byte(`{"type":"checkout.session.completed"}`)
	provider.On("VerifyCallback", payload, "sig").Return(&port.PaymentEvent{
		Type:       port.PaymentEventCompleted,
		SessionRef: "cs_test_abc",
	}, nil)

	err := svc.HandleCallback(context.Background(), payload, "sig")
	require.NoError(t, err)
	invoices.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_HandleCallback_DuplicateDelivery(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	provider := new(mocks.MockPaymentProvider)
	invoices := new(mocks.MockInvoiceService)
	svc := service.NewPaymentService(repo, provider, invoices)

	id := uuid.New()
	payload := []byte(`{"type":"checkout.session.completed"}`)
	provider.On("VerifyCallback", payload, "sig").Return(&port.PaymentEvent{
		Type:       port.PaymentEventCompleted,
		InvoiceID:  id,
		SessionRef: "cs_test_abc",
	}, nil)

	paid := draftInvoice(id)
	paid.Status = domain.StatusPaid
	invoices.On("MarkPaid", mock.Anything, id, "cs_test_abc").Return(paid, nil)

	require.NoError(t, svc.HandleCallback(context.Background(), payload, "sig"))
	require.NoError(t, svc.HandleCallback(context.Background(), payload, "sig"))
	invoices.AssertNumberOfCalls(t, "MarkPaid", 2)
}
