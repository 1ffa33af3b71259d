package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invopay/internal/domain"
	"invopay/internal/handler"
	"invopay/internal/service"
	"invopay/mocks"
)

func newInvoiceHandler() (*handler.InvoiceHandler, *mocks.MockInvoiceService) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)
	return h, mockSvc
}

func sampleInvoice(id uuid.UUID, status domain.InvoiceStatus) *domain.Invoice {
	return &domain.Invoice{
		ID:            id,
		BusinessName:  "Acme Studio",
		BusinessEmail: "billing@acme.test",
		ClientName:    "Jane Doe",
		ClientEmail:   "jane@client.test",
		Items: domain.LineItems{
			{Description: "Consulting", Quantity: decimal.NewFromInt(2), Rate: decimal.RequireFromString("50.00"), Total: decimal.RequireFromString("100.00")},
		},
		TaxEnabled: true,
		TaxRate:    decimal.RequireFromString("10"),
		Subtotal:   decimal.RequireFromString("100.00"),
		TaxAmount:  decimal.RequireFromString("10.00"),
		Total:      decimal.RequireFromString("110.00"),
		Status:     status,
		Version:    1,
	}
}

func TestInvoiceHandler_Create_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	expected := sampleInvoice(uuid.New(), domain.StatusDraft)
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateInvoiceInput) bool {
		return input.ClientName == "Jane Doe" && len(input.Items) == 1
	})).Return(expected, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"business_name":  "Acme Studio",
		"business_email": "billing@acme.test",
		"client_name":    "Jane Doe",
		"client_email":   "jane@client.test",
		"items": []map[string]interface{}{
			{"description": "Consulting", "quantity": "2", "rate": "50.00"},
		},
		"tax_enabled": true,
		"tax_rate":    "10",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Create_MalformedBody(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_GetByID_NotFound(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices/"+id.String(), nil)

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestInvoiceHandler_Update_NotEditable(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Update", mock.Anything, id, mock.AnythingOfType("service.UpdateInvoiceInput")).
		Return(nil, domain.ErrNotEditable)

	body, _ := json.Marshal(map[string]string{"client_name": "Other Client"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/v1/invoices/"+id.String(), bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Update(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInvoiceHandler_Send_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Send", mock.Anything, id).Return(sampleInvoice(id, domain.StatusSent), "", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices/"+id.String()+"/send", nil)

	h.Send(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Warning)
}

func TestInvoiceHandler_Send_DeliveryWarning(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Send", mock.Anything, id).
		Return(sampleInvoice(id, domain.StatusSent), "invoice marked as sent, but the email could not be delivered", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices/"+id.String()+"/send", nil)

	h.Send(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Warning)
}

func TestInvoiceHandler_Send_InvalidTransition(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Send", mock.Anything, id).Return(nil, "", domain.ErrInvalidTransition)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices/"+id.String()+"/send", nil)

	h.Send(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInvoiceHandler_Delete_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/invoices/"+id.String(), nil)

	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestInvoiceHandler_List_ClampsPagination(t *testing.T) {
	h, mockSvc := newInvoiceHandler()

	mockSvc.On("List", mock.Anything, 0, 20).Return([]domain.Invoice{}, 0, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices?offset=-5&limit=5000", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
