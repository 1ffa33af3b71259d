package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invopay/internal/service"
)

// PaymentHandler handles checkout creation and the provider webhook.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CheckoutResponse is the payload returned after opening a checkout session.
type CheckoutResponse struct {
	SessionRef  string `json:"session_ref"`
	RedirectURL string `json:"redirect_url"`
}

// CreateCheckout handles POST /api/v1/invoices/:id/checkout
// @Summary Open a hosted checkout session for an invoice
// @Description Returns a redirect URL; the charge amount is the invoice total at call time
// @Tags payments
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} APIResponse{data=CheckoutResponse} "Checkout session"
// @Failure 409 {object} APIResponse "Invoice already paid"
// @Router /invoices/{id}/checkout [post]
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return
	}

	session, err := h.paymentService.CreateCheckout(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, CheckoutResponse{
		SessionRef:  session.SessionRef,
		RedirectURL: session.RedirectURL,
	})
}

// Webhook handles POST /api/v1/webhooks/payment
//
// The raw body is read unparsed because the provider signature covers the
// exact bytes. Verification failures return 401 with no state change;
// anything else the provider may retry gets a 2xx acknowledgement.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "could not read webhook payload")
		return
	}
	signature := c.GetHeader("Stripe-Signature")

	if err := h.paymentService.HandleCallback(c.Request.Context(), payload, signature); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"received": true})
}
