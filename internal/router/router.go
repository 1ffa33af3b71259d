package router

import (
	"github.com/gin-gonic/gin"

	"invopay/internal/handler"
	"invopay/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	invoiceH *handler.InvoiceHandler,
	paymentH *handler.PaymentHandler,
	settingsH *handler.SettingsHandler,
	healthH *handler.HealthHandler,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Invoice lifecycle
	invoices := v1.Group("/invoices")
	invoices.POST("", invoiceH.Create)
	invoices.GET("", invoiceH.List)
	invoices.GET("/export", invoiceH.Export)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.PUT("/:id", invoiceH.Update)
	invoices.DELETE("/:id", invoiceH.Delete)
	invoices.POST("/:id/send", invoiceH.Send)
	invoices.POST("/:id/checkout", paymentH.CreateCheckout)

	// Provider callbacks; the handler reads the raw body itself.
	v1.POST("/webhooks/payment", paymentH.Webhook)

	// Business profile
	v1.GET("/settings", settingsH.Get)
	v1.PUT("/settings", settingsH.Save)

	return r
}
