package main

import (
	"fmt"
	"log"

	"invopay/internal/config"
	"invopay/internal/email/noop"
	"invopay/internal/email/ses"
	"invopay/internal/handler"
	"invopay/internal/payment/disabled"
	stripeprovider "invopay/internal/payment/stripe"
	"invopay/internal/port"
	"invopay/internal/repository/postgres"
	"invopay/internal/router"
	"invopay/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)
	settingsRepo := postgres.NewSettingsRepo(db)

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize payment provider
	var paymentProvider port.PaymentProvider
	if cfg.Payment.Enabled() {
		paymentProvider, err = stripeprovider.NewProvider(&cfg.Payment)
		if err != nil {
			return fmt.Errorf("failed to initialize stripe provider: %w", err)
		}
	} else {
		log.Println("payment provider credentials missing; checkout endpoints disabled")
		paymentProvider = disabled.NewProvider()
	}

	// Initialize services
	invoiceSvc := service.NewInvoiceService(invoiceRepo, settingsRepo, emailSender)
	paymentSvc := service.NewPaymentService(invoiceRepo, paymentProvider, invoiceSvc)
	settingsSvc := service.NewSettingsService(settingsRepo)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(invoiceH, paymentH, settingsH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
