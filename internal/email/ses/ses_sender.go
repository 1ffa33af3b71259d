package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"invopay/internal/domain"
	"invopay/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender. The visible sender name
// is the invoice's business name so replies look like they come from the
// business, while the envelope address stays ours.
func NewSESSender(region, fromAddress, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendInvoiceIssued(ctx context.Context, inv *domain.Invoice) error {
	invoiceURL := fmt.Sprintf("%s/invoice/%s", s.frontendURL, inv.ID)
	subject := fmt.Sprintf("Invoice #%s from %s", inv.Number(), inv.BusinessName)
	htmlBody := buildIssuedHTML(inv, invoiceURL)
	textBody := fmt.Sprintf(
		"Hello %s,\n\nYou have received a new invoice from %s for $%s.\n\nView and pay your invoice:\n%s\n\nQuestions? Contact %s.",
		inv.ClientName, inv.BusinessName, inv.Total.StringFixed(2), invoiceURL, inv.BusinessEmail)

	return s.send(ctx, inv, subject, htmlBody, textBody)
}

func (s *sesSender) SendPaymentConfirmation(ctx context.Context, inv *domain.Invoice) error {
	subject := fmt.Sprintf("Payment Received - Invoice #%s", inv.Number())
	htmlBody := buildPaymentConfirmationHTML(inv)
	textBody := fmt.Sprintf(
		"Hello %s,\n\nThank you for your payment of $%s for invoice #%s.\n\nIf you need a receipt, contact %s.\n\nBest regards,\n%s",
		inv.ClientName, inv.Total.StringFixed(2), inv.Number(), inv.BusinessEmail, inv.BusinessName)

	return s.send(ctx, inv, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, inv *domain.Invoice, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", inv.BusinessName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{inv.ClientEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: SES SendEmail: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

func buildIssuedHTML(inv *domain.Invoice, invoiceURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #3B82F6;">New Invoice from %s</h2>
  <div style="background: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3>Invoice Details</h3>
    <p><strong>Invoice ID:</strong> #%s</p>
    <p><strong>Amount:</strong> $%s</p>
    <p><strong>Client:</strong> %s</p>
  </div>
  <p>Hello %s,</p>
  <p>You have received a new invoice from %s. Please click the button below to view and pay your invoice securely.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background: #3B82F6; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View &amp; Pay Invoice</a>
  </p>
  <p>If you have any questions, please contact us at %s.</p>
  <hr style="border: none; border-top: 1px solid #e2e8f0; margin: 30px 0;">
  <p style="color: #64748b; font-size: 12px;">This is an automated email. Please do not reply to this message.</p>
</body>
</html>`,
		inv.BusinessName, inv.Number(), inv.Total.StringFixed(2), inv.ClientName,
		inv.ClientName, inv.BusinessName, invoiceURL, inv.BusinessEmail)
}

func buildPaymentConfirmationHTML(inv *domain.Invoice) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #10B981;">Payment Received!</h2>
  <div style="background: #ecfdf5; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #10B981;">
    <h3>Payment Confirmation</h3>
    <p><strong>Invoice ID:</strong> #%s</p>
    <p><strong>Amount Paid:</strong> $%s</p>
  </div>
  <p>Hello %s,</p>
  <p>Thank you for your payment! We have successfully received your payment for invoice #%s.</p>
  <p>If you need a receipt or have any questions, please contact us at %s.</p>
  <p>Best regards,<br>%s</p>
</body>
</html>`,
		inv.Number(), inv.Total.StringFixed(2), inv.ClientName, inv.Number(),
		inv.BusinessEmail, inv.BusinessName)
}
